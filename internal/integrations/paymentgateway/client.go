package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза (карта/Pix), потребляемый через server-side proxy
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Charge выполняет списание
// Для карты возвращает транзакцию; незахваченная транзакция мапится
// в ErrChargeDeclined. Для Pix возвращает QR payload
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	c.log.Info("Charge: method=%s, amount=%d, reference=%s", req.Method, req.Amount, req.Reference)

	var resp ChargeResponse
	if err := c.post(ctx, c.baseURL+"/charge", req, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Transaction != nil:
		if !resp.Transaction.Captured() {
			c.log.Warn("Charge: declined, returnCode=%s, reference=%s",
				resp.Transaction.ReturnCode, req.Reference)
			return nil, fmt.Errorf("%w: returnCode=%s", ErrChargeDeclined, resp.Transaction.ReturnCode)
		}
		c.log.Info("Charge: captured, tid=%s, amount=%d", resp.Transaction.TID, resp.Transaction.Amount)
	case resp.Pix != nil:
		c.log.Info("Charge: pix payload generated, reference=%s", req.Reference)
	default:
		return nil, fmt.Errorf("%w: neither transaction nor pix in charge response", ErrInvalidResponse)
	}

	return &resp, nil
}

// Refund выполняет возврат средств по транзакции
// Сумма должна в точности равняться списанной
func (c *Client) Refund(ctx context.Context, transactionID string, amount int64) (*RefundResponse, error) {
	c.log.Info("Refund: tid=%s, amount=%d", transactionID, amount)

	var resp RefundResponse
	err := c.post(ctx, c.baseURL+"/refund", RefundRequest{
		TransactionID: transactionID,
		Amount:        amount,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	if !resp.Refunded {
		return nil, fmt.Errorf("%w: gateway reported refunded=false, tid=%s", ErrRefundFailed, transactionID)
	}

	c.log.Info("Refund: completed, tid=%s, refundId=%s", transactionID, resp.RefundID)
	return &resp, nil
}

// post выполняет POST с JSON телом и парсит JSON ответ
func (c *Client) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request body: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity, http.StatusPaymentRequired:
		raw, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		_ = json.Unmarshal(raw, &errResp)
		return fmt.Errorf("%w: %s", ErrChargeDeclined, errResp.Message)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
