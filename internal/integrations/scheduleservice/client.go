package scheduleservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с удаленным сервисом расписаний
// Сервис расписаний — источник истины по местам, слотам и броням;
// клиент только отражает и мутирует это состояние
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	// rulesCache кэш правил расписания; правила read-only, поэтому
	// короткий TTL безопасен и снимает лишние запросы с горячего пути
	rulesCache *gocache.Cache
}

// NewClient создает новый экземпляр клиента сервиса расписаний
func NewClient(baseURL string, timeout time.Duration, rulesTTL time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:        log,
		rulesCache: gocache.New(rulesTTL, 2*rulesTTL),
	}
}

// GetMemberSchedules получает все брони пользователя
func (c *Client) GetMemberSchedules(ctx context.Context, userID int64) ([]MemberSchedule, error) {
	url := fmt.Sprintf("%s/schedule/member/%d", c.baseURL, userID)

	var schedules []MemberSchedule
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &schedules); err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetTimeOptions получает слоты места на дату вместе с остатком лимита пользователя
// Результат не кэшируется: занятость слотов меняется постоянно
func (c *Client) GetTimeOptions(ctx context.Context, date time.Time, placeID int64) (*TimeOptionsResponse, error) {
	url := fmt.Sprintf("%s/schedule/time-options", c.baseURL)
	body := TimeOptionsRequest{
		Date:    date.Format(domain.DateFormat),
		PlaceID: placeID,
	}

	var resp TimeOptionsResponse
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// CreateSchedule создает удержанную бронь на слот
// Возвращает ErrSlotTaken, если слот успел занять другой пользователь
func (c *Client) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*MemberSchedule, error) {
	url := fmt.Sprintf("%s/schedule", c.baseURL)

	var created MemberSchedule
	if err := c.doJSON(ctx, http.MethodPost, url, req, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeletePending освобождает удержанную бронь
func (c *Client) DeletePending(ctx context.Context, scheduleID int64) error {
	url := fmt.Sprintf("%s/schedule/delete-pending", c.baseURL)
	return c.doJSON(ctx, http.MethodDelete, url, DeletePendingRequest{ID: scheduleID}, nil)
}

// ConfirmPayment атомарно подтверждает брони после успешной оплаты
// Возвращает ErrPaymentConflict, если сервер сообщил о гонке за слот
// (HTTP 409 или код ошибки "expired") — вызывающий обязан выполнить возврат
func (c *Client) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) error {
	url := fmt.Sprintf("%s/schedule/payment", c.baseURL)
	return c.doJSON(ctx, http.MethodPost, url, req, nil)
}

// GetSchedulingRules получает правила расписания места (с кэшированием)
func (c *Client) GetSchedulingRules(ctx context.Context, placeID int64) ([]*domain.SchedulingRule, error) {
	cacheKey := fmt.Sprintf("rules:%d", placeID)
	if cached, found := c.rulesCache.Get(cacheKey); found {
		return cached.([]*domain.SchedulingRule), nil
	}

	url := fmt.Sprintf("%s/schedule/rules/%d", c.baseURL, placeID)

	var wire []Rule
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &wire); err != nil {
		return nil, err
	}

	rules := make([]*domain.SchedulingRule, 0, len(wire))
	for i := range wire {
		rule, err := wire[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	c.rulesCache.SetDefault(cacheKey, rules)
	return rules, nil
}

// doJSON выполняет запрос с JSON телом и парсит JSON ответ в out (если не nil)
func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request body: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
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
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		// Продолжаем обработку
	case http.StatusNotFound:
		if strings.Contains(url, "/schedule/rules/") || strings.Contains(url, "/time-options") {
			return ErrPlaceNotFound
		}
		return ErrScheduleNotFound
	case http.StatusConflict:
		if strings.HasSuffix(url, "/schedule/payment") {
			return ErrPaymentConflict
		}
		return ErrSlotTaken
	default:
		raw, _ := io.ReadAll(resp.Body)

		// Явный код ошибки "expired" равнозначен конфликту 409
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error == "expired" {
			if strings.HasSuffix(url, "/schedule/payment") {
				return ErrPaymentConflict
			}
			return ErrSlotTaken
		}

		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
