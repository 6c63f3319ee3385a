package checkout

import (
	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
	checkoutUC "github.com/m04kA/CLF-ReservationService/internal/usecase/checkout"
)

// CardRequest данные карты из HTTP запроса
type CardRequest struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
	CVV        string `json:"cvv"`
}

// CheckoutRequest HTTP запрос на оплату корзины
type CheckoutRequest struct {
	Method      string       `json:"method"` // card | pix
	Card        *CardRequest `json:"card,omitempty"`
	AmountCents int64        `json:"amount_cents"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckoutRequest) ToUseCaseRequest(userID int64) *checkoutUC.Request {
	var card *paymentgateway.CardData
	if r.Card != nil {
		card = &paymentgateway.CardData{
			Number:     r.Card.Number,
			HolderName: r.Card.HolderName,
			ExpMonth:   r.Card.ExpMonth,
			ExpYear:    r.Card.ExpYear,
			CVV:        r.Card.CVV,
		}
	}

	return &checkoutUC.Request{
		UserID:      userID,
		Method:      domain.PaymentMethod(r.Method),
		Card:        card,
		AmountCents: r.AmountCents,
	}
}

// PixResponse Pix-платеж в HTTP ответе
type PixResponse struct {
	QRCode           string `json:"qrcode"`
	QRCodeBase64     string `json:"qrcode_base64"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

// CheckoutResponse HTTP ответ с итогом попытки оплаты
type CheckoutResponse struct {
	AttemptID       string `json:"attempt_id"`
	Outcome         string `json:"outcome"`
	Message         string `json:"message"`
	RedirectSeconds int    `json:"redirect_seconds,omitempty"`

	TransactionID *string      `json:"transaction_id,omitempty"`
	Pix           *PixResponse `json:"pix,omitempty"`
	RefundedCents *int64       `json:"refunded_cents,omitempty"`
}

// Сообщения по исходам попытки, показываемые пользователю
var outcomeMessages = map[domain.CheckoutOutcome]string{
	domain.OutcomeSuccess:          "pagamento aprovado, suas reservas foram confirmadas",
	domain.OutcomeExpired:          "sua reserva expirou e o pagamento não foi realizado",
	domain.OutcomeRefundedConflict: "o horário foi ocupado por outro associado, o valor foi estornado",
	domain.OutcomePixPending:       "pagamento Pix gerado, conclua a leitura do QR code",
	domain.OutcomeError:            "não foi possível concluir o pagamento",
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *checkoutUC.Response) *CheckoutResponse {
	out := &CheckoutResponse{
		AttemptID:       resp.AttemptID,
		Outcome:         string(resp.Outcome),
		Message:         outcomeMessages[resp.Outcome],
		RedirectSeconds: resp.RedirectSeconds,
		TransactionID:   resp.TransactionID,
		RefundedCents:   resp.RefundedCents,
	}

	if resp.Pix != nil {
		out.Pix = &PixResponse{
			QRCode:           resp.Pix.QRCode,
			QRCodeBase64:     resp.Pix.QRCodeBase64,
			ExpiresInSeconds: resp.Pix.ExpiresInSeconds,
		}
	}

	return out
}
