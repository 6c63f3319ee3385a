package paymentgateway

// CardData данные карты для списания
type CardData struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
	CVV        string `json:"cvv"`
}

// ChargeRequest запрос на списание
// Amount всегда в минорных единицах валюты (центавос)
type ChargeRequest struct {
	Method    string    `json:"method"` // card | pix
	Card      *CardData `json:"card,omitempty"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"` // идентификатор попытки оплаты
}

// Transaction результат карточной транзакции
type Transaction struct {
	TID               string `json:"tid"`
	Amount            int64  `json:"amount"`
	ReturnCode        string `json:"returnCode"` // "00" = успех
	Capture           bool   `json:"capture"`
	Last4             string `json:"last4"`
	AuthorizationCode string `json:"authorizationCode"`
	NSU               string `json:"nsu"`
	BrandTID          string `json:"brandTid"`
	Reference         string `json:"reference"`
}

// Captured возвращает true, если платеж реально захвачен
func (t *Transaction) Captured() bool {
	return t.ReturnCode == "00" && t.Capture
}

// PixPayload данные Pix-платежа: QR-код с собственным окном оплаты,
// не связанным с часами удержания корзины
type PixPayload struct {
	QRCode           string `json:"qrcode"`
	QRCodeBase64     string `json:"qrcodeBase64"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// ChargeResponse ответ шлюза на списание: ровно одно из полей заполнено
type ChargeResponse struct {
	Transaction *Transaction `json:"transaction,omitempty"`
	Pix         *PixPayload  `json:"pix,omitempty"`
}

// RefundRequest запрос на возврат средств по транзакции
type RefundRequest struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
}

// RefundResponse ответ шлюза на возврат
type RefundResponse struct {
	Refunded bool   `json:"refunded"`
	RefundID string `json:"refundId"`
}

// ErrorResponse модель ошибки шлюза
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
