package checkout

import (
	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
)

// Request запрос на оплату корзины
// AmountCents сумма, которую пользователь видел на экране оплаты;
// сверяется с актуальной суммой корзины перед списанием
type Request struct {
	UserID      int64
	Method      domain.PaymentMethod
	Card        *paymentgateway.CardData
	AmountCents int64
}

// Response результат попытки оплаты
//
// Outcome всегда заполнен; failed исходы не являются ошибками usecase,
// вызывающий показывает их пользователю как итог попытки
type Response struct {
	AttemptID       string
	Outcome         domain.CheckoutOutcome
	RedirectSeconds int

	// TransactionID заполнен при успешном списании картой
	TransactionID *string

	// Pix заполнен для Pix-платежа: оплата завершается вне сервиса
	Pix *paymentgateway.PixPayload

	// RefundedCents сумма компенсирующего возврата (исход refunded_conflict
	// или error после списания)
	RefundedCents *int64

	// ManualIntervention возврат не удался, попытка помечена для ручного разбора
	ManualIntervention bool
}
