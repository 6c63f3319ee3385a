package paymentgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")

	// ErrChargeDeclined возвращается, когда шлюз отклонил списание
	// (карта отклонена, генерация Pix не удалась); захваченного платежа нет,
	// компенсирующий возврат не требуется
	ErrChargeDeclined = errors.New("paymentgateway: charge declined")

	// ErrRefundFailed возвращается при неудачном возврате средств
	// Это единственное невосстановимое состояние системы: вызывающий обязан
	// зафиксировать его как требующее ручного вмешательства
	ErrRefundFailed = errors.New("paymentgateway: refund failed")
)
