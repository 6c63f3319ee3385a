package get_checkout_attempt

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытка оплаты не найдена
	ErrAttemptNotFound = errors.New("get_checkout_attempt: attempt not found")

	// ErrAccessDenied возвращается при попытке прочитать чужую попытку оплаты
	ErrAccessDenied = errors.New("get_checkout_attempt: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_checkout_attempt: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_checkout_attempt: internal error")
)
