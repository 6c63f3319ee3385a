package checkout

import "errors"

var (
	// ErrEmptyCart возвращается при попытке оплатить пустую корзину
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrAmountMismatch возвращается, когда сумма из запроса не совпадает
	// с актуальной суммой корзины
	ErrAmountMismatch = errors.New("checkout: amount does not match cart total")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("checkout: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("checkout: internal error")
)
