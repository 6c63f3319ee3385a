package cart

import "errors"

var (
	// ErrItemNotFound возвращается, когда позиции нет в корзине пользователя
	ErrItemNotFound = errors.New("cart: item not found")

	// ErrRemoveFailed возвращается, когда сервер не смог освободить бронь;
	// локальная корзина при этом восстановлена в прежнее состояние
	ErrRemoveFailed = errors.New("cart: server delete failed")

	// ErrRefreshFailed возвращается, когда не удалось обновить корзину с сервера;
	// прежнее локальное состояние остается без изменений
	ErrRefreshFailed = errors.New("cart: refresh failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("cart: internal error")
)
