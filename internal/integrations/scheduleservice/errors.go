package scheduleservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("scheduleservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("scheduleservice client: invalid response")

	// ErrPlaceNotFound возвращается, когда место не найдено
	ErrPlaceNotFound = errors.New("scheduleservice: place not found")

	// ErrScheduleNotFound возвращается, когда бронь не найдена (например, уже истекла)
	ErrScheduleNotFound = errors.New("scheduleservice: schedule not found")

	// ErrSlotTaken возвращается, когда слот уже занят другим пользователем
	ErrSlotTaken = errors.New("scheduleservice: slot already taken")

	// ErrPaymentConflict возвращается при конфликте подтверждения оплаты:
	// слот был занят другим пользователем между pre-check и подтверждением
	// (HTTP 409 или явный код ошибки "expired")
	ErrPaymentConflict = errors.New("scheduleservice: payment confirmation conflict")
)
