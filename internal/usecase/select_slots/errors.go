package select_slots

import "errors"

var (
	// ErrPlaceNotFound возвращается, когда место не найдено
	ErrPlaceNotFound = errors.New("select_slots: place not found")

	// ErrDateNotOrderable возвращается, когда дата закрыта правилами расписания
	ErrDateNotOrderable = errors.New("select_slots: date is not orderable")

	// ErrSlotNotAdjacent возвращается, когда выбор нарушает правило смежности:
	// выбранные слоты вместе с уже принадлежащими пользователю должны
	// образовывать один непрерывный блок
	ErrSlotNotAdjacent = errors.New("select_slots: selection is not adjacent")

	// ErrQuantityExceeded возвращается при превышении лимита броней пользователя
	ErrQuantityExceeded = errors.New("select_slots: quantity limit exceeded")

	// ErrSlotBlocked возвращается при попытке выбрать недоступный слот
	ErrSlotBlocked = errors.New("select_slots: slot is not selectable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("select_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("select_slots: internal error")
)
