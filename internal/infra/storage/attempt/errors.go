package attempt

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытка оплаты не найдена
	ErrAttemptNotFound = errors.New("attempt.repository: checkout attempt not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("attempt.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("attempt.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("attempt.repository: failed to scan row")
)
