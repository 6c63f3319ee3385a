package attempt

import (
	"github.com/m04kA/CLF-ReservationService/pkg/txmanager"
)

// Переиспользуем интерфейс исполнителя запросов из txmanager
// Поддерживает *sql.DB и *sql.Tx
type DBExecutor = txmanager.Executor
