package domain

// Значения по умолчанию (переопределяются конфигурацией)
const (
	// DefaultHoldMinutes длительность удержания брони в корзине
	DefaultHoldMinutes = 10
	// DefaultWarnThresholdSeconds порог предупреждения об истечении удержания
	DefaultWarnThresholdSeconds = 60
	// DefaultTimezone часовой пояс клуба, в который нормализуются все времена
	DefaultTimezone = "America/Sao_Paulo"
	// DefaultRedirectSeconds видимый обратный отсчет до авто-редиректа после checkout
	DefaultRedirectSeconds = 10
)

// Business validation constants
const (
	MaxSlotsPerRequest = 24
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// NotificationKind тип уведомления в корзине
type NotificationKind string

const (
	// NotificationHoldExpiring удержание скоро истечет (дедуплицируется)
	NotificationHoldExpiring NotificationKind = "hold_expiring"
	// NotificationCartEmpty корзина опустела (защита от устаревшего checkout)
	NotificationCartEmpty NotificationKind = "cart_empty"
	// NotificationItemRemoveFailed удаление позиции на сервере не удалось
	NotificationItemRemoveFailed NotificationKind = "item_remove_failed"
)
