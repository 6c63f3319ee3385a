package scheduleservice

import (
	"fmt"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/pkg/types"
)

// scheduleTimeLayout формат временных меток сервиса расписаний
const scheduleTimeLayout = time.RFC3339

// Place вложенная модель места в ответах сервиса
type Place struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// MemberSchedule бронь пользователя из сервиса расписаний
type MemberSchedule struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	PlaceID       int64  `json:"place_id"`
	StatusID      int    `json:"status_id"`
	StartSchedule string `json:"start_schedule"` // RFC3339
	EndSchedule   string `json:"end_schedule"`   // RFC3339
	Price         int64  `json:"price"`          // минорные единицы валюты
	CreatedAt     string `json:"created_at"`     // RFC3339
	Place         Place  `json:"place"`
}

// ToDomain конвертирует бронь в доменную модель, нормализуя времена
// в часовой пояс клуба
func (m *MemberSchedule) ToDomain(loc *time.Location) (*domain.Reservation, error) {
	start, err := time.Parse(scheduleTimeLayout, m.StartSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: parse start_schedule %q: %v", ErrInvalidResponse, m.StartSchedule, err)
	}
	end, err := time.Parse(scheduleTimeLayout, m.EndSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: parse end_schedule %q: %v", ErrInvalidResponse, m.EndSchedule, err)
	}
	createdAt, err := time.Parse(scheduleTimeLayout, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: parse created_at %q: %v", ErrInvalidResponse, m.CreatedAt, err)
	}

	return &domain.Reservation{
		ID:         m.ID,
		UserID:     m.UserID,
		PlaceID:    m.PlaceID,
		PlaceName:  m.Place.Name,
		PlaceImage: m.Place.Image,
		StartsAt:   start.In(loc),
		EndsAt:     end.In(loc),
		PriceCents: m.Price,
		Status:     domain.ReservationStatus(m.StatusID),
		CreatedAt:  createdAt.In(loc),
	}, nil
}

// TimeOptionsRequest запрос списка слотов места на дату
type TimeOptionsRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD
	PlaceID int64  `json:"place_id"`
}

// TimeOption слот из ответа time-options
type TimeOption struct {
	Start               string  `json:"start"` // HH:MM
	End                 string  `json:"end"`   // HH:MM
	Owner               int64   `json:"owner"` // 0 = никем не занят
	Status              *string `json:"status"`
	ExcludedByRule      bool    `json:"excluded_by_rule"`
	ColidedDescription  *string `json:"colided_description"`
}

// ToDomain конвертирует слот в доменную модель
func (o *TimeOption) ToDomain() *domain.TimeOption {
	var status *domain.SlotStatus
	if o.Status != nil {
		s := domain.SlotStatus(*o.Status)
		status = &s
	}

	return &domain.TimeOption{
		Start:               types.TimeString(o.Start),
		End:                 types.TimeString(o.End),
		OwnerID:             o.Owner,
		Status:              status,
		ExcludedByRule:      o.ExcludedByRule,
		ConflictDescription: o.ColidedDescription,
	}
}

// TimeOptionsResponse ответ time-options: слоты, упорядоченные по началу,
// и остаток лимита броней пользователя
type TimeOptionsResponse struct {
	Options           []TimeOption `json:"options"`
	RemainingQuantity int          `json:"remaining_quantity"`
}

// CreateScheduleRequest запрос на создание удержанной брони
type CreateScheduleRequest struct {
	PlaceID int64  `json:"place_id"`
	Date    string `json:"date"`  // YYYY-MM-DD
	Start   string `json:"start"` // HH:MM
	End     string `json:"end"`   // HH:MM
}

// DeletePendingRequest запрос на освобождение удержанной брони
type DeletePendingRequest struct {
	ID int64 `json:"id"`
}

// PaymentMetadata платежные метаданные, записываемые при подтверждении
type PaymentMetadata struct {
	AuthorizationCode string `json:"authorization_code"`
	Last4             string `json:"last4"`
	NSU               string `json:"nsu"`
	BrandTID          string `json:"brand_tid"`
	Reference         string `json:"reference"`
}

// ConfirmPaymentRequest запрос на атомарное подтверждение броней после оплаты
type ConfirmPaymentRequest struct {
	ScheduleIDs          []int64         `json:"schedule_ids"`
	StatusID             int             `json:"status_id"`
	PaymentIntegrationID string          `json:"payment_integration_id"`
	PaidAmount           int64           `json:"paid_amount"` // минорные единицы
	PaidAt               string          `json:"paid_at"`     // RFC3339
	Metadata             PaymentMetadata `json:"metadata"`
}

// Rule правило расписания места
type Rule struct {
	ID             int64   `json:"id"`
	PlaceID        int64   `json:"place_id"`
	Kind           string  `json:"kind"` // include | exclude
	DateFrom       *string `json:"date_from"` // YYYY-MM-DD
	DateTo         *string `json:"date_to"`   // YYYY-MM-DD
	Weekdays       []int   `json:"weekdays"`  // 0=Sunday ... 6=Saturday
	MinAdvanceDays int     `json:"min_advance_days"`
	MaxAdvanceDays int     `json:"max_advance_days"`
}

// ToDomain конвертирует правило в доменную модель
func (r *Rule) ToDomain() (*domain.SchedulingRule, error) {
	rule := &domain.SchedulingRule{
		ID:             r.ID,
		PlaceID:        r.PlaceID,
		Kind:           domain.RuleKind(r.Kind),
		MinAdvanceDays: r.MinAdvanceDays,
		MaxAdvanceDays: r.MaxAdvanceDays,
	}

	if r.DateFrom != nil {
		from, err := time.Parse(domain.DateFormat, *r.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: parse rule date_from %q: %v", ErrInvalidResponse, *r.DateFrom, err)
		}
		rule.DateFrom = &from
	}
	if r.DateTo != nil {
		to, err := time.Parse(domain.DateFormat, *r.DateTo)
		if err != nil {
			return nil, fmt.Errorf("%w: parse rule date_to %q: %v", ErrInvalidResponse, *r.DateTo, err)
		}
		rule.DateTo = &to
	}
	for _, wd := range r.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}

	return rule, nil
}

// ErrorResponse модель ошибки сервиса расписаний
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
