package domain

import "time"

// RuleKind тип правила расписания
type RuleKind string

const (
	// RuleInclude дата должна попадать под правило, чтобы быть доступной
	RuleInclude RuleKind = "include"
	// RuleExclude дата, попадающая под правило, недоступна
	RuleExclude RuleKind = "exclude"
)

// SchedulingRule серверное правило доступности места
// Потребляется только для чтения; сервис никогда его не изменяет
type SchedulingRule struct {
	ID      int64
	PlaceID int64
	Kind    RuleKind

	// Диапазон дат действия правила; nil = без ограничения
	DateFrom *time.Time
	DateTo   *time.Time

	// Weekdays дни недели, к которым применяется правило; пустой = все дни
	Weekdays []time.Weekday

	// Окно предварительного бронирования в днях; 0 = без ограничения
	MinAdvanceDays int
	MaxAdvanceDays int
}

// Matches возвращает true, если правило применимо к указанной дате
func (r *SchedulingRule) Matches(date time.Time) bool {
	day := truncateToDay(date)

	if r.DateFrom != nil && day.Before(truncateToDay(*r.DateFrom)) {
		return false
	}
	if r.DateTo != nil && day.After(truncateToDay(*r.DateTo)) {
		return false
	}

	if len(r.Weekdays) > 0 {
		found := false
		for _, wd := range r.Weekdays {
			if wd == day.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// withinAdvanceWindow проверяет окно предварительного бронирования
func (r *SchedulingRule) withinAdvanceWindow(date, now time.Time) bool {
	days := int(truncateToDay(date).Sub(truncateToDay(now)).Hours() / 24)

	if r.MinAdvanceDays > 0 && days < r.MinAdvanceDays {
		return false
	}
	if r.MaxAdvanceDays > 0 && days > r.MaxAdvanceDays {
		return false
	}
	return true
}

// RulesAllowDate вычисляет, доступна ли дата для заказа по набору правил
// Include-правила образуют allow-list (если их нет — все даты доступны),
// exclude-правила вычитаются поверх
func RulesAllowDate(rules []*SchedulingRule, date, now time.Time) bool {
	if truncateToDay(date).Before(truncateToDay(now)) {
		return false
	}

	hasInclude := false
	included := false

	for _, rule := range rules {
		if rule.Kind != RuleInclude {
			continue
		}
		hasInclude = true
		if rule.Matches(date) && rule.withinAdvanceWindow(date, now) {
			included = true
		}
	}

	if hasInclude && !included {
		return false
	}

	for _, rule := range rules {
		if rule.Kind == RuleExclude && rule.Matches(date) {
			return false
		}
	}

	return true
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
