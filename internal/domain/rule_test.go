package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRulesAllowDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) // вторник

	t.Run("no rules allow any future date", func(t *testing.T) {
		assert.True(t, RulesAllowDate(nil, day(2026, 3, 14), now))
	})

	t.Run("past dates are never orderable", func(t *testing.T) {
		assert.False(t, RulesAllowDate(nil, day(2026, 3, 9), now))
	})

	t.Run("same day is orderable", func(t *testing.T) {
		assert.True(t, RulesAllowDate(nil, day(2026, 3, 10), now))
	})

	t.Run("include rules form an allow-list", func(t *testing.T) {
		rules := []*SchedulingRule{{
			Kind:     RuleInclude,
			Weekdays: []time.Weekday{time.Saturday, time.Sunday},
		}}

		assert.True(t, RulesAllowDate(rules, day(2026, 3, 14), now))  // суббота
		assert.False(t, RulesAllowDate(rules, day(2026, 3, 12), now)) // четверг
	})

	t.Run("exclude rules subtract from the allow-list", func(t *testing.T) {
		from := day(2026, 3, 14)
		to := day(2026, 3, 14)
		rules := []*SchedulingRule{
			{Kind: RuleInclude, Weekdays: []time.Weekday{time.Saturday}},
			{Kind: RuleExclude, DateFrom: &from, DateTo: &to}, // закрыто на мероприятие
		}

		assert.False(t, RulesAllowDate(rules, day(2026, 3, 14), now))
		assert.True(t, RulesAllowDate(rules, day(2026, 3, 21), now)) // следующая суббота
	})

	t.Run("advance window bounds the include rule", func(t *testing.T) {
		rules := []*SchedulingRule{{
			Kind:           RuleInclude,
			MaxAdvanceDays: 7,
		}}

		assert.True(t, RulesAllowDate(rules, day(2026, 3, 17), now))
		assert.False(t, RulesAllowDate(rules, day(2026, 3, 18), now))
	})

	t.Run("min advance days", func(t *testing.T) {
		rules := []*SchedulingRule{{
			Kind:           RuleInclude,
			MinAdvanceDays: 2,
		}}

		assert.False(t, RulesAllowDate(rules, day(2026, 3, 11), now))
		assert.True(t, RulesAllowDate(rules, day(2026, 3, 12), now))
	})
}

func TestReservation_HoldSecondsLeft(t *testing.T) {
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	hold := 10 * time.Minute

	r := Reservation{CreatedAt: now.Add(-9 * time.Minute)}
	assert.Equal(t, int64(60), r.HoldSecondsLeft(now, hold))

	expired := Reservation{CreatedAt: now.Add(-11 * time.Minute)}
	assert.Equal(t, int64(0), expired.HoldSecondsLeft(now, hold), "expired hold clamps to zero")

	// Часы сервера могут расходиться: будущий CreatedAt не дает больше полного окна
	future := Reservation{CreatedAt: now.Add(time.Minute)}
	assert.Equal(t, int64(600), future.HoldSecondsLeft(now, hold))
}

func TestTimeOption_Ownership(t *testing.T) {
	held := SlotStatusHeld
	opt := TimeOption{Start: "10:00", End: "11:00", OwnerID: 42, Status: &held}

	assert.True(t, opt.IsOwnedBy(42))
	assert.False(t, opt.IsOwnedBy(7))
	assert.False(t, opt.IsOwnedBy(0), "anonymous viewer owns nothing")
	assert.False(t, opt.IsSelectableBy(42))

	free := TimeOption{Start: "11:00", End: "12:00"}
	assert.True(t, free.IsFree())
	assert.True(t, free.IsSelectableBy(42))
}
