package scheduleservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, 5*time.Second, time.Minute, nopLogger{})
}

func TestConfirmPayment_ConflictMapping(t *testing.T) {
	t.Run("409 maps to payment conflict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		err := newTestClient(srv.URL).ConfirmPayment(context.Background(), ConfirmPaymentRequest{
			ScheduleIDs: []int64{501},
			StatusID:    1,
		})
		assert.ErrorIs(t, err, ErrPaymentConflict)
	})

	t.Run("expired error body maps to payment conflict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"expired","message":"schedule hold expired"}`))
		}))
		defer srv.Close()

		err := newTestClient(srv.URL).ConfirmPayment(context.Background(), ConfirmPaymentRequest{
			ScheduleIDs: []int64{501},
			StatusID:    1,
		})
		assert.ErrorIs(t, err, ErrPaymentConflict)
	})
}

func TestCreateSchedule_SlotTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateSchedule(context.Background(), CreateScheduleRequest{
		PlaceID: 7,
		Date:    "2026-03-12",
		Start:   "10:00",
		End:     "11:00",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestGetTimeOptions_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetTimeOptions(context.Background(), time.Now(), 999)
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestGetSchedulingRules_Caching(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"id":1,"place_id":7,"kind":"include","weekdays":[6]}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	rules, err := client.GetSchedulingRules(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []time.Weekday{time.Saturday}, rules[0].Weekdays)

	// Повторный запрос обслуживается из кэша
	_, err = client.GetSchedulingRules(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestMemberSchedule_ToDomain(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	wire := MemberSchedule{
		ID:            501,
		UserID:        42,
		PlaceID:       7,
		StatusID:      3,
		StartSchedule: "2026-03-12T13:00:00Z",
		EndSchedule:   "2026-03-12T14:00:00Z",
		Price:         5000,
		CreatedAt:     "2026-03-12T12:55:00Z",
		Place:         Place{Name: "Quadra 1", Image: "quadra1.jpg"},
	}

	r, err := wire.ToDomain(loc)
	require.NoError(t, err)

	assert.Equal(t, 10, r.StartsAt.Hour(), "times are normalized to the club timezone")
	assert.Equal(t, "Quadra 1", r.PlaceName)
	assert.True(t, r.IsHeld())

	wire.StartSchedule = "12/03/2026"
	_, err = wire.ToDomain(loc)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
