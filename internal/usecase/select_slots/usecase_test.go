package select_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	scheduleClient "github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
	"github.com/m04kA/CLF-ReservationService/pkg/ptr"
)

type fakeScheduleClient struct {
	GetTimeOptionsFunc     func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error)
	GetSchedulingRulesFunc func(ctx context.Context, placeID int64) ([]*domain.SchedulingRule, error)
	CreateScheduleFunc     func(ctx context.Context, req scheduleClient.CreateScheduleRequest) (*scheduleClient.MemberSchedule, error)

	createCalls []scheduleClient.CreateScheduleRequest
}

func (f *fakeScheduleClient) GetTimeOptions(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
	return f.GetTimeOptionsFunc(ctx, date, placeID)
}

func (f *fakeScheduleClient) GetSchedulingRules(ctx context.Context, placeID int64) ([]*domain.SchedulingRule, error) {
	if f.GetSchedulingRulesFunc == nil {
		return nil, nil
	}
	return f.GetSchedulingRulesFunc(ctx, placeID)
}

func (f *fakeScheduleClient) CreateSchedule(ctx context.Context, req scheduleClient.CreateScheduleRequest) (*scheduleClient.MemberSchedule, error) {
	f.createCalls = append(f.createCalls, req)
	return f.CreateScheduleFunc(ctx, req)
}

type fakeCart struct {
	refreshed []int64
}

func (f *fakeCart) Refresh(ctx context.Context, userID int64) (bool, error) {
	f.refreshed = append(f.refreshed, userID)
	return true, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

const testUserID = int64(42)

// freeOption свободный слот HH:MM в выдаче time-options
func freeOption(start, end string) scheduleClient.TimeOption {
	return scheduleClient.TimeOption{Start: start, End: end}
}

// heldOption слот, удержанный пользователем owner
func heldOption(start, end string, owner int64) scheduleClient.TimeOption {
	return scheduleClient.TimeOption{Start: start, End: end, Owner: owner, Status: ptr.Ptr("held")}
}

func optionsResponse(remaining int, options ...scheduleClient.TimeOption) *scheduleClient.TimeOptionsResponse {
	return &scheduleClient.TimeOptionsResponse{Options: options, RemainingQuantity: remaining}
}

func newTestUseCase(client *fakeScheduleClient, cart *fakeCart, now time.Time) *UseCase {
	uc := NewUseCase(client, cart, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestGetOptions_SelectabilityByViewer(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	client := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return optionsResponse(3,
				freeOption("08:00", "09:00"),
				heldOption("09:00", "10:00", testUserID),
				heldOption("10:00", "11:00", 777),
			), nil
		},
	}
	uc := newTestUseCase(client, &fakeCart{}, now)

	resp, err := uc.GetOptions(context.Background(), &OptionsRequest{UserID: testUserID, PlaceID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Orderable)

	// Свободный слот выбираем
	assert.True(t, resp.Slots[0].Selectable)
	assert.Nil(t, resp.Slots[0].BlockReason)

	// Собственный слот не выбираем повторно, но помечен как owned
	assert.False(t, resp.Slots[1].Selectable)
	assert.True(t, resp.Slots[1].Owned)

	// Чужой удержанный слот занят
	assert.False(t, resp.Slots[2].Selectable)
	assert.False(t, resp.Slots[2].Owned)
	require.NotNil(t, resp.Slots[2].BlockReason)
	assert.Equal(t, reasonOccupied, *resp.Slots[2].BlockReason)
}

func TestGetOptions_DateClosedByRules(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC) // четверг

	client := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return optionsResponse(3, freeOption("08:00", "09:00")), nil
		},
		GetSchedulingRulesFunc: func(ctx context.Context, placeID int64) ([]*domain.SchedulingRule, error) {
			// Место работает только по субботам
			return []*domain.SchedulingRule{{
				Kind:     domain.RuleInclude,
				Weekdays: []time.Weekday{time.Saturday},
			}}, nil
		},
	}
	uc := newTestUseCase(client, &fakeCart{}, now)

	resp, err := uc.GetOptions(context.Background(), &OptionsRequest{UserID: testUserID, PlaceID: 1, Date: date})
	require.NoError(t, err)

	assert.False(t, resp.Orderable)
	require.Len(t, resp.Slots, 1)
	assert.False(t, resp.Slots[0].Selectable)
	require.NotNil(t, resp.Slots[0].BlockReason)
	assert.Equal(t, reasonNotOrder, *resp.Slots[0].BlockReason)
}

func TestReserve_AdjacencyRule(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	newClient := func(owned bool) *fakeScheduleClient {
		return &fakeScheduleClient{
			GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
				options := []scheduleClient.TimeOption{
					freeOption("08:00", "09:00"),
					freeOption("09:00", "10:00"),
					freeOption("10:00", "11:00"),
					freeOption("11:00", "12:00"),
					freeOption("12:00", "13:00"),
				}
				if owned {
					options[2] = heldOption("10:00", "11:00", testUserID)
				}
				return optionsResponse(10, options...), nil
			},
			CreateScheduleFunc: func(ctx context.Context, req scheduleClient.CreateScheduleRequest) (*scheduleClient.MemberSchedule, error) {
				return &scheduleClient.MemberSchedule{ID: 100}, nil
			},
		}
	}

	t.Run("consecutive selection is accepted", func(t *testing.T) {
		uc := newTestUseCase(newClient(false), &fakeCart{}, now)
		resp, err := uc.Reserve(context.Background(), &ReserveRequest{
			UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{0, 1},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Created, 2)
	})

	t.Run("gap in selection is rejected", func(t *testing.T) {
		uc := newTestUseCase(newClient(false), &fakeCart{}, now)
		_, err := uc.Reserve(context.Background(), &ReserveRequest{
			UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{0, 3},
		})
		assert.ErrorIs(t, err, ErrSlotNotAdjacent)
	})

	t.Run("selection adjacent to an owned slot is accepted", func(t *testing.T) {
		uc := newTestUseCase(newClient(true), &fakeCart{}, now)
		resp, err := uc.Reserve(context.Background(), &ReserveRequest{
			UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{3},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Created, 1)
	})

	t.Run("selection detached from an owned slot is rejected", func(t *testing.T) {
		uc := newTestUseCase(newClient(true), &fakeCart{}, now)
		_, err := uc.Reserve(context.Background(), &ReserveRequest{
			UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{4},
		})
		assert.ErrorIs(t, err, ErrSlotNotAdjacent)
	})
}

func TestReserve_QuantityLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	client := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return optionsResponse(1,
				freeOption("08:00", "09:00"),
				freeOption("09:00", "10:00"),
			), nil
		},
	}
	uc := newTestUseCase(client, &fakeCart{}, now)

	_, err := uc.Reserve(context.Background(), &ReserveRequest{
		UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{0, 1},
	})
	assert.ErrorIs(t, err, ErrQuantityExceeded)
	assert.Empty(t, client.createCalls, "no slot may be held when the limit check fails")
}

func TestReserve_PartialFailureOnRace(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	cart := &fakeCart{}
	client := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return optionsResponse(10,
				freeOption("08:00", "09:00"),
				freeOption("09:00", "10:00"),
			), nil
		},
		CreateScheduleFunc: func(ctx context.Context, req scheduleClient.CreateScheduleRequest) (*scheduleClient.MemberSchedule, error) {
			// Второй слот проигран в гонке другому пользователю
			if req.Start == "09:00" {
				return nil, scheduleClient.ErrSlotTaken
			}
			return &scheduleClient.MemberSchedule{ID: 100}, nil
		},
	}
	uc := newTestUseCase(client, cart, now)

	resp, err := uc.Reserve(context.Background(), &ReserveRequest{
		UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{0, 1},
	})
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, int64(100), resp.Created[0].ScheduleID)

	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "09:00", resp.Failed[0].Start)
	assert.Equal(t, reasonOccupied, resp.Failed[0].Reason)

	assert.True(t, resp.Partial())
	assert.Equal(t, []int64{testUserID}, cart.refreshed, "cart must be reconciled after a partial hold")
}

func TestReserve_BlockedSlot(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	client := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, d time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return optionsResponse(10,
				heldOption("08:00", "09:00", 777),
				freeOption("09:00", "10:00"),
			), nil
		},
	}
	uc := newTestUseCase(client, &fakeCart{}, now)

	_, err := uc.Reserve(context.Background(), &ReserveRequest{
		UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{0},
	})
	assert.ErrorIs(t, err, ErrSlotBlocked)
	assert.Empty(t, client.createCalls)
}

func TestReserve_InvalidInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleClient{}, &fakeCart{}, now)

	cases := []struct {
		name string
		req  *ReserveRequest
	}{
		{"no slots", &ReserveRequest{UserID: testUserID, PlaceID: 1, Date: date}},
		{"duplicate index", &ReserveRequest{UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{1, 1}}},
		{"negative index", &ReserveRequest{UserID: testUserID, PlaceID: 1, Date: date, SlotIndexes: []int{-1}}},
		{"anonymous user", &ReserveRequest{PlaceID: 1, Date: date, SlotIndexes: []int{0}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Reserve(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
