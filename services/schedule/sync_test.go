package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityRepo "furever/database/repository/availability"
	"furever/models"
)

func TestAddSlot_OptimisticThenConfirmed(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, &fakePackageRepo{packages: onePackage()}, nil)

	day, warning, err := engine.AddSlot(context.Background(), "2025-05-01", models.AddSlotRequest{
		Start: "09:00", End: "10:00", Services: []string{"pkg-1"},
	})
	require.NoError(t, err)
	assert.False(t, warning)
	require.Len(t, day.TimeSlots, 1)
	assert.True(t, day.IsAvailable)

	// Local and remote agree.
	stored, ok := repo.stored("2025-05-01")
	require.True(t, ok)
	assert.Equal(t, day.TimeSlots[0].ID, stored.TimeSlots[0].ID)
}

func TestAddSlot_RejectsBeforeAnyIO(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, &fakePackageRepo{packages: onePackage()}, nil)

	_, _, err := engine.AddSlot(context.Background(), "2025-05-01", models.AddSlotRequest{
		Start: "10:00", End: "09:00", Services: []string{"pkg-1"},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidRange, KindOf(err))
	assert.Equal(t, 0, repo.saveCalls, "validation failures must not reach the store")
	assert.Equal(t, 0, engine.Store().Len())
}

func TestAddSlot_NetworkFailureKeepsOptimisticState(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.saveErr = errors.New("connection reset")
	engine := newTestEngine(repo, nil, &fakePackageRepo{packages: onePackage()}, nil)

	day, _, err := engine.AddSlot(context.Background(), "2025-05-01", models.AddSlotRequest{
		Start: "09:00", End: "10:00", Services: []string{"pkg-1"},
	})
	require.Error(t, err)
	assert.Equal(t, KindNetworkFailure, KindOf(err))

	// The user's intent survives the failed save.
	require.Len(t, day.TimeSlots, 1)
	local, ok := engine.Store().Get("2025-05-01")
	require.True(t, ok)
	assert.Len(t, local.TimeSlots, 1)
}

func TestSaveDay_ServerRejectedClassification(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.saveErr = availabilityRepo.ErrInvalidRecord
	engine := newTestEngine(repo, nil, &fakePackageRepo{packages: onePackage()}, nil)

	_, _, err := engine.AddSlot(context.Background(), "2025-05-01", models.AddSlotRequest{
		Start: "09:00", End: "10:00", Services: []string{"pkg-1"},
	})
	require.Error(t, err)
	assert.Equal(t, KindServerRejected, KindOf(err))
}

func TestSetDay_SupersededSaveIsSwallowed(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, nil, nil)

	release := make(chan struct{})
	repo.mu.Lock()
	repo.blockSave = release
	repo.mu.Unlock()

	firstDone := make(chan error, 1)
	go func() {
		_, err := engine.SetDay(context.Background(), "2025-05-01", models.SetDayRequest{
			IsAvailable: true,
			TimeSlots:   []models.TimeSlot{slot("09:00", "10:00")},
		})
		firstDone <- err
	}()

	// Wait until the first save is parked inside the repository.
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.saveCalls == 1
	}, time.Second, 5*time.Millisecond)

	// The second save must not block on the first's gate.
	repo.mu.Lock()
	repo.blockSave = nil
	repo.mu.Unlock()

	// Issuing a newer save supersedes the parked one.
	_, err := engine.SetDay(context.Background(), "2025-05-01", models.SetDayRequest{
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{slot("14:00", "15:00")},
	})
	require.NoError(t, err)

	// The superseded save resolves as aborted and is swallowed.
	select {
	case ferr := <-firstDone:
		assert.NoError(t, ferr, "aborted save must never surface as an error")
	case <-time.After(2 * time.Second):
		t.Fatal("superseded save never resolved")
	}
	close(release)

	// Final state equals the newer save's outcome, local and remote.
	local, _ := engine.Store().Get("2025-05-01")
	require.Len(t, local.TimeSlots, 1)
	assert.Equal(t, "14:00", local.TimeSlots[0].Start)

	stored, ok := repo.stored("2025-05-01")
	require.True(t, ok)
	require.Len(t, stored.TimeSlots, 1)
	assert.Equal(t, "14:00", stored.TimeSlots[0].Start)
}

func TestSaveDay_Idempotent(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, nil, nil)

	req := models.SetDayRequest{
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{slot("09:00", "10:00")},
	}
	first, err := engine.SetDay(context.Background(), "2025-05-01", req)
	require.NoError(t, err)
	second, err := engine.SetDay(context.Background(), "2025-05-01", req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	stored, _ := repo.stored("2025-05-01")
	assert.Equal(t, second, stored)
}

func TestDeleteSlot_RemoteFirst(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, nil, nil)

	day, err := engine.SetDay(context.Background(), "2025-05-01", models.SetDayRequest{
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{slot("09:00", "10:00"), slot("11:00", "12:00")},
	})
	require.NoError(t, err)

	require.NoError(t, engine.DeleteSlot(context.Background(), "2025-05-01", day.TimeSlots[0].ID))

	local, _ := engine.Store().Get("2025-05-01")
	require.Len(t, local.TimeSlots, 1)
	assert.Equal(t, "11:00", local.TimeSlots[0].Start)

	stored, _ := repo.stored("2025-05-01")
	assert.Len(t, stored.TimeSlots, 1)
}

func TestDeleteSlot_FailureTriggersResync(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	engine := newTestEngine(repo, nil, nil, nil)

	day, err := engine.SetDay(context.Background(), "2025-05-01", models.SetDayRequest{
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{slot("09:00", "10:00")},
	})
	require.NoError(t, err)

	repo.mu.Lock()
	repo.deleteErr = errors.New("slot is booked")
	fetchesBefore := repo.fetchCalls
	repo.mu.Unlock()

	err = engine.DeleteSlot(context.Background(), "2025-05-01", day.TimeSlots[0].ID)
	require.Error(t, err)

	// The local slot was not removed by guesswork.
	local, _ := engine.Store().Get("2025-05-01")
	assert.Len(t, local.TimeSlots, 1)

	// A silent re-fetch resynchronized against the store of record.
	repo.mu.Lock()
	fetchesAfter := repo.fetchCalls
	repo.mu.Unlock()
	assert.Greater(t, fetchesAfter, fetchesBefore)
}

func TestFetchRange_ReconcilesBookings(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.days["2025-03-10"] = models.DayAvailability{
		ProviderID: testProvider, Date: "2025-03-10", IsAvailable: true,
		TimeSlots: []models.TimeSlot{slot("09:00", "10:00", "pkg-1")},
	}
	bookings := &fakeBookingRepo{bookings: []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00:00", Status: models.BookingStatusConfirmed},
	}}
	engine := newTestEngine(repo, bookings, nil, nil)

	require.NoError(t, engine.FetchMonth(context.Background(), 2025, 3, false))

	day, ok := engine.Store().Get("2025-03-10")
	require.True(t, ok)
	assert.True(t, day.TimeSlots[0].IsBooked)
	assert.True(t, day.HasBookings)
}

func TestFetchRange_BookingFailureFailsOpen(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.days["2025-03-10"] = models.DayAvailability{
		ProviderID: testProvider, Date: "2025-03-10", IsAvailable: true,
		TimeSlots: []models.TimeSlot{slot("09:00", "10:00", "pkg-1")},
	}
	bookings := &fakeBookingRepo{err: errors.New("bookings service down")}
	engine := newTestEngine(repo, bookings, nil, nil)

	// Availability is still shown, just un-annotated.
	require.NoError(t, engine.FetchMonth(context.Background(), 2025, 3, false))

	day, ok := engine.Store().Get("2025-03-10")
	require.True(t, ok)
	assert.False(t, day.TimeSlots[0].IsBooked)
	assert.False(t, day.HasBookings)
}

func TestFetchRange_NetworkFailureFallsBackToCache(t *testing.T) {
	cache := newFakeDurableCache()
	cache.snapshots[testProvider] = []models.DayAvailability{
		{Date: "2025-03-10", TimeSlots: []models.TimeSlot{slot("09:00", "10:00")}},
	}
	repo := newFakeAvailabilityRepo()
	repo.fetchErr = errors.New("no route to host")
	engine := newTestEngine(repo, nil, nil, cache)

	err := engine.FetchMonth(context.Background(), 2025, 3, false)
	require.Error(t, err)
	assert.Equal(t, KindNetworkFailure, KindOf(err))

	// Cached state survives and is flagged as such.
	assert.True(t, engine.Store().ServingCached())
	_, ok := engine.Store().Get("2025-03-10")
	assert.True(t, ok)
}

func TestFetchRange_TimeoutClassifiedLikeNetworkFailure(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.fetchErr = context.DeadlineExceeded
	engine := newTestEngine(repo, nil, nil, nil)

	err := engine.FetchMonth(context.Background(), 2025, 3, false)
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.True(t, engine.Store().ServingCached())
}
