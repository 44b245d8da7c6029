package schedule

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"furever/models"
)

// fakeAvailabilityRepo is an in-memory AvailabilityRepository with
// switches for failure injection and save blocking.
type fakeAvailabilityRepo struct {
	mu        sync.Mutex
	days      map[string]models.DayAvailability // keyed by date
	fetchErr  error
	saveErr   error
	deleteErr error
	failDates map[string]error // per-date batch failures

	// when set, SaveDay blocks until release is closed or ctx is done.
	blockSave chan struct{}

	fetchCalls int
	saveCalls  int
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{days: make(map[string]models.DayAvailability)}
}

func (f *fakeAvailabilityRepo) GetByDateRange(ctx context.Context, providerID, from, to string) ([]models.DayAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []models.DayAvailability
	for date, day := range f.days {
		if date >= from && date <= to {
			out = append(out, day)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) GetByMonth(ctx context.Context, providerID string, year, month int) ([]models.DayAvailability, error) {
	from, to := monthBounds(year, month)
	return f.GetByDateRange(ctx, providerID, from, to)
}

func (f *fakeAvailabilityRepo) GetByYear(ctx context.Context, providerID string, year int) ([]models.DayAvailability, error) {
	from, to := yearBounds(year)
	return f.GetByDateRange(ctx, providerID, from, to)
}

func (f *fakeAvailabilityRepo) SaveDay(ctx context.Context, day models.DayAvailability) error {
	f.mu.Lock()
	block := f.blockSave
	f.saveCalls++
	f.mu.Unlock()

	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.days[day.Date] = day
	return nil
}

func (f *fakeAvailabilityRepo) SaveBatch(ctx context.Context, days []models.DayAvailability) (models.BatchResult, error) {
	result := models.BatchResult{Attempted: len(days)}
	if f.saveErr != nil {
		return result, f.saveErr
	}
	for _, day := range days {
		if err, bad := f.failDates[day.Date]; bad {
			result.Failed = append(result.Failed, models.BatchError{Date: day.Date, Error: err.Error()})
			continue
		}
		f.mu.Lock()
		f.days[day.Date] = day
		f.mu.Unlock()
		result.Succeeded++
	}
	return result, nil
}

func (f *fakeAvailabilityRepo) DeleteSlot(ctx context.Context, providerID, date, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	day, ok := f.days[date]
	if !ok {
		return fmt.Errorf("no record for %s", date)
	}
	kept := make([]models.TimeSlot, 0, len(day.TimeSlots))
	for _, slot := range day.TimeSlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	day.TimeSlots = kept
	f.days[date] = day
	return nil
}

func (f *fakeAvailabilityRepo) stored(date string) (models.DayAvailability, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day, ok := f.days[date]
	return day, ok
}

// fakeBookingRepo serves a fixed booking list.
type fakeBookingRepo struct {
	bookings []models.BookingRecord
	err      error
}

func (f *fakeBookingRepo) GetByProvider(ctx context.Context, providerID string) ([]models.BookingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

func (f *fakeBookingRepo) GetByProviderAndDateRange(ctx context.Context, providerID, from, to string) ([]models.BookingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.BookingRecord
	for _, b := range f.bookings {
		if b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakePackageRepo serves a fixed package list.
type fakePackageRepo struct {
	packages []models.ServicePackage
	err      error
}

func (f *fakePackageRepo) GetByProvider(ctx context.Context, providerID string) ([]models.ServicePackage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.packages, nil
}

// fakeDurableCache is an in-memory DurableCache.
type fakeDurableCache struct {
	mu        sync.Mutex
	snapshots map[string][]models.DayAvailability
	storeErr  error
}

func newFakeDurableCache() *fakeDurableCache {
	return &fakeDurableCache{snapshots: make(map[string][]models.DayAvailability)}
}

func (f *fakeDurableCache) Load(ctx context.Context, providerID string) ([]models.DayAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[providerID], nil
}

func (f *fakeDurableCache) Store(ctx context.Context, providerID string, days []models.DayAvailability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return f.storeErr
	}
	f.snapshots[providerID] = days
	return nil
}

func (f *fakeDurableCache) Clear(ctx context.Context, providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, providerID)
	return nil
}

const testProvider = "prov-1"

func newTestEngine(avail *fakeAvailabilityRepo, bookings *fakeBookingRepo, packages *fakePackageRepo, cache DurableCache) *Controller {
	logger := zap.NewNop()
	if bookings == nil {
		bookings = &fakeBookingRepo{}
	}
	if packages == nil {
		packages = &fakePackageRepo{}
	}
	store := NewStore(testProvider, cache, logger)
	return NewController(testProvider, store, avail, bookings, packages, logger, 0, 0)
}
