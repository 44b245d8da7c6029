// File: services/schedule/sync.go
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	availabilityRepo "furever/database/repository/availability"
	bookingRepo "furever/database/repository/booking"
	servicepkgRepo "furever/database/repository/servicepkg"
	"furever/models"
)

// Controller orchestrates one provider's calendar: silent and loud
// fetches, optimistic saves with per-date supersession, remote-first
// slot deletion, and periodic background refresh. Each edit target (one
// date) moves through Idle -> Saving -> Committed | Aborted | Failed;
// at most one save per date is authoritative at any time.
type Controller struct {
	providerID   string
	store        *Store
	availability availabilityRepo.AvailabilityRepository
	bookings     bookingRepo.BookingRepository
	packages     servicepkgRepo.ServicePackageRepository
	logger       *zap.Logger
	fetchTimeout time.Duration
	refreshEvery time.Duration

	// now is swappable for deterministic preset tests.
	now func() time.Time

	inflightMu sync.Mutex
	inflight   map[string]*saveToken

	viewMu   sync.RWMutex
	viewFrom string
	viewTo   string

	stopOnce sync.Once
	stopCh   chan struct{}
}

// saveToken identifies one in-flight save so a late completion can tell
// whether it was superseded.
type saveToken struct {
	cancel context.CancelFunc
}

// NewController wires a controller around an existing store.
func NewController(
	providerID string,
	store *Store,
	availability availabilityRepo.AvailabilityRepository,
	bookings bookingRepo.BookingRepository,
	packages servicepkgRepo.ServicePackageRepository,
	logger *zap.Logger,
	fetchTimeout, refreshEvery time.Duration,
) *Controller {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	if refreshEvery <= 0 {
		refreshEvery = 5 * time.Minute
	}
	c := &Controller{
		providerID:   providerID,
		store:        store,
		availability: availability,
		bookings:     bookings,
		packages:     packages,
		logger:       logger,
		fetchTimeout: fetchTimeout,
		refreshEvery: refreshEvery,
		now:          time.Now,
		inflight:     make(map[string]*saveToken),
		stopCh:       make(chan struct{}),
	}
	// Default view: the current month.
	nowT := c.now()
	c.viewFrom, c.viewTo = monthBounds(nowT.Year(), int(nowT.Month()))
	return c
}

// Store exposes the controller's availability store.
func (c *Controller) Store() *Store { return c.store }

// classify translates a transport error into the scheduling taxonomy.
// Raw transport errors never cross this boundary.
func (c *Controller) classify(err error, opCtx context.Context, msg string) *Error {
	switch {
	case errors.Is(err, context.Canceled) || (opCtx != nil && opCtx.Err() == context.Canceled):
		return &Error{Kind: KindAborted, Message: msg, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: msg, Err: err}
	case errors.Is(err, availabilityRepo.ErrInvalidRecord) || errors.Is(err, mongo.ErrNoDocuments):
		return &Error{Kind: KindServerRejected, Message: msg, Err: err}
	default:
		return &Error{Kind: KindNetworkFailure, Message: msg, Err: err}
	}
}

// FetchRange pulls availability for [from, to] and reconciles booking
// state into it. Silent fetches merge by date key and never discard
// days outside the range; loud fetches clear-and-replace the range.
// Connectivity failures keep the store serving its cached state and
// surface a recoverable error so callers can show a "using cached data"
// notice.
func (c *Controller) FetchRange(ctx context.Context, from, to string, loud bool) error {
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	days, err := c.availability.GetByDateRange(fctx, c.providerID, from, to)
	if err != nil {
		c.store.setServingCached(true)
		return c.classify(err, fctx, "availability fetch failed")
	}

	// Booking fetch is fail-open: a degraded secondary source must not
	// make the calendar unusable, it just loses its annotations.
	bookings, berr := c.bookings.GetByProviderAndDateRange(fctx, c.providerID, from, to)
	if berr != nil {
		c.logger.Warn("sync: booking fetch failed, showing un-annotated availability",
			zap.String("providerId", c.providerID), zap.Error(berr))
	} else {
		days = Reconcile(days, bookings)
	}

	c.store.MergeFetched(days, loud, from, to)

	c.viewMu.Lock()
	c.viewFrom, c.viewTo = from, to
	c.viewMu.Unlock()
	return nil
}

// FetchMonth scopes a fetch to one calendar month.
func (c *Controller) FetchMonth(ctx context.Context, year, month int, loud bool) error {
	from, to := monthBounds(year, month)
	return c.FetchRange(ctx, from, to, loud)
}

// FetchYear scopes a fetch to a full calendar year.
func (c *Controller) FetchYear(ctx context.Context, year int, loud bool) error {
	from, to := yearBounds(year)
	return c.FetchRange(ctx, from, to, loud)
}

// Refresh silently re-fetches the current view range. This is what the
// background ticker and the asynq worker call; it must not disturb any
// open editing state, which MergeFetched guarantees by merging per date.
func (c *Controller) Refresh(ctx context.Context) error {
	c.viewMu.RLock()
	from, to := c.viewFrom, c.viewTo
	c.viewMu.RUnlock()
	return c.FetchRange(ctx, from, to, false)
}

// AddSlot validates and optimistically inserts one ad-hoc slot, then
// persists the complete day record. The returned warning is true when
// the provider has no service packages configured yet.
func (c *Controller) AddSlot(ctx context.Context, date string, req models.AddSlotRequest) (models.DayAvailability, bool, error) {
	packages, perr := c.packages.GetByProvider(ctx, c.providerID)
	if perr != nil {
		// Fail-open: without package data the service-selection rule
		// degrades to the zero-package warning path.
		c.logger.Warn("sync: package fetch failed during slot validation", zap.Error(perr))
		packages = nil
	}

	day, ok := c.store.Get(date)
	if !ok {
		day = models.DayAvailability{ProviderID: c.providerID, Date: date, IsAvailable: true}
	}

	candidate := models.TimeSlot{
		ID:                uuid.New().String(),
		Start:             req.Start,
		End:               req.End,
		AvailableServices: req.Services,
	}
	warning, err := ValidateNewSlot(&day, candidate, packages)
	if err != nil {
		return models.DayAvailability{}, false, err
	}
	candidate.NotVisible = warning

	slots := make([]models.TimeSlot, 0, len(day.TimeSlots)+1)
	slots = append(slots, day.TimeSlots...)
	day.TimeSlots = append(slots, candidate)
	updated := c.store.Upsert(day) // optimistic: local state first

	return updated, warning, c.saveDay(updated)
}

// SetDay replaces one day record wholesale (availability toggle or a
// full slot-list rewrite) and persists it.
func (c *Controller) SetDay(ctx context.Context, date string, req models.SetDayRequest) (models.DayAvailability, error) {
	for i := range req.TimeSlots {
		start, err := parseClock(req.TimeSlots[i].Start)
		if err != nil {
			return models.DayAvailability{}, invalidRangeErr(req.TimeSlots[i].Start, req.TimeSlots[i].End)
		}
		end, err := parseClock(req.TimeSlots[i].End)
		if err != nil || end <= start {
			return models.DayAvailability{}, invalidRangeErr(req.TimeSlots[i].Start, req.TimeSlots[i].End)
		}
		if req.TimeSlots[i].ID == "" {
			req.TimeSlots[i].ID = uuid.New().String()
		}
	}

	day := models.DayAvailability{
		ProviderID:  c.providerID,
		Date:        date,
		IsAvailable: req.IsAvailable,
		TimeSlots:   req.TimeSlots,
	}
	updated := c.store.Upsert(day)
	return updated, c.saveDay(updated)
}

// saveDay persists one complete day record, superseding any save still
// in flight for the same date. A superseded save resolves as Aborted
// and is swallowed: a newer intent already replaced it, so surfacing it
// would only confuse the caller. Genuine failures are returned but the
// optimistic local state is deliberately kept; a later refresh is the
// mechanism of truth reconciliation.
func (c *Controller) saveDay(day models.DayAvailability) error {
	sctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	token := &saveToken{cancel: cancel}

	c.inflightMu.Lock()
	if prev, ok := c.inflight[day.Date]; ok {
		prev.cancel() // supersede the older save for this date
	}
	c.inflight[day.Date] = token
	c.inflightMu.Unlock()

	err := c.availability.SaveDay(sctx, day)
	superseded := sctx.Err() == context.Canceled

	c.inflightMu.Lock()
	if c.inflight[day.Date] == token {
		delete(c.inflight, day.Date)
	}
	c.inflightMu.Unlock()
	cancel()

	if err == nil {
		return nil
	}
	classified := c.classify(err, nil, "failed to save day "+day.Date)
	if superseded {
		classified.Kind = KindAborted
	}
	if classified.Kind == KindAborted {
		c.logger.Debug("sync: save superseded", zap.String("date", day.Date))
		return nil
	}
	c.logger.Error("sync: save failed, keeping optimistic state",
		zap.String("date", day.Date), zap.Error(err))
	return classified
}

// DeleteSlot removes a slot remote-first: deleting a slot that turned
// out to be booked elsewhere must not silently desync, so the local
// mutation only happens after the store confirms. On failure a full
// silent re-fetch resynchronizes instead of guessing local state.
func (c *Controller) DeleteSlot(ctx context.Context, date, slotID string) error {
	dctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	if err := c.availability.DeleteSlot(dctx, c.providerID, date, slotID); err != nil {
		classified := c.classify(err, dctx, "failed to delete slot "+slotID)
		if rerr := c.Refresh(context.Background()); rerr != nil {
			c.logger.Warn("sync: resync after failed delete also failed", zap.Error(rerr))
		}
		return classified
	}

	c.store.RemoveSlot(date, slotID)
	return nil
}

// Calendar renders per-day summaries for a month (month in 1..12) or a
// whole year (month == 0) from local state.
func (c *Controller) Calendar(year, month int) []models.DaySummary {
	var from, to string
	if month >= 1 && month <= 12 {
		from, to = monthBounds(year, month)
	} else {
		from, to = yearBounds(year)
	}
	days := c.store.Range(from, to)
	out := make([]models.DaySummary, len(days))
	for i, day := range days {
		out[i] = models.DaySummary{
			Date:        day.Date,
			IsAvailable: day.IsAvailable,
			SlotCount:   len(day.TimeSlots),
			HasBookings: day.HasBookings,
		}
	}
	return out
}

// Packages lists the provider's bookable service packages.
func (c *Controller) Packages(ctx context.Context) ([]models.ServicePackage, error) {
	pctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	packages, err := c.packages.GetByProvider(pctx, c.providerID)
	if err != nil {
		return nil, c.classify(err, pctx, "failed to fetch service packages")
	}
	return packages, nil
}

// StartBackgroundRefresh launches the periodic silent re-fetch that
// catches bookings made by other clients.
func (c *Controller) StartBackgroundRefresh() {
	go func() {
		ticker := time.NewTicker(c.refreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopCh:
				return
			case <-ticker.C:
				if err := c.Refresh(context.Background()); err != nil {
					c.logger.Debug("sync: background refresh failed",
						zap.String("providerId", c.providerID), zap.Error(err))
				}
			}
		}
	}()
}

// Stop halts background refresh and cancels any in-flight saves.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.inflightMu.Lock()
		for _, token := range c.inflight {
			token.cancel()
		}
		c.inflight = make(map[string]*saveToken)
		c.inflightMu.Unlock()
	})
}
