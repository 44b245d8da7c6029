// File: services/schedule/preset.go
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"furever/models"
)

// DayPredicate selects which weekdays a recurring preset applies to.
type DayPredicate func(time.Weekday) bool

// Weekdays matches Monday through Friday.
func Weekdays(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

// Weekends matches Saturday and Sunday.
func Weekends(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// PredicateFor maps the wire pattern names to predicates.
func PredicateFor(pattern string) (DayPredicate, error) {
	switch pattern {
	case "weekdays":
		return Weekdays, nil
	case "weekends":
		return Weekends, nil
	default:
		return nil, fmt.Errorf("unknown preset pattern %q", pattern)
	}
}

// TimeWindow is the single daily window a preset applies.
type TimeWindow struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// GenerateRecurring walks every calendar date of the target year and
// emits one single-slot day record per date matching the predicate.
// Dates strictly before today (by now's local calendar day) are never
// included, even when the predicate matches. Presets are declarative
// "set the day to this": any pre-existing slots on a matching date are
// replaced, not merged.
func GenerateRecurring(providerID string, year int, predicate DayPredicate, window TimeWindow, services []string, now time.Time) []models.DayAvailability {
	today := DateOf(now)
	var out []models.DayAvailability

	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if !predicate(d.Weekday()) {
			continue
		}
		date := FormatDate(d.Year(), d.Month(), d.Day())
		if date < today {
			continue
		}
		out = append(out, models.DayAvailability{
			ProviderID:  providerID,
			Date:        date,
			IsAvailable: true,
			TimeSlots: []models.TimeSlot{{
				ID:                uuid.New().String(),
				Start:             window.Start,
				End:               window.End,
				AvailableServices: services,
			}},
		})
	}
	return out
}

// ApplyPreset validates the window, generates the recurring records,
// applies them optimistically as one batch, and submits them in a
// single batch call. Partial failure comes back as one consolidated
// KindPartialBatch summary, never one notification per date.
func (c *Controller) ApplyPreset(ctx context.Context, req models.PresetRequest) (models.BatchResult, error) {
	start, err := parseClock(req.Start)
	if err != nil {
		return models.BatchResult{}, invalidRangeErr(req.Start, req.End)
	}
	end, err := parseClock(req.End)
	if err != nil || end <= start {
		return models.BatchResult{}, invalidRangeErr(req.Start, req.End)
	}
	predicate, err := PredicateFor(req.Pattern)
	if err != nil {
		return models.BatchResult{}, &Error{Kind: KindServerRejected, Message: err.Error()}
	}

	days := GenerateRecurring(c.providerID, req.Year, predicate, TimeWindow{Start: req.Start, End: req.End}, req.Services, c.now())
	if len(days) == 0 {
		return models.BatchResult{}, nil
	}

	return c.submitBatch(ctx, days)
}

// ClearAll is the degenerate batch case: every currently known day is
// set to empty and unavailable, locally and remotely.
func (c *Controller) ClearAll(ctx context.Context) (models.BatchResult, error) {
	known := c.store.Snapshot()
	if len(known) == 0 {
		return models.BatchResult{}, nil
	}

	cleared := make([]models.DayAvailability, len(known))
	for i, day := range known {
		cleared[i] = models.DayAvailability{
			ProviderID:  c.providerID,
			Date:        day.Date,
			IsAvailable: false,
			TimeSlots:   []models.TimeSlot{},
		}
	}
	return c.submitBatch(ctx, cleared)
}

// submitBatch applies the records optimistically under one lock, then
// persists them as one batch call. Remote failure keeps the optimistic
// state; the next refresh reconciles.
func (c *Controller) submitBatch(ctx context.Context, days []models.DayAvailability) (models.BatchResult, error) {
	c.store.UpsertBatch(days)

	bctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	result, err := c.availability.SaveBatch(bctx, days)
	if err != nil {
		return result, c.classify(err, bctx, "batch save failed")
	}
	if !result.AllSucceeded() {
		c.logger.Warn("sync: batch save partially failed",
			zap.Int("attempted", result.Attempted),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", len(result.Failed)))
		return result, partialBatchErr(result)
	}
	return result, nil
}
