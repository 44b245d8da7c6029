// File: services/schedule/store.go
package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"furever/models"
)

// Store is the provider-scoped in-memory availability map, keyed by
// canonical date. It is the single shared mutable resource of the
// engine: mutations are last-writer-wins at per-date granularity, batch
// mutations apply under one lock so readers observe either the pre- or
// fully post-batch state. Every successful mutation is mirrored to the
// durable cache, and a cold store seeds itself from that cache before
// any remote fetch resolves.
type Store struct {
	providerID string
	cache      DurableCache
	logger     *zap.Logger

	mu            sync.RWMutex
	days          map[string]models.DayAvailability
	servingCached bool
}

// NewStore builds a store for one provider session and seeds it from
// the durable cache so the calendar is never empty-by-default.
func NewStore(providerID string, cache DurableCache, logger *zap.Logger) *Store {
	s := &Store{
		providerID: providerID,
		cache:      cache,
		logger:     logger,
		days:       make(map[string]models.DayAvailability),
	}
	if cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		seed, err := cache.Load(ctx, providerID)
		if err != nil {
			logger.Warn("store: cache seed failed", zap.String("providerId", providerID), zap.Error(err))
		}
		for _, day := range seed {
			s.days[day.Date] = normalizeDay(providerID, day)
		}
		if len(seed) > 0 {
			s.servingCached = true
		}
	}
	return s
}

// normalizeDay enforces the write-time invariants: slots sorted
// ascending by start, a day with slots is always available, slices
// never nil, provider stamped. The slot slice is copied so the store
// never shares a backing array with the caller.
func normalizeDay(providerID string, day models.DayAvailability) models.DayAvailability {
	day.ProviderID = providerID
	day.TimeSlots = append([]models.TimeSlot{}, day.TimeSlots...)
	sort.SliceStable(day.TimeSlots, func(i, j int) bool {
		a, errA := parseClock(day.TimeSlots[i].Start)
		b, errB := parseClock(day.TimeSlots[j].Start)
		if errA != nil || errB != nil {
			return day.TimeSlots[i].Start < day.TimeSlots[j].Start
		}
		return a < b
	})
	if len(day.TimeSlots) > 0 {
		day.IsAvailable = true
	}
	return day
}

// Upsert replaces the record for day.Date wholesale. Callers supply the
// complete resulting record; there is no field-level merge.
func (s *Store) Upsert(day models.DayAvailability) models.DayAvailability {
	s.mu.Lock()
	normalized := normalizeDay(s.providerID, day)
	s.days[normalized.Date] = normalized
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.mirror(snapshot)

	normalized.TimeSlots = append([]models.TimeSlot{}, normalized.TimeSlots...)
	return normalized
}

// UpsertBatch applies many upserts under one lock.
func (s *Store) UpsertBatch(days []models.DayAvailability) {
	s.mu.Lock()
	for _, day := range days {
		normalized := normalizeDay(s.providerID, day)
		s.days[normalized.Date] = normalized
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.mirror(snapshot)
}

// MergeFetched folds remotely fetched records into the store. Silent
// fetches merge by date key with the fetched record winning; loud
// fetches first drop every cached day inside [from, to] so removed days
// disappear. Days outside the fetched range always remain cached.
func (s *Store) MergeFetched(days []models.DayAvailability, loud bool, from, to string) {
	s.mu.Lock()
	if loud {
		for date := range s.days {
			if date >= from && date <= to {
				delete(s.days, date)
			}
		}
	}
	for _, day := range days {
		normalized := normalizeDay(s.providerID, day)
		s.days[normalized.Date] = normalized
	}
	s.servingCached = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.mirror(snapshot)
}

// Clear empties the map entirely and drops the durable snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	s.days = make(map[string]models.DayAvailability)
	s.mu.Unlock()

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Clear(ctx, s.providerID); err != nil {
			s.logger.Warn("store: cache clear failed", zap.Error(err))
		}
	}
}

// RemoveSlot drops one slot from a day, keeping the day record itself.
func (s *Store) RemoveSlot(date, slotID string) {
	s.mu.Lock()
	day, ok := s.days[date]
	if !ok {
		s.mu.Unlock()
		return
	}
	kept := make([]models.TimeSlot, 0, len(day.TimeSlots))
	for _, slot := range day.TimeSlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	day.TimeSlots = kept
	s.days[date] = day
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.mirror(snapshot)
}

// Get returns a copy of the record for a date, if known. The slot
// slice is detached so callers can mutate it freely.
func (s *Store) Get(date string) (models.DayAvailability, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, ok := s.days[date]
	if ok {
		day.TimeSlots = append([]models.TimeSlot{}, day.TimeSlots...)
	}
	return day, ok
}

// Snapshot returns all records ordered by date.
func (s *Store) Snapshot() []models.DayAvailability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DayAvailability, 0, len(s.days))
	for _, day := range s.days {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Range returns records with dates inside [from, to], ordered by date.
func (s *Store) Range(from, to string) []models.DayAvailability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DayAvailability
	for date, day := range s.days {
		if date >= from && date <= to {
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Len reports how many days the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days)
}

// ServingCached reports whether the store is currently serving the
// durable-cache fallback rather than fresh remote data.
func (s *Store) ServingCached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.servingCached
}

func (s *Store) setServingCached(v bool) {
	s.mu.Lock()
	s.servingCached = v
	s.mu.Unlock()
}

// snapshotLocked copies the current day set. Caller holds s.mu.
func (s *Store) snapshotLocked() []models.DayAvailability {
	if s.cache == nil {
		return nil
	}
	snapshot := make([]models.DayAvailability, 0, len(s.days))
	for _, day := range s.days {
		snapshot = append(snapshot, day)
	}
	return snapshot
}

// mirror writes a snapshot to the durable cache. It runs outside the
// store lock so a slow cache never blocks readers.
func (s *Store) mirror(snapshot []models.DayAvailability) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Store(ctx, s.providerID, snapshot); err != nil {
		s.logger.Warn("store: cache mirror failed", zap.String("providerId", s.providerID), zap.Error(err))
	}
}
