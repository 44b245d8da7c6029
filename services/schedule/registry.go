// File: services/schedule/registry.go
package schedule

import (
	"sync"
	"time"

	"go.uber.org/zap"

	availabilityRepo "furever/database/repository/availability"
	bookingRepo "furever/database/repository/booking"
	servicepkgRepo "furever/database/repository/servicepkg"
)

// Registry owns one scheduling engine per active provider session.
// Switching providers goes through Release + Engine, so calendars are
// fully reset rather than merged, and no scheduling state lives in
// package globals.
type Registry struct {
	availability availabilityRepo.AvailabilityRepository
	bookings     bookingRepo.BookingRepository
	packages     servicepkgRepo.ServicePackageRepository
	cache        DurableCache
	logger       *zap.Logger
	fetchTimeout time.Duration
	refreshEvery time.Duration

	mu      sync.Mutex
	engines map[string]*Controller
}

// NewRegistry builds the engine registry.
func NewRegistry(
	availability availabilityRepo.AvailabilityRepository,
	bookings bookingRepo.BookingRepository,
	packages servicepkgRepo.ServicePackageRepository,
	cache DurableCache,
	logger *zap.Logger,
	fetchTimeout, refreshEvery time.Duration,
) *Registry {
	return &Registry{
		availability: availability,
		bookings:     bookings,
		packages:     packages,
		cache:        cache,
		logger:       logger,
		fetchTimeout: fetchTimeout,
		refreshEvery: refreshEvery,
		engines:      make(map[string]*Controller),
	}
}

// Engine returns the controller for a provider, constructing it on
// first use. A fresh engine seeds its store from the durable cache and
// starts its background refresh loop.
func (r *Registry) Engine(providerID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if engine, ok := r.engines[providerID]; ok {
		return engine
	}

	store := NewStore(providerID, r.cache, r.logger)
	engine := NewController(providerID, store, r.availability, r.bookings, r.packages,
		r.logger, r.fetchTimeout, r.refreshEvery)
	engine.StartBackgroundRefresh()
	r.engines[providerID] = engine
	r.logger.Info("registry: engine created", zap.String("providerId", providerID))
	return engine
}

// Release tears down a provider's engine (stops its refresh loop and
// cancels in-flight saves). The durable cache snapshot survives so the
// next session seeds from it.
func (r *Registry) Release(providerID string) {
	r.mu.Lock()
	engine, ok := r.engines[providerID]
	if ok {
		delete(r.engines, providerID)
	}
	r.mu.Unlock()

	if ok {
		engine.Stop()
		r.logger.Info("registry: engine released", zap.String("providerId", providerID))
	}
}

// Shutdown stops every engine; used on graceful server shutdown.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	engines := r.engines
	r.engines = make(map[string]*Controller)
	r.mu.Unlock()

	for _, engine := range engines {
		engine.Stop()
	}
}
