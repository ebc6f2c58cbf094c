package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

// ErrOfferNotFound is returned for an offer index outside the current results
var ErrOfferNotFound = errors.New("offer not found")

// PipelineState is the lifecycle state of a results view
type PipelineState int

const (
	StateIdle PipelineState = iota
	StateNormalizing
	StateAwaitingEnrichment
	StateReady
)

func (s PipelineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNormalizing:
		return "normalizing"
	case StateAwaitingEnrichment:
		return "awaiting_enrichment"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Snapshot is a consistent render of the pipeline at one point in time
type Snapshot struct {
	Generation uint64
	State      PipelineState
	Sort       entity.SortCriterion
	Offers     []entity.OfferView
	Pending    int
}

// Pipeline turns one search response into a sorted, name-enriched view.
// Loading new offers starts a new generation with its own NameCache; lookups
// started for an older generation no longer affect the view.
type Pipeline struct {
	resolver *AirlineResolver
	logger   logger.Logger
	metrics  *metrics.Metrics

	mu          sync.RWMutex
	state       PipelineState
	generation  uint64
	offers      []entity.OfferView
	cache       *NameCache
	pending     int
	ready       chan struct{}
	subscribers map[int]chan struct{}
	nextSubID   int
}

// NewPipeline creates an idle pipeline
func NewPipeline(resolver *AirlineResolver, logger logger.Logger, metrics *metrics.Metrics) *Pipeline {
	return &Pipeline{
		resolver:    resolver,
		logger:      logger,
		metrics:     metrics,
		state:       StateIdle,
		cache:       NewNameCache(),
		ready:       make(chan struct{}),
		subscribers: make(map[int]chan struct{}),
	}
}

// Load normalizes offers and starts airline name resolution in the background.
// The view is renderable as soon as Load returns; names fill in as lookups complete.
// Lookups outlive ctx cancellation so a finished request does not abort them.
func (p *Pipeline) Load(ctx context.Context, offers []entity.FlightOffer) uint64 {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.state = StateNormalizing
	p.offers = nil
	p.cache = NewNameCache()
	p.pending = 0
	// release waiters of the superseded generation
	p.closeReady()
	p.ready = make(chan struct{})
	p.mu.Unlock()
	p.broadcast()

	start := time.Now()
	views := NormalizeOffers(offers)
	var codes []string
	for _, offer := range offers {
		codes = append(codes, offer.CarrierCodes()...)
	}
	p.metrics.NormalizeDuration.Observe(time.Since(start).Seconds())

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return gen
	}
	cache := p.cache
	missing := cache.Missing(codes)
	p.offers = views
	p.pending = len(missing)
	if p.pending == 0 {
		p.state = StateReady
		p.closeReady()
	} else {
		p.state = StateAwaitingEnrichment
	}
	p.mu.Unlock()
	p.broadcast()

	p.logger.Info("Offers normalized", "generation", gen, "offers", len(views), "carriers", len(missing))

	p.resolver.ResolveAsync(context.WithoutCancel(ctx), cache, missing, func(code, name string) {
		p.applyResolution(gen, code, name)
	})

	return gen
}

func (p *Pipeline) applyResolution(gen uint64, code, name string) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.logger.Debug("Discarding stale airline resolution", "generation", gen, "code", code)
		return
	}
	p.pending--
	if p.pending <= 0 && p.state == StateAwaitingEnrichment {
		p.pending = 0
		p.state = StateReady
		p.closeReady()
	}
	p.mu.Unlock()

	p.logger.Debug("Airline resolved", "generation", gen, "code", code, "name", name)
	p.broadcast()
}

// State returns the current lifecycle state
func (p *Pipeline) State() PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Generation returns the current generation token
func (p *Pipeline) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Names returns the resolved names of the current generation
func (p *Pipeline) Names() map[string]string {
	p.mu.RLock()
	cache := p.cache
	p.mu.RUnlock()
	return cache.Snapshot()
}

// View returns the offers in criterion order with the names resolved so far
func (p *Pipeline) View(criterion entity.SortCriterion) []entity.OfferView {
	return p.Snapshot(criterion).Offers
}

// Snapshot returns the current state and view together
func (p *Pipeline) Snapshot(criterion entity.SortCriterion) Snapshot {
	p.mu.RLock()
	snap := Snapshot{
		Generation: p.generation,
		State:      p.state,
		Sort:       criterion,
		Pending:    p.pending,
	}
	offers := p.offers
	cache := p.cache
	p.mu.RUnlock()

	sorted := SortOffers(offers, criterion)
	for i := range sorted {
		sorted[i] = withNames(sorted[i], cache)
	}
	snap.Offers = sorted
	return snap
}

// Offer returns the details view of the offer at its load position
func (p *Pipeline) Offer(index int) (entity.OfferView, error) {
	p.mu.RLock()
	offers := p.offers
	cache := p.cache
	p.mu.RUnlock()

	if index < 0 || index >= len(offers) {
		return entity.OfferView{}, ErrOfferNotFound
	}
	return withNames(offers[index], cache), nil
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce; call cancel to stop receiving.
func (p *Pipeline) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch
	p.mu.Unlock()

	return ch, func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

// WaitReady blocks until every name of the current generation is resolved or ctx is done.
// A Load while waiting moves the wait to the new generation.
func (p *Pipeline) WaitReady(ctx context.Context) error {
	for {
		p.mu.RLock()
		gen := p.generation
		ready := p.ready
		p.mu.RUnlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}

		if p.Generation() == gen {
			return nil
		}
	}
}

// closeReady must be called with mu held
func (p *Pipeline) closeReady() {
	select {
	case <-p.ready:
	default:
		close(p.ready)
	}
}

func (p *Pipeline) broadcast() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ch := range p.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// withNames copies the offer's rows and fills carrier names from cache
func withNames(offer entity.OfferView, cache *NameCache) entity.OfferView {
	itineraries := make([]entity.ItineraryView, len(offer.Itineraries))
	for i, itin := range offer.Itineraries {
		segments := make([]entity.SegmentRow, len(itin.Segments))
		for j, row := range itin.Segments {
			if row.CarrierCode != "" {
				row.CarrierName = cache.Display(row.CarrierCode)
			}
			if row.Codeshare {
				row.OperatingCarrierName = cache.Display(row.OperatingCarrierCode)
			}
			segments[j] = row
		}
		itin.Segments = segments
		itineraries[i] = itin
	}
	offer.Itineraries = itineraries
	return offer
}
