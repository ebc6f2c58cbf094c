package usecase

import (
	"context"
	"time"

	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const maxConcurrentLookups = 8

// AirlineResolver resolves carrier codes to display names into a NameCache
type AirlineResolver struct {
	lookup  repository.AirlineLookup
	logger  logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	group   singleflight.Group
}

// NewAirlineResolver creates a resolver. timeout bounds each lookup; zero means no bound.
func NewAirlineResolver(lookup repository.AirlineLookup, logger logger.Logger, metrics *metrics.Metrics, timeout time.Duration) *AirlineResolver {
	return &AirlineResolver{
		lookup:  lookup,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// Resolve looks up every code missing from cache and waits for all of them.
// It returns the display name of each requested code. Codes still pending when
// ctx ends are returned as themselves and left out of cache.
func (r *AirlineResolver) Resolve(ctx context.Context, cache *NameCache, codes []string) map[string]string {
	r.resolveCodes(ctx, cache, cache.Missing(codes), nil)

	names := make(map[string]string, len(codes))
	for _, code := range codes {
		if code != "" {
			names[code] = cache.Display(code)
		}
	}
	return names
}

// ResolveAsync looks up codes in the background and returns immediately.
// notify runs once per code after its cache entry is written, on the lookup goroutine.
func (r *AirlineResolver) ResolveAsync(ctx context.Context, cache *NameCache, codes []string, notify func(code, name string)) {
	if len(codes) == 0 {
		return
	}
	go r.resolveCodes(ctx, cache, codes, notify)
}

func (r *AirlineResolver) resolveCodes(ctx context.Context, cache *NameCache, codes []string, notify func(code, name string)) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)

	for _, code := range codes {
		g.Go(func() error {
			name, ok := r.lookupName(ctx, code)
			if !ok {
				return nil
			}
			cache.Set(code, name)
			if notify != nil {
				notify(code, name)
			}
			return nil
		})
	}
	g.Wait()
}

// lookupName never fails: any lookup error or empty answer yields the code itself.
// The shared lookup is detached from every caller's ctx; a caller whose ctx ends
// first gets ok=false and leaves the lookup running for the others.
func (r *AirlineResolver) lookupName(ctx context.Context, code string) (string, bool) {
	ch := r.group.DoChan(code, func() (interface{}, error) {
		lookupCtx := context.WithoutCancel(ctx)
		if r.timeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(lookupCtx, r.timeout)
			defer cancel()
		}

		airlines, err := r.lookup.LookupAirline(lookupCtx, code)
		if err != nil {
			r.logger.Warn("Airline lookup failed, using code", "code", code, "error", err)
			r.metrics.AirlineLookups.WithLabelValues(metrics.OutcomeFailure).Inc()
			return code, nil
		}
		if len(airlines) == 0 || airlines[0].DisplayName() == "" {
			r.logger.Warn("Airline lookup returned no name, using code", "code", code)
			r.metrics.AirlineLookups.WithLabelValues(metrics.OutcomeMiss).Inc()
			return code, nil
		}

		r.metrics.AirlineLookups.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return airlines[0].DisplayName(), nil
	})

	select {
	case res := <-ch:
		return res.Val.(string), true
	case <-ctx.Done():
		r.logger.Debug("Airline lookup abandoned by caller", "code", code, "error", ctx.Err())
		return code, false
	}
}
