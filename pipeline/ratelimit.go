package pipeline

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/CascadingLabs/yosoi"
	"golang.org/x/time/rate"
)

// DefaultMinDelay is the minimum spacing between requests to one domain.
const DefaultMinDelay = 2 * time.Second

// DefaultBurstThreshold is how many requests a domain may receive in a
// rolling minute before the limiter starts escalating delays.
const DefaultBurstThreshold = 10

var _ yosoi.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests per domain. Each domain gets a token
// bucket enforcing minimum spacing; once a domain exceeds the per-minute
// request threshold, an extra exponentially growing delay with jitter is
// applied on top. Concurrent requests to different domains do not block
// each other.
type DomainLimiter struct {
	mu      sync.Mutex
	domains map[string]*domainState

	minDelay  time.Duration
	threshold int
}

type domainState struct {
	limiter     *rate.Limiter
	windowStart time.Time
	count       int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurstThreshold overrides the per-minute request count at which
// delays start escalating.
func WithBurstThreshold(n int) LimiterOption {
	return func(l *DomainLimiter) { l.threshold = n }
}

// NewDomainLimiter creates a limiter enforcing at least minDelay between
// requests to the same domain.
func NewDomainLimiter(minDelay time.Duration, opts ...LimiterOption) *DomainLimiter {
	l := &DomainLimiter{
		domains:   make(map[string]*domainState),
		minDelay:  minDelay,
		threshold: DefaultBurstThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until a request to the domain is allowed. Returns an error
// only if the context is canceled first.
func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	state, ok := l.domains[domain]
	if !ok {
		state = &domainState{
			limiter:     rate.NewLimiter(rate.Every(l.minDelay), 1),
			windowStart: time.Now(),
		}
		l.domains[domain] = state
	}
	if time.Since(state.windowStart) >= time.Minute {
		state.windowStart = time.Now()
		state.count = 0
	}
	state.count++
	excess := state.count - l.threshold
	l.mu.Unlock()

	if excess > 0 {
		if err := sleepCtx(ctx, escalatedDelay(l.minDelay, excess)); err != nil {
			return err
		}
	}
	return state.limiter.Wait(ctx)
}

// escalatedDelay doubles the base delay per request over the threshold,
// capped at 32x, plus up to 25% jitter.
func escalatedDelay(base time.Duration, excess int) time.Duration {
	if excess > 5 {
		excess = 5
	}
	d := base << excess
	jitter := time.Duration(rand.Float64() * 0.25 * float64(d))
	return d + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
