package checker

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// minRateFloor is the minimum rate in requests per second.
	minRateFloor = 1.0

	// maxRateCeiling is the maximum rate in requests per second.
	maxRateCeiling = 100.0

	// emaAlpha is the smoothing factor for the RTT moving average.
	// 0.2 gives ~20% weight to a new observation.
	emaAlpha = 0.2

	// recoveryFactor is the rate increase per fast response.
	recoveryFactor = 1.1

	// backoffFactor caps how far the rate can drop in a single step.
	backoffFactor = 0.5

	// minRateStep is the smallest rate change applied to the limiter.
	minRateStep = 0.05

	// defaultTargetRTT is the response time the adaptive limiter aims for.
	defaultTargetRTT = 500 * time.Millisecond
)

// AdaptiveLimiter rate limits requests across all verification jobs and can
// adjust its rate to observed response times using an exponential moving
// average, so a single slow response does not crash the rate.
type AdaptiveLimiter struct {
	limiter   *rate.Limiter
	targetRTT time.Duration
	mu        sync.RWMutex

	emaRTT      time.Duration
	currentRate float64
	disabled    bool
}

// NewLimiter builds the limiter for cfg. It returns nil when rate limiting
// is off. A fixed limiter is returned unless cfg.AdaptiveRate is set.
func NewLimiter(cfg Config) *AdaptiveLimiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	l := NewAdaptiveLimiter(cfg.RateLimit, defaultTargetRTT)
	if !cfg.AdaptiveRate {
		l.SetRate(cfg.RateLimit)
	}
	return l
}

// NewAdaptiveLimiter creates an adaptive rate limiter with the given initial rate
// and target RTT.
func NewAdaptiveLimiter(initialRPS int, targetRTT time.Duration) *AdaptiveLimiter {
	clampedRPS := clampRateFloat(float64(initialRPS))

	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(rate.Limit(clampedRPS), int(math.Ceil(clampedRPS))),
		targetRTT:   targetRTT,
		currentRate: clampedRPS,
		emaRTT:      targetRTT,
	}
}

// Wait blocks until the next request is allowed or the context is cancelled.
// It is safe to call from multiple goroutines.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// ObserveRTT records a response time and adjusts the rate accordingly.
func (a *AdaptiveLimiter) ObserveRTT(rtt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disabled {
		return
	}

	newEMA := time.Duration(emaAlpha*float64(rtt) + (1-emaAlpha)*float64(a.emaRTT))
	a.emaRTT = newEMA
	if newEMA <= 0 {
		return
	}

	// ratio < 1 means the server is slower than the target.
	ratio := float64(a.targetRTT) / float64(newEMA)

	var newRate float64
	if ratio < 1 {
		newRate = max(a.currentRate*ratio, a.currentRate*backoffFactor)
	} else {
		newRate = a.currentRate * recoveryFactor
	}
	newRate = clampRateFloat(newRate)

	if math.Abs(newRate-a.currentRate) > minRateStep {
		a.currentRate = newRate
		a.limiter.SetLimit(rate.Limit(newRate))
		a.limiter.SetBurst(int(math.Ceil(newRate)))
	}
}

// SetRate fixes the rate and disables adaptation.
// The rate is clamped to the [minRateFloor, maxRateCeiling] range.
func (a *AdaptiveLimiter) SetRate(rps int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clamped := clampRateFloat(float64(rps))
	a.currentRate = clamped
	a.disabled = true
	a.limiter.SetLimit(rate.Limit(clamped))
	a.limiter.SetBurst(int(math.Ceil(clamped)))
}

// CurrentRate returns the current rate limit in requests per second.
func (a *AdaptiveLimiter) CurrentRate() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return int(math.Round(a.currentRate))
}

// CurrentEMA returns the moving average of observed RTT values.
func (a *AdaptiveLimiter) CurrentEMA() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.emaRTT
}

func clampRateFloat(rps float64) float64 {
	if rps < minRateFloor {
		return minRateFloor
	}
	if rps > maxRateCeiling {
		return maxRateCeiling
	}
	return rps
}
