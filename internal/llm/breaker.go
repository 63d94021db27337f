package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerGenerator wraps a Generator in a circuit breaker so repeated cloud
// failures trip fast instead of hammering the API while it is down.
type BreakerGenerator struct {
	inner   Generator
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps gen in a circuit breaker that opens after five
// consecutive failures and probes again after thirty seconds.
func NewBreakerGenerator(gen Generator) *BreakerGenerator {
	settings := gobreaker.Settings{
		Name:    gen.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerGenerator{
		inner:   gen,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// GenerateCard delegates through the breaker.
func (b *BreakerGenerator) GenerateCard(ctx context.Context, text string) (Card, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.GenerateCard(ctx, text)
	})
	if err != nil {
		return Card{}, err
	}
	return result.(Card), nil
}

// Name returns the wrapped generator name
func (b *BreakerGenerator) Name() string {
	return b.inner.Name()
}
