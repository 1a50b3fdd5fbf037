package backend

import (
	"errors"

	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const serviceName = "pos-terminal"

// Breaker wraps gobreaker with metrics
type Breaker struct {
	*gobreaker.CircuitBreaker
	name string
}

// NewBreaker creates a circuit breaker that trips once the failure ratio
// over the window reaches cfg.FailureRatio with at least cfg.MinRequests calls.
func NewBreaker(name string, cfg config.BreakerConfig) *Breaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: func(err error) bool {
			// a 4xx the backend explained is not an outage
			var rejected *RejectedError
			return err == nil || (errors.As(err, &rejected) && rejected.Status < 500)
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(serviceName, cbName).Set(stateValue(to))

			log.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(serviceName, name).Set(0)

	return &Breaker{CircuitBreaker: cb, name: name}
}

// Execute runs fn through the breaker. Breaker rejections come back as
// apperror.ErrBackendUnavailable.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.CircuitBreaker.Execute(fn)
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(serviceName, b.name).Inc()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperror.Wrap(apperror.ErrBackendUnavailable.Code, apperror.ErrBackendUnavailable.Message, err)
	}
	return result, err
}

// GetState returns the current state name
func (b *Breaker) GetState() string {
	return b.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
