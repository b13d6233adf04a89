// Package messaging delivers domain events to RabbitMQ.
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/domain/event"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
	"github.com/xiebiao/fabric-inventory/pkg/circuitbreaker"
	"github.com/xiebiao/fabric-inventory/pkg/metrics"
	"github.com/xiebiao/fabric-inventory/pkg/mq"
)

const breakerName = "rabbitmq"

// messagePublisher is the part of mq.Publisher the adapter needs.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher sends every event to the exchange under its routing key.
// Publishing goes through a circuit breaker: while the broker keeps failing,
// events fail fast with circuitbreaker.ErrOpenState instead of waiting on it.
type EventPublisher struct {
	pub     messagePublisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

func newEventPublisher(pub messagePublisher, mqCfg config.MQConfig, log *zap.Logger) *EventPublisher {
	metrics.InitMetrics()
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breakerName}, float64(circuitbreaker.StateClosed))

	breaker := circuitbreaker.New(breakerName, circuitbreaker.Config{
		Timeout: mqCfg.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			threshold := mqCfg.BreakerFailures
			if threshold == 0 {
				threshold = circuitbreaker.DefaultFailureThreshold
			}
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})

	return &EventPublisher{pub: pub, breaker: breaker, timeout: mqCfg.PublishTimeout}
}

// Publish implements event.Publisher.
func (p *EventPublisher) Publish(ctx context.Context, e event.Event) error {
	return p.breaker.Execute(func() error {
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return p.pub.Publish(ctx, e.RoutingKey(), e)
	})
}

// NopPublisher drops events. Used when mq.enabled is false.
type NopPublisher struct {
	log *zap.Logger
}

// Publish implements event.Publisher.
func (p NopPublisher) Publish(_ context.Context, e event.Event) error {
	if p.log != nil {
		p.log.Debug("event dropped, mq disabled", zap.String("routing_key", e.RoutingKey()))
	}
	return nil
}

// NewEventPublisher returns a RabbitMQ backed publisher, or a NopPublisher
// when messaging is disabled. The cleanup closes the connection.
func NewEventPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return NopPublisher{log: log}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("close message publisher", zap.Error(err))
		}
	}
	return newEventPublisher(pub, cfg.MQ, log), cleanup, nil
}
