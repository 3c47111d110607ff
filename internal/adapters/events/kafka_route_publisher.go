package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "route.events"

// messageWriter is the subset of *kafkago.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaRoutePublisher emits route.optimized CloudEvents keyed by route id.
type KafkaRoutePublisher struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

func NewKafkaRoutePublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaRoutePublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaRoutePublisher(w, logger), nil
}

func newKafkaRoutePublisher(w messageWriter, logger *zap.Logger) *KafkaRoutePublisher {
	if logger == nil {
		logger = zap.L()
	}
	return &KafkaRoutePublisher{writer: w, logger: logger, now: time.Now}
}

func (p *KafkaRoutePublisher) PublishRouteOptimized(ctx context.Context, route *domain.OptimizedRoute) (err error) {
	defer obs.Time(ctx, "events.PublishRouteOptimized")(&err)

	if route == nil {
		return errors.New("publish route optimized: route is nil")
	}

	evt, err := NewCloudEvent(RouteOptimizedType, summarize(route), p.now())
	if err != nil {
		return fmt.Errorf("publish route optimized: %w", err)
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish route optimized: marshal envelope: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(route.ID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "ce_type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish route optimized %s: %w", route.ID, err)
	}

	p.logger.Debug("route event published",
		zap.String("route_id", route.ID),
		zap.String("event_id", evt.ID),
	)
	return nil
}

func (p *KafkaRoutePublisher) Close() error {
	return p.writer.Close()
}

func summarize(route *domain.OptimizedRoute) RouteOptimizedEvent {
	ids := make([]string, len(route.Points))
	for i, pt := range route.Points {
		ids[i] = pt.ID
	}

	evt := RouteOptimizedEvent{
		RouteID:              route.ID,
		Name:                 route.Name,
		StopIDs:              ids,
		TotalDistanceKm:      route.TotalDistanceKm,
		TotalDurationMinutes: route.TotalDurationMinutes,
		EstimatedFuelCost:    route.EstimatedFuelCost,
		VehiclePlate:         route.VehiclePlate,
	}
	if route.StartTime != nil {
		evt.StartTime = route.StartTime.String()
	}
	if route.EndTime != nil {
		evt.EndTime = route.EndTime.String()
	}
	return evt
}
