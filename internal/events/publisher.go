// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saulo-duarte/studyquiz/internal/config"
)

type Publisher interface {
	PublishQuizGenerated(ctx context.Context, e *QuizEvent) error
	PublishQuizFailed(ctx context.Context, e *QuizEvent) error
	PublishAttemptSubmitted(ctx context.Context, e *AttemptEvent) error
	Close() error
}

type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
}

// NewEventPublisher returns a disabled publisher when uri is empty.
func NewEventPublisher(uri, exchange string) (*EventPublisher, error) {
	if uri == "" {
		config.Logger.Warn("RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) publish(ctx context.Context, routingKey EventType, event any) error {
	log := config.WithContext(ctx).WithField("event", routingKey)
	if !p.enabled {
		log.Debug("Event publishing disabled, skipping")
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(pubCtx, p.exchange, string(routingKey), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug("Published event")
	return nil
}

func (p *EventPublisher) PublishQuizGenerated(ctx context.Context, e *QuizEvent) error {
	return p.publish(ctx, EventTypeQuizGenerated, e)
}

func (p *EventPublisher) PublishQuizFailed(ctx context.Context, e *QuizEvent) error {
	return p.publish(ctx, EventTypeQuizFailed, e)
}

func (p *EventPublisher) PublishAttemptSubmitted(ctx context.Context, e *AttemptEvent) error {
	return p.publish(ctx, EventTypeAttemptSubmitted, e)
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			config.Logger.WithError(err).Warn("Error closing RabbitMQ channel")
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
