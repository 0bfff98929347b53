package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publisherAppID = "loan-backoffice"

// Channeler is the slice of *amqp.Connection the publisher needs.
type Channeler interface {
	Channel() (*amqp.Channel, error)
}

type RabbitMQEventPublisher struct {
	conn         Channeler
	exchangeName string
	logger       *slog.Logger
}

func NewRabbitMQEventPublisher(conn Channeler, exchangeName string, logger *slog.Logger) (EventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQEventPublisher) PublishLoanCreated(ctx context.Context, event LoanEvent) error {
	return p.publish(ctx, RoutingKeyLoanCreated, event)
}

func (p *RabbitMQEventPublisher) PublishLoanApproved(ctx context.Context, event LoanEvent) error {
	return p.publish(ctx, RoutingKeyLoanApproved, event)
}

func (p *RabbitMQEventPublisher) PublishLoanRejected(ctx context.Context, event LoanEvent) error {
	return p.publish(ctx, RoutingKeyLoanRejected, event)
}

func (p *RabbitMQEventPublisher) PublishLoanDeleted(ctx context.Context, event LoanEvent) error {
	return p.publish(ctx, RoutingKeyLoanDeleted, event)
}

func (p *RabbitMQEventPublisher) PublishRepaymentRecorded(ctx context.Context, event RepaymentRecordedEvent) error {
	return p.publish(ctx, RoutingKeyRepaymentRecorded, event)
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(body))

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

var _ EventPublisher = (*RabbitMQEventPublisher)(nil)
