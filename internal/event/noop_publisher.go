package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops every event. It stands in when RabbitMQ is disabled.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishLoanCreated(ctx context.Context, event LoanEvent) error {
	return p.drop(ctx, RoutingKeyLoanCreated)
}

func (p *NoopPublisher) PublishLoanApproved(ctx context.Context, event LoanEvent) error {
	return p.drop(ctx, RoutingKeyLoanApproved)
}

func (p *NoopPublisher) PublishLoanRejected(ctx context.Context, event LoanEvent) error {
	return p.drop(ctx, RoutingKeyLoanRejected)
}

func (p *NoopPublisher) PublishLoanDeleted(ctx context.Context, event LoanEvent) error {
	return p.drop(ctx, RoutingKeyLoanDeleted)
}

func (p *NoopPublisher) PublishRepaymentRecorded(ctx context.Context, event RepaymentRecordedEvent) error {
	return p.drop(ctx, RoutingKeyRepaymentRecorded)
}

func (p *NoopPublisher) drop(ctx context.Context, routingKey string) error {
	p.logger.DebugContext(ctx, "Event publishing disabled, dropping event", "routingKey", routingKey)
	return nil
}

var _ EventPublisher = (*NoopPublisher)(nil)
