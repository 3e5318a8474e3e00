package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
)

// Sink consumes decoded notifications. Returning an error asks for redelivery.
type Sink interface {
	Handle(ctx context.Context, n domain.Notification) error
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(ctx context.Context, n domain.Notification) error

func (f SinkFunc) Handle(ctx context.Context, n domain.Notification) error {
	return f(ctx, n)
}

// Bridge defines the interface for the notification bridge
type Bridge interface {
	// Run starts forwarding notifications until ctx is canceled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	subscriber messaging.Subscriber
	codec      *messaging.Codec
	sink       Sink
}

// NewBridge creates a bridge decoding the subscriber's messages into notifications for sink
func NewBridge(subscriber messaging.Subscriber, codec *messaging.Codec, sink Sink) Bridge {
	return &bridge{
		subscriber: subscriber,
		codec:      codec,
		sink:       sink,
	}
}

func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting notification bridge")
	return b.subscriber.Run(ctx, b.handleMessage)
}

// handleMessage decodes a single message and forwards it.
// Decoding errors wrap domain.ErrMalformedNotification so the message is dropped.
func (b *bridge) handleMessage(ctx context.Context, subject string, data []byte) error {
	n, err := b.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode message on %s: %w", subject, err)
	}

	if n.Record == nil {
		logger.DebugCtx(ctx, "Untracked notification", zap.String("subject", subject), zap.String("kind", string(n.Kind)))
	} else {
		logger.DebugCtx(ctx, "Received notification",
			zap.String("subject", subject),
			zap.String("operation", string(n.Operation)),
			zap.String("kind", string(n.Kind)),
			zap.String("id", n.Record.PublicID()),
		)
	}

	if err := b.sink.Handle(ctx, n); err != nil {
		return fmt.Errorf("failed to handle %s %s: %w", n.Operation, n.Kind, err)
	}
	return nil
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	b.subscriber.Close()
}
