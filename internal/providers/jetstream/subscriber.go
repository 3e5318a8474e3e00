package jetstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
)

// DefaultFilterSubject matches every notifier group
const DefaultFilterSubject = messaging.SubjectPrefix + ".>"

type subscriber struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	config Config
}

// NewSubscriber creates a new NATS JetStream subscriber backed by a durable consumer
func NewSubscriber(cfg Config, natsJS adapter.NatsJetStream) (messaging.Subscriber, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	if cfg.FilterSubject == "" {
		cfg.FilterSubject = DefaultFilterSubject
	}

	return &subscriber{
		nc:     nc,
		js:     js,
		config: cfg,
	}, nil
}

// Run consumes messages until the context is cancelled. Messages are handed to
// the handler one at a time in delivery order.
func (s *subscriber) Run(ctx context.Context, handler messaging.MessageHandler) error {
	logger.InfoCtx(ctx, "Starting notifier subscriber",
		zap.String("stream", s.config.StreamName),
		zap.String("consumer", s.config.ConsumerName),
		zap.String("subject", s.config.FilterSubject),
	)

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       s.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.config.AckWaitTimeout,
		MaxDeliver:    s.config.MaxDeliver,
		FilterSubject: s.config.FilterSubject,
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		// once Run has returned nobody drains msgChan; the message is redelivered after AckWait
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down notifier subscriber")
			return ctx.Err()
		case <-sub.Closed():
			return fmt.Errorf("consumer %s closed", s.config.ConsumerName)
		case msg := <-msgChan:
			s.handleMessage(ctx, msg, handler)
		}
	}
}

// handleMessage runs the handler and settles the message: malformed payloads are
// terminated, other failures are redelivered.
func (s *subscriber) handleMessage(ctx context.Context, msg adapter.Message, handler messaging.MessageHandler) {
	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
	}

	err := handler(ctx, msg.Subject(), msg.Data())
	switch {
	case err == nil:
		if err := msg.Ack(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
		}
	case errors.Is(err, domain.ErrMalformedNotification), errors.Is(err, domain.ErrInvalidOperation):
		logger.ErrorCtx(ctx, err, zap.String("message", "Dropping malformed notification"), zap.String("subject", msg.Subject()))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
	default:
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to handle notification"),
			zap.String("subject", msg.Subject()),
			zap.Uint64("deliveryCount", delivered),
		)
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
	}
}

// Close drains the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	if err := s.nc.Drain(); err != nil {
		logger.Error(err, zap.String("message", "Failed to drain NATS connection"))
		s.nc.Close()
	}
}
