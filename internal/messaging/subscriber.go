package messaging

import (
	"context"
)

// MessageHandler is called once per received notifier message.
// Returning an error wrapping domain.ErrMalformedNotification drops the message for good;
// any other error asks for redelivery.
type MessageHandler func(ctx context.Context, subject string, data []byte) error

// Subscriber defines the interface for consuming the notifier stream.
// Messages are handed to the handler one at a time, in delivery order.
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Run consumes messages until ctx is canceled
	Run(ctx context.Context, handler MessageHandler) error
	// Close closes the connection and cleans up resources
	Close()
}
