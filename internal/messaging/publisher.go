package messaging

import (
	"context"
)

// Publisher defines the interface for publishing notifier messages
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// Publish publishes a raw notifier message on the given subject
	Publish(ctx context.Context, subject string, data []byte) error
	// Close closes the connection
	Close()
}
