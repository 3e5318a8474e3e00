package store

import (
	"context"

	"github.com/quakewatch/quakewatch/internal/domain"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetEvent retrieves an event by its public ID; returns domain.ErrRecordNotFound when absent
	GetEvent(ctx context.Context, publicID string) (*domain.Event, error)
	// GetOrigin retrieves an origin by its public ID; returns domain.ErrRecordNotFound when absent
	GetOrigin(ctx context.Context, publicID string) (*domain.Origin, error)
	// GetMagnitude retrieves a magnitude by its public ID; returns domain.ErrRecordNotFound when absent
	GetMagnitude(ctx context.Context, publicID string) (*domain.Magnitude, error)
	// GetFocalMechanism retrieves a focal mechanism by its public ID; returns domain.ErrRecordNotFound when absent
	GetFocalMechanism(ctx context.Context, publicID string) (*domain.FocalMechanism, error)

	// UpsertEvent inserts the event or replaces the row with the same public ID
	UpsertEvent(ctx context.Context, event *domain.Event) error
	// UpsertOrigin inserts the origin or replaces the row with the same public ID
	UpsertOrigin(ctx context.Context, origin *domain.Origin) error
	// UpsertMagnitude inserts the magnitude or replaces the row with the same public ID
	UpsertMagnitude(ctx context.Context, magnitude *domain.Magnitude) error
	// UpsertFocalMechanism inserts the focal mechanism or replaces the row with the same public ID
	UpsertFocalMechanism(ctx context.Context, fm *domain.FocalMechanism) error
}
