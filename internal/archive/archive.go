package archive

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/store"
)

// Archiver writes every notified record to the source database so the loader can find it later
type Archiver struct {
	store store.Store
}

// New creates an archiver
func New(st store.Store) *Archiver {
	return &Archiver{store: st}
}

// Handle upserts the notified record; untracked kinds are skipped
func (a *Archiver) Handle(ctx context.Context, n domain.Notification) error {
	var err error
	switch r := n.Record.(type) {
	case nil:
		return nil
	case *domain.Event:
		err = a.store.UpsertEvent(ctx, r)
	case *domain.Origin:
		err = a.store.UpsertOrigin(ctx, r)
	case *domain.Magnitude:
		err = a.store.UpsertMagnitude(ctx, r)
	case *domain.FocalMechanism:
		err = a.store.UpsertFocalMechanism(ctx, r)
	}
	if err != nil {
		return fmt.Errorf("failed to archive %s %s: %w", n.Kind, n.Record.PublicID(), err)
	}

	logger.DebugCtx(ctx, "Archived record", zap.String("kind", string(n.Kind)), zap.String("id", n.Record.PublicID()))
	return nil
}
