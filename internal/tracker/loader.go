package tracker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/store"
)

// Loader fetches records the tracker has not seen from the source database
type Loader interface {
	// Load returns the record, or nil when the source does not have it or cannot be reached.
	// Loaded origins, magnitudes and focal mechanisms are put into the record store and the
	// owned slot is returned.
	Load(ctx context.Context, kind domain.Kind, id string) domain.Record
}

type loader struct {
	source  store.Store
	records *RecordStore
	metrics *Metrics
}

// NewLoader creates a loader backed by the given source
func NewLoader(source store.Store, records *RecordStore, metrics *Metrics) Loader {
	return &loader{
		source:  source,
		records: records,
		metrics: metrics,
	}
}

func (l *loader) Load(ctx context.Context, kind domain.Kind, id string) domain.Record {
	if id == "" || l.source == nil {
		return nil
	}

	record, err := l.fetch(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.DebugCtx(ctx, "Record not found in source", zap.String("kind", string(kind)), zap.String("id", id))
			l.metrics.loadFailed(kind, "not_found")
		} else {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to load record"), zap.String("kind", string(kind)), zap.String("id", id))
			l.metrics.loadFailed(kind, "error")
		}
		return nil
	}

	logger.DebugCtx(ctx, "Loaded record from source", zap.String("kind", string(kind)), zap.String("id", id))
	return l.records.Put(record)
}

func (l *loader) fetch(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	switch kind {
	case domain.KindEvent:
		evt, err := l.source.GetEvent(ctx, id)
		if err != nil || evt == nil {
			return nil, notFound(err)
		}
		return evt, nil
	case domain.KindOrigin:
		org, err := l.source.GetOrigin(ctx, id)
		if err != nil || org == nil {
			return nil, notFound(err)
		}
		return org, nil
	case domain.KindMagnitude:
		mag, err := l.source.GetMagnitude(ctx, id)
		if err != nil || mag == nil {
			return nil, notFound(err)
		}
		return mag, nil
	case domain.KindFocalMechanism:
		fm, err := l.source.GetFocalMechanism(ctx, id)
		if err != nil || fm == nil {
			return nil, notFound(err)
		}
		return fm, nil
	default:
		return nil, domain.ErrUnknownKind
	}
}

// notFound keeps a nil record without error from escaping as a non-nil interface
func notFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrRecordNotFound
}
