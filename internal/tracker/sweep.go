package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
)

// sweeper counts change detection runs and reports when a sweep is due
type sweeper struct {
	interval int
	count    int
}

// tick returns true once every interval calls
func (s *sweeper) tick() bool {
	s.count++
	if s.count < s.interval {
		return false
	}
	s.count = 0
	return true
}

// sweep evicts unreferenced records older than the short retention, then event
// states whose preferred origin is unresolved or older than the long retention.
// Must be called with the tracker locked.
func (t *tracker) sweep(ctx context.Context) {
	now := t.clock.Now()
	logger.DebugCtx(ctx, "Sweeping tracker cache",
		zap.Int("events", len(t.states)),
		zap.Int("origins", t.records.Count(domain.KindOrigin)),
		zap.Int("magnitudes", t.records.Count(domain.KindMagnitude)),
		zap.Int("focalMechanisms", t.records.Count(domain.KindFocalMechanism)),
	)

	// every reference is collected before anything is removed
	referenced := t.referencedIDs()

	shortCutoff := now.Add(-t.config.RetentionShort)
	for _, kind := range cachedKinds {
		for _, id := range t.records.IDs(kind) {
			if _, ok := referenced[kind][id]; ok {
				continue
			}
			record, _ := t.records.Get(kind, id)
			if !record.Created().Before(shortCutoff) {
				continue
			}
			t.records.Remove(kind, id)
			t.metrics.Evictions.WithLabelValues(string(kind)).Inc()
		}
	}

	longCutoff := now.Add(-t.config.RetentionLong)
	for id, st := range t.states {
		if st.origin != nil && !st.origin.Time.Before(longCutoff) {
			continue
		}
		delete(t.states, id)
		t.metrics.Evictions.WithLabelValues(string(domain.KindEvent)).Inc()
		logger.DebugCtx(ctx, "Evicted event state", zap.String("eventID", id))
	}

	t.metrics.Sweeps.Inc()
	logger.DebugCtx(ctx, "Swept tracker cache",
		zap.Int("events", len(t.states)),
		zap.Int("origins", t.records.Count(domain.KindOrigin)),
		zap.Int("magnitudes", t.records.Count(domain.KindMagnitude)),
		zap.Int("focalMechanisms", t.records.Count(domain.KindFocalMechanism)),
	)
}

func (t *tracker) referencedIDs() map[domain.Kind]map[string]struct{} {
	referenced := make(map[domain.Kind]map[string]struct{}, len(cachedKinds))
	for _, kind := range cachedKinds {
		referenced[kind] = make(map[string]struct{})
	}

	mark := func(kind domain.Kind, id string) {
		if id != "" {
			referenced[kind][id] = struct{}{}
		}
	}

	for _, st := range t.states {
		mark(domain.KindOrigin, st.event.PreferredOriginID)
		mark(domain.KindMagnitude, st.event.PreferredMagnitudeID)
		mark(domain.KindFocalMechanism, st.event.PreferredFocalMechanismID)
		if st.origin != nil {
			mark(domain.KindOrigin, st.origin.ID)
		}
		if st.magnitude != nil {
			mark(domain.KindMagnitude, st.magnitude.ID)
		}
		if st.focalMechanism != nil {
			mark(domain.KindFocalMechanism, st.focalMechanism.ID)
		}
	}

	return referenced
}
