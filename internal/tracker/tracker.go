package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/store"
)

// Config holds the configuration for the tracker
type Config struct {
	// CleanupIntervalEvents is the number of change detection runs between two sweeps
	CleanupIntervalEvents int
	// RetentionShort is the age after which unreferenced records are evicted
	RetentionShort time.Duration
	// RetentionLong is the origin age after which whole events are evicted
	RetentionLong time.Duration
}

// DefaultConfig returns the default tracker configuration
func DefaultConfig() Config {
	return Config{
		CleanupIntervalEvents: 5,
		RetentionShort:        time.Hour,
		RetentionLong:         2 * time.Hour,
	}
}

// Tracker keeps the preferred origin, magnitude and focal mechanism of every
// recent event and dispatches a hook call on every change of them
type Tracker interface {
	// Handle applies a notification; notifications without a tracked record are ignored
	Handle(ctx context.Context, n domain.Notification)
	// OnAdd applies an add notification
	OnAdd(ctx context.Context, parentID string, record domain.Record)
	// OnUpdate applies an update notification
	OnUpdate(ctx context.Context, parentID string, record domain.Record)
	// RegisterHook adds a hook; hooks are called in registration order
	RegisterHook(hook ChangeHook)
	// Records returns the record store. Only hooks may read it while notifications are being handled.
	Records() RecordReader
	// Snapshot returns a consistent copy of the tracked events
	Snapshot() Snapshot
}

type tracker struct {
	mu      sync.Mutex
	config  Config
	clock   adapter.Clock
	records *RecordStore
	loader  Loader
	states  map[string]*EventState
	hooks   []ChangeHook
	sweeper sweeper
	metrics *Metrics
}

// New creates a tracker that loads missing records from source
func New(cfg Config, source store.Store, clock adapter.Clock, metrics *Metrics) Tracker {
	defaults := DefaultConfig()
	if cfg.CleanupIntervalEvents <= 0 {
		cfg.CleanupIntervalEvents = defaults.CleanupIntervalEvents
	}
	if cfg.RetentionShort <= 0 {
		cfg.RetentionShort = defaults.RetentionShort
	}
	if cfg.RetentionLong <= 0 {
		cfg.RetentionLong = defaults.RetentionLong
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	records := NewRecordStore()
	return &tracker{
		config:  cfg,
		clock:   clock,
		records: records,
		loader:  NewLoader(source, records, metrics),
		states:  make(map[string]*EventState),
		sweeper: sweeper{interval: cfg.CleanupIntervalEvents},
		metrics: metrics,
	}
}

func (t *tracker) RegisterHook(hook ChangeHook) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hooks = append(t.hooks, hook)
}

func (t *tracker) Records() RecordReader {
	return t.records
}

func (t *tracker) Handle(ctx context.Context, n domain.Notification) {
	kind := n.Kind
	if !kind.IsTracked() {
		kind = "other"
	}
	t.metrics.Notifications.WithLabelValues(string(kind), string(n.Operation)).Inc()

	if n.Record == nil {
		return
	}

	switch n.Operation {
	case domain.OperationAdd:
		t.OnAdd(ctx, n.ParentID, n.Record)
	case domain.OperationUpdate:
		t.OnUpdate(ctx, n.ParentID, n.Record)
	default:
		logger.WarnCtx(ctx, "Ignoring notification with unsupported operation",
			zap.String("operation", string(n.Operation)),
			zap.String("kind", string(n.Kind)),
		)
	}
}

func (t *tracker) OnAdd(ctx context.Context, parentID string, record domain.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe()

	logger.DebugCtx(ctx, "Add notification",
		zap.String("kind", string(record.Kind())),
		zap.String("id", record.PublicID()),
		zap.String("parentID", parentID),
	)

	switch r := record.(type) {
	case *domain.Event:
		if _, ok := t.states[r.ID]; ok {
			t.metrics.DuplicateAdds.Inc()
			logger.ErrorCtx(ctx, fmt.Errorf("duplicate add of event %s", r.ID), zap.String("parentID", parentID))
			return
		}
		st := t.newState(ctx, r)
		t.detectChanges(ctx, st)
		t.tick(ctx)
	case *domain.Origin, *domain.Magnitude, *domain.FocalMechanism:
		if _, ok := t.records.Get(r.Kind(), r.PublicID()); !ok {
			t.records.Put(r)
		}
	}
}

func (t *tracker) OnUpdate(ctx context.Context, parentID string, record domain.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe()

	logger.DebugCtx(ctx, "Update notification",
		zap.String("kind", string(record.Kind())),
		zap.String("id", record.PublicID()),
		zap.String("parentID", parentID),
	)

	switch r := record.(type) {
	case *domain.Event:
		st, ok := t.states[r.ID]
		if ok {
			st.event.Assign(r)
		} else {
			// missed the add: the notification is newer than the source, which only fills gaps
			if loaded, ok := t.loader.Load(ctx, domain.KindEvent, r.ID).(*domain.Event); ok {
				fillEventGaps(r, loaded)
			}
			st = t.newState(ctx, r)
		}
		t.detectChanges(ctx, st)
		t.tick(ctx)
	case *domain.Origin, *domain.Magnitude, *domain.FocalMechanism:
		if _, ok := t.records.Get(r.Kind(), r.PublicID()); ok {
			t.records.Put(r)
			return
		}
		if t.loader.Load(ctx, r.Kind(), r.PublicID()) == nil {
			t.records.Put(r)
		}
	}
}

// fillEventGaps copies descriptive fields the notified event lacks from the stored
// one. Preferred identifiers always come from the notification.
func fillEventGaps(notified, stored *domain.Event) {
	if notified.Type == nil {
		notified.Type = stored.Type
	}
	if notified.Description == nil {
		notified.Description = stored.Description
	}
	if notified.CreationTime.IsZero() {
		notified.CreationTime = stored.CreationTime
	}
}

// newState creates the state of a first seen event and resolves its preferred
// solutions without dispatching hooks
func (t *tracker) newState(ctx context.Context, evt *domain.Event) *EventState {
	st := &EventState{
		event:                    evt,
		previousOriginID:         evt.PreferredOriginID,
		previousMagnitudeID:      evt.PreferredMagnitudeID,
		previousFocalMechanismID: evt.PreferredFocalMechanismID,
	}
	st.origin, _ = t.resolve(ctx, evt.ID, domain.KindOrigin, evt.PreferredOriginID).(*domain.Origin)
	st.magnitude, _ = t.resolve(ctx, evt.ID, domain.KindMagnitude, evt.PreferredMagnitudeID).(*domain.Magnitude)
	st.focalMechanism, _ = t.resolve(ctx, evt.ID, domain.KindFocalMechanism, evt.PreferredFocalMechanismID).(*domain.FocalMechanism)

	t.states[evt.ID] = st
	logger.InfoCtx(ctx, "Tracking event", zap.String("eventID", evt.ID))
	return st
}

// detectChanges compares the preferred identifiers of the event with the last
// dispatched ones and calls the hooks for each change, origin first
func (t *tracker) detectChanges(ctx context.Context, st *EventState) {
	evt := st.event

	if id := evt.PreferredOriginID; id != "" && id != st.previousOriginID {
		previous := st.previousOriginID
		st.origin, _ = t.resolve(ctx, evt.ID, domain.KindOrigin, id).(*domain.Origin)
		t.dispatch(ctx, st, domain.KindOrigin, previous, id, ChangeHook.ChangedOrigin)
		st.previousOriginID = id
	} else if st.origin == nil {
		st.origin, _ = t.cached(domain.KindOrigin, id).(*domain.Origin)
	}

	if id := evt.PreferredMagnitudeID; id != "" && id != st.previousMagnitudeID {
		previous := st.previousMagnitudeID
		st.magnitude, _ = t.resolve(ctx, evt.ID, domain.KindMagnitude, id).(*domain.Magnitude)
		t.dispatch(ctx, st, domain.KindMagnitude, previous, id, ChangeHook.ChangedMagnitude)
		st.previousMagnitudeID = id
	} else if st.magnitude == nil {
		st.magnitude, _ = t.cached(domain.KindMagnitude, id).(*domain.Magnitude)
	}

	if id := evt.PreferredFocalMechanismID; id != "" && id != st.previousFocalMechanismID {
		previous := st.previousFocalMechanismID
		st.focalMechanism, _ = t.resolve(ctx, evt.ID, domain.KindFocalMechanism, id).(*domain.FocalMechanism)
		t.dispatch(ctx, st, domain.KindFocalMechanism, previous, id, ChangeHook.ChangedFocalMechanism)
		st.previousFocalMechanismID = id
	} else if st.focalMechanism == nil {
		st.focalMechanism, _ = t.cached(domain.KindFocalMechanism, id).(*domain.FocalMechanism)
	}
}

// resolve returns the cached record or loads it; nil when it cannot be found
func (t *tracker) resolve(ctx context.Context, eventID string, kind domain.Kind, id string) domain.Record {
	if id == "" {
		return nil
	}
	if r, ok := t.records.Get(kind, id); ok {
		return r
	}

	r := t.loader.Load(ctx, kind, id)
	if r == nil {
		logger.WarnCtx(ctx, "Preferred record unresolvable",
			zap.String("eventID", eventID),
			zap.String("kind", string(kind)),
			zap.String("id", id),
		)
	}
	return r
}

// cached looks up a record without loading it
func (t *tracker) cached(kind domain.Kind, id string) domain.Record {
	if id == "" {
		return nil
	}
	r, _ := t.records.Get(kind, id)
	return r
}

func (t *tracker) dispatch(
	ctx context.Context,
	st *EventState,
	kind domain.Kind,
	previousID, currentID string,
	call func(ChangeHook, *EventState, string, string),
) {
	logger.InfoCtx(ctx, "Preferred solution changed",
		zap.String("eventID", st.EventID()),
		zap.String("kind", string(kind)),
		zap.String("from", previousID),
		zap.String("to", currentID),
	)
	t.metrics.Hooks.WithLabelValues(string(kind)).Inc()

	for _, hook := range t.hooks {
		t.callHook(ctx, hook, st, kind, previousID, currentID, call)
	}
}

// callHook keeps a panicking hook from taking down the notification loop
func (t *tracker) callHook(
	ctx context.Context,
	hook ChangeHook,
	st *EventState,
	kind domain.Kind,
	previousID, currentID string,
	call func(ChangeHook, *EventState, string, string),
) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("hook panicked: %v", r),
				zap.String("eventID", st.EventID()),
				zap.String("kind", string(kind)),
			)
		}
	}()

	call(hook, st, previousID, currentID)
}

func (t *tracker) tick(ctx context.Context) {
	if t.sweeper.tick() {
		t.sweep(ctx)
	}
}

func (t *tracker) observe() {
	t.metrics.observeSizes(t.records, len(t.states))
}

func (t *tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		Time:    t.clock.Now(),
		Events:  make([]EventSummary, 0, len(t.states)),
		Records: make(map[domain.Kind]int, len(cachedKinds)),
	}
	for _, st := range t.states {
		snap.Events = append(snap.Events, st.summary())
	}
	sort.Slice(snap.Events, func(i, j int) bool {
		return snap.Events[i].EventID < snap.Events[j].EventID
	})
	for _, kind := range cachedKinds {
		snap.Records[kind] = t.records.Count(kind)
	}

	return snap
}
