package watch_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/tracker"
	"github.com/quakewatch/quakewatch/internal/types"
	"github.com/quakewatch/quakewatch/internal/watch"
)

var originTime = time.Date(2024, 3, 1, 11, 50, 0, 0, time.UTC)

func newTracker(out *bytes.Buffer) tracker.Tracker {
	tr := tracker.New(tracker.Config{CleanupIntervalEvents: 1000}, nil, adapter.NewClock(), nil)
	tr.RegisterHook(watch.New(out, tr.Records()))
	return tr
}

func assertGolden(t *testing.T, name string, actual []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, actual)
}

func TestWatcher_PrintsEachChange(t *testing.T) {
	var out bytes.Buffer
	tr := newTracker(&out)
	ctx := context.Background()

	tr.OnAdd(ctx, "EventParameters", &domain.Origin{
		ID: "O1", Time: originTime, Latitude: 61.2, Longitude: -150.1, Depth: types.Float64Ptr(35),
	})
	tr.OnAdd(ctx, "EventParameters", &domain.Magnitude{ID: "M1", Value: 6.1, Type: "Mw"})
	tr.OnAdd(ctx, "EventParameters", &domain.Origin{
		ID: "O-centroid", Time: originTime.Add(2500 * time.Millisecond), Latitude: 61.25, Longitude: -150.05, Depth: types.Float64Ptr(40),
	})
	tr.OnAdd(ctx, "EventParameters", &domain.Magnitude{ID: "Mw1", Value: 6.3, Type: "Mw"})
	tr.OnAdd(ctx, "EventParameters", &domain.FocalMechanism{
		ID:           "F1",
		AzimuthalGap: types.Float64Ptr(45),
		MomentTensors: []domain.MomentTensor{{
			ID:                "MT1",
			CLVD:              types.Float64Ptr(12.5),
			ISO:               types.Float64Ptr(1.25),
			Misfit:            types.Float64Ptr(0.123),
			MomentMagnitudeID: "Mw1",
			DerivedOriginID:   "O-centroid",
			StationContributions: []domain.StationContribution{
				{StationID: "AK.ST1", Weight: 1.5, ComponentWeights: []float64{0.5, 0.25}},
				{StationID: "AK.ST2", Weight: 0.5, ComponentWeights: []float64{1}},
			},
		}},
	})

	tr.OnAdd(ctx, "EventParameters", &domain.Event{ID: "E1"})
	tr.OnUpdate(ctx, "EventParameters", &domain.Event{ID: "E1", PreferredOriginID: "O1"})
	tr.OnUpdate(ctx, "EventParameters", &domain.Event{ID: "E1", PreferredOriginID: "O1", PreferredMagnitudeID: "M1"})
	tr.OnUpdate(ctx, "EventParameters", &domain.Event{
		ID: "E1", PreferredOriginID: "O1", PreferredMagnitudeID: "M1", PreferredFocalMechanismID: "F1",
	})

	assertGolden(t, "event_changes", out.Bytes())
}

func TestWatcher_SimultaneousChangesAndMissingDerivedOrigin(t *testing.T) {
	var out bytes.Buffer
	tr := newTracker(&out)
	ctx := context.Background()

	tr.OnAdd(ctx, "EventParameters", &domain.Origin{ID: "O2", Time: originTime, Latitude: -33.5, Longitude: -71.75})
	tr.OnAdd(ctx, "EventParameters", &domain.Magnitude{ID: "M2", Value: 5.04, Type: "ML"})
	tr.OnAdd(ctx, "EventParameters", &domain.FocalMechanism{
		ID:            "F2",
		MomentTensors: []domain.MomentTensor{{ID: "MT2", DerivedOriginID: "O-gone"}},
	})

	tr.OnAdd(ctx, "EventParameters", &domain.Event{ID: "E2"})
	tr.OnUpdate(ctx, "EventParameters", &domain.Event{
		ID: "E2", PreferredOriginID: "O2", PreferredMagnitudeID: "M2", PreferredFocalMechanismID: "F2",
	})

	assertGolden(t, "simultaneous_changes", out.Bytes())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestWatcher_WriteErrorIsNotFatal(t *testing.T) {
	tr := tracker.New(tracker.DefaultConfig(), nil, adapter.NewClock(), nil)
	tr.RegisterHook(watch.New(failingWriter{}, tr.Records()))

	ctx := context.Background()
	tr.OnAdd(ctx, "EventParameters", &domain.Origin{ID: "O1", Time: originTime})
	tr.OnAdd(ctx, "EventParameters", &domain.Event{ID: "E1"})

	assert.NotPanics(t, func() {
		tr.OnUpdate(ctx, "EventParameters", &domain.Event{ID: "E1", PreferredOriginID: "O1"})
	})
	assert.Len(t, tr.Snapshot().Events, 1)
}
