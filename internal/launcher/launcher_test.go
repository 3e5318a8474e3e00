package launcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/launcher"
	mockspkg "github.com/quakewatch/quakewatch/internal/mocks"
	"github.com/quakewatch/quakewatch/internal/tracker"
	"github.com/quakewatch/quakewatch/internal/types"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testLauncherMocks contains the launcher, the tracker feeding it and their mocks
type testLauncherMocks struct {
	ctrl      *gomock.Controller
	commander *mockspkg.MockCommander
	clock     *mockspkg.MockClock
	tracker   tracker.Tracker
	launcher  launcher.Launcher
}

func setupTestLauncher(t *testing.T, cfg launcher.Config) *testLauncherMocks {
	ctrl := gomock.NewController(t)

	tm := &testLauncherMocks{
		ctrl:      ctrl,
		commander: mockspkg.NewMockCommander(ctrl),
		clock:     mockspkg.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(testNow).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	l, err := launcher.New(context.Background(), cfg, tm.commander, tm.clock)
	require.NoError(t, err)
	tm.launcher = l

	tm.tracker = tracker.New(tracker.Config{CleanupIntervalEvents: 1000}, nil, tm.clock, nil)
	tm.tracker.RegisterHook(l)

	ctx := context.Background()
	for _, o := range []*domain.Origin{
		{ID: "O-shallow", Time: testNow, Depth: types.Float64Ptr(10)},
		{ID: "O-deep", Time: testNow, Depth: types.Float64Ptr(600)},
		{ID: "O-nodepth", Time: testNow},
	} {
		tm.tracker.OnAdd(ctx, "EventParameters", o)
	}
	for _, m := range []*domain.Magnitude{
		{ID: "M-big", Value: 6.5, Type: "Mw"},
		{ID: "M-bigger", Value: 7.1, Type: "Mw"},
		{ID: "M-small", Value: 3.2, Type: "ML"},
	} {
		tm.tracker.OnAdd(ctx, "EventParameters", m)
	}

	return tm
}

func tearDownTestLauncher(mocks *testLauncherMocks) {
	mocks.launcher.Close()
	mocks.ctrl.Finish()
}

func defaultConfig(command string) launcher.Config {
	return launcher.Config{
		Command:      command,
		MinMagnitude: 5.0,
		MaxDepth:     150,
		Workers:      2,
	}
}

func (m *testLauncherMocks) changeTo(eventID, originID, magnitudeID string) {
	m.tracker.OnUpdate(context.Background(), "EventParameters", &domain.Event{
		ID:                   eventID,
		PreferredOriginID:    originID,
		PreferredMagnitudeID: magnitudeID,
	})
}

func TestLauncher_LaunchesOncePerEvent(t *testing.T) {
	mocks := setupTestLauncher(t, defaultConfig("./wrap.sh --event {event} --verbose"))
	defer tearDownTestLauncher(mocks)

	mocks.commander.
		EXPECT().
		Run(gomock.Any(), "./wrap.sh", "--event", "E1", "--verbose").
		Return([]byte("done"), nil)

	mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{ID: "E1"})
	mocks.changeTo("E1", "O-shallow", "M-big")
	mocks.changeTo("E1", "O-shallow", "M-bigger")

	assert.True(t, mocks.launcher.Launched("E1"))
}

func TestLauncher_AppendsEventIDWithoutPlaceholder(t *testing.T) {
	mocks := setupTestLauncher(t, defaultConfig("notify-ops"))
	defer tearDownTestLauncher(mocks)

	mocks.commander.EXPECT().Run(gomock.Any(), "notify-ops", "E1").Return(nil, nil)

	mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{ID: "E1"})
	mocks.changeTo("E1", "O-shallow", "M-big")
}

func TestLauncher_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		originID  string
		magnitude string
	}{
		{name: "too deep", originID: "O-deep", magnitude: "M-big"},
		{name: "too small", originID: "O-shallow", magnitude: "M-small"},
		{name: "depth unknown", originID: "O-nodepth", magnitude: "M-big"},
		{name: "origin missing", originID: "", magnitude: "M-big"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestLauncher(t, defaultConfig("notify-ops"))
			defer tearDownTestLauncher(mocks)

			mocks.commander.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{ID: "E1"})
			mocks.changeTo("E1", tt.originID, tt.magnitude)

			assert.False(t, mocks.launcher.Launched("E1"))
		})
	}
}

func TestLauncher_OriginChangeTrigger(t *testing.T) {
	t.Run("ignored by default", func(t *testing.T) {
		mocks := setupTestLauncher(t, defaultConfig("notify-ops"))
		defer tearDownTestLauncher(mocks)

		mocks.commander.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{
			ID: "E1", PreferredOriginID: "O-deep", PreferredMagnitudeID: "M-big",
		})
		mocks.changeTo("E1", "O-shallow", "M-big")

		assert.False(t, mocks.launcher.Launched("E1"))
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := defaultConfig("notify-ops")
		cfg.TriggerOnOrigin = true
		mocks := setupTestLauncher(t, cfg)
		defer tearDownTestLauncher(mocks)

		mocks.commander.EXPECT().Run(gomock.Any(), "notify-ops", "E1").Return(nil, nil)

		mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{
			ID: "E1", PreferredOriginID: "O-deep", PreferredMagnitudeID: "M-big",
		})
		mocks.changeTo("E1", "O-shallow", "M-big")

		assert.True(t, mocks.launcher.Launched("E1"))
	})
}

func TestLauncher_FailedRunIsNotRetried(t *testing.T) {
	mocks := setupTestLauncher(t, defaultConfig("notify-ops"))
	defer tearDownTestLauncher(mocks)

	mocks.commander.EXPECT().Run(gomock.Any(), "notify-ops", "E1").Return([]byte("exit 1"), assert.AnError)

	mocks.tracker.OnAdd(context.Background(), "EventParameters", &domain.Event{ID: "E1"})
	mocks.changeTo("E1", "O-shallow", "M-big")
	mocks.changeTo("E1", "O-shallow", "M-bigger")

	assert.True(t, mocks.launcher.Launched("E1"))
}

func TestNew_EmptyCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l, err := launcher.New(context.Background(), launcher.Config{Command: "  "}, mockspkg.NewMockCommander(ctrl), mockspkg.NewMockClock(ctrl))

	assert.ErrorIs(t, err, launcher.ErrEmptyCommand)
	assert.Nil(t, l)
}
