package notifierlog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/messaging"
	mockspkg "github.com/quakewatch/quakewatch/internal/mocks"
	"github.com/quakewatch/quakewatch/internal/notifierlog"
)

func TestRecorder_AppendsFrames(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sub := mockspkg.NewMockSubscriber(ctrl)
	clock := mockspkg.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(recorded).Times(2)

	path := filepath.Join(t.TempDir(), "notifier.log")
	require.NoError(t, os.WriteFile(path, []byte("#### 4 2024-03-01T11:49:00.000000Z\nprev\n"), 0o600))

	sub.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, handler messaging.MessageHandler) error {
			require.NoError(t, handler(ctx, "notifier.EVENT", []byte("one")))
			require.NoError(t, handler(ctx, "notifier.LOCATION", []byte("two")))
			return context.Canceled
		})

	rec := notifierlog.NewRecorder(sub, adapter.NewFileSystem(), clock, path)
	err := rec.Run(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"#### 4 2024-03-01T11:49:00.000000Z\nprev\n"+
			"#### 3 2024-03-01T11:50:00.123456Z\none\n"+
			"#### 3 2024-03-01T11:50:00.123456Z\ntwo\n",
		string(data))
}

func TestRecorder_WriteFailureAsksForRedelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sub := mockspkg.NewMockSubscriber(ctrl)
	fs := mockspkg.NewMockFileSystem(ctrl)
	file := mockspkg.NewMockFile(ctrl)
	clock := mockspkg.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(recorded)

	fs.EXPECT().OpenAppend("notifier.log").Return(file, nil)
	file.EXPECT().Write(gomock.Any()).Return(0, assert.AnError)
	file.EXPECT().Close().Return(nil)

	sub.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, handler messaging.MessageHandler) error {
			return handler(ctx, "notifier.EVENT", []byte("one"))
		})

	err := notifierlog.NewRecorder(sub, fs, clock, "notifier.log").Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRecorder_OpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := mockspkg.NewMockFileSystem(ctrl)
	fs.EXPECT().OpenAppend("notifier.log").Return(nil, assert.AnError)

	err := notifierlog.NewRecorder(mockspkg.NewMockSubscriber(ctrl), fs, mockspkg.NewMockClock(ctrl), "notifier.log").
		Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to open notifier log")
}
