package notifierlog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
)

// Recorder appends every notifier message it receives to a log file
type Recorder struct {
	subscriber messaging.Subscriber
	fs         adapter.FileSystem
	clock      adapter.Clock
	path       string
}

// NewRecorder creates a recorder writing to path
func NewRecorder(subscriber messaging.Subscriber, fs adapter.FileSystem, clock adapter.Clock, path string) *Recorder {
	return &Recorder{
		subscriber: subscriber,
		fs:         fs,
		clock:      clock,
		path:       path,
	}
}

// Run records messages until ctx is canceled. A frame that cannot be written is
// reported to the subscriber so the message is redelivered.
func (r *Recorder) Run(ctx context.Context) error {
	f, err := r.fs.OpenAppend(r.path)
	if err != nil {
		return fmt.Errorf("failed to open notifier log %s: %w", r.path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error(err, zap.String("message", "Failed to close notifier log"), zap.String("path", r.path))
		}
	}()

	logger.InfoCtx(ctx, "Recording notifier messages", zap.String("path", r.path))

	return r.subscriber.Run(ctx, func(ctx context.Context, subject string, data []byte) error {
		if err := WriteFrame(f, Frame{Time: r.clock.Now(), Payload: data}); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return fmt.Errorf("failed to sync notifier log: %w", err)
		}

		logger.DebugCtx(ctx, "Recorded notifier message", zap.String("subject", subject), zap.Int("bytes", len(data)))
		return nil
	})
}
