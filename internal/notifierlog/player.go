package notifierlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
)

// PlayerConfig holds the configuration for replaying a notifier log
type PlayerConfig struct {
	// Begin skips frames recorded before it when set
	Begin *time.Time
	// End skips frames recorded at or after it when set
	End *time.Time
	// Speed divides the recorded gaps between frames; zero publishes without waiting
	Speed float64
}

// Player publishes recorded frames onto the bus
type Player struct {
	publisher messaging.Publisher
	codec     *messaging.Codec
	clock     adapter.Clock
	config    PlayerConfig
}

// NewPlayer creates a player
func NewPlayer(cfg PlayerConfig, publisher messaging.Publisher, codec *messaging.Codec, clock adapter.Clock) *Player {
	return &Player{
		publisher: publisher,
		codec:     codec,
		clock:     clock,
		config:    cfg,
	}
}

// Play replays the frames read from r and returns the number of published messages
func (p *Player) Play(ctx context.Context, r io.Reader) (int, error) {
	reader := NewReader(r)

	var (
		published int
		previous  time.Time
	)
	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return published, err
		}

		if p.config.Begin != nil && frame.Time.Before(*p.config.Begin) {
			continue
		}
		if p.config.End != nil && !frame.Time.Before(*p.config.End) {
			continue
		}

		if err := p.wait(ctx, previous, frame.Time); err != nil {
			return published, err
		}
		previous = frame.Time

		env, err := p.codec.DecodeEnvelope(frame.Payload)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable frame", zap.Error(err), zap.Time("recorded", frame.Time))
			continue
		}

		subject := messaging.Subject(env.Kind)
		if err := p.publisher.Publish(ctx, subject, frame.Payload); err != nil {
			return published, fmt.Errorf("failed to replay frame recorded at %s: %w", frame.Time.Format(TimeFormat), err)
		}
		published++
	}

	logger.InfoCtx(ctx, "Replay finished", zap.Int("published", published))
	return published, nil
}

// wait sleeps for the scaled gap between two recorded frames
func (p *Player) wait(ctx context.Context, previous, current time.Time) error {
	if p.config.Speed <= 0 || previous.IsZero() {
		return nil
	}

	gap := time.Duration(float64(current.Sub(previous)) / p.config.Speed)
	if gap <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(gap):
		return nil
	}
}
