package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/tracker"
)

// EventPlaceholder is replaced by the event ID in the command arguments
const EventPlaceholder = "{event}"

// ErrEmptyCommand is returned when no command is configured
var ErrEmptyCommand = errors.New("launcher command is empty")

// Config holds the configuration for the launcher
type Config struct {
	// Command is the program and its arguments, separated by spaces
	Command string
	// MinMagnitude is the smallest preferred magnitude that triggers a launch
	MinMagnitude float64
	// MaxDepth is the deepest preferred origin (km) that triggers a launch
	MaxDepth float64
	// TriggerOnOrigin also checks the thresholds when the preferred origin changes
	TriggerOnOrigin bool
	// Workers bounds the number of programs running at the same time
	Workers int
	// Timeout kills a program that runs longer; zero means no limit
	Timeout time.Duration
}

// Launcher starts an external program once per event whose preferred solutions
// pass the magnitude and depth thresholds
type Launcher interface {
	tracker.ChangeHook
	// Launched reports whether a program was started for the event
	Launched(eventID string) bool
	// Close waits for running programs and stops the worker pool
	Close()
}

type launcher struct {
	config    Config
	program   string
	args      []string
	commander adapter.Commander
	clock     adapter.Clock
	pool      pond.Pool
	ctx       context.Context

	mu       sync.Mutex
	launched map[string]struct{}
}

// New creates a launcher. Programs are started with ctx, so cancelling it kills them.
func New(ctx context.Context, cfg Config, commander adapter.Commander, clock adapter.Clock) (Launcher, error) {
	fields := strings.Fields(cfg.Command)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &launcher{
		config:    cfg,
		program:   fields[0],
		args:      fields[1:],
		commander: commander,
		clock:     clock,
		pool:      pond.NewPool(cfg.Workers, pond.WithContext(ctx)),
		ctx:       ctx,
		launched:  make(map[string]struct{}),
	}, nil
}

func (l *launcher) ChangedOrigin(st *tracker.EventState, previousID, currentID string) {
	logger.Info("Preferred origin changed",
		zap.String("eventID", st.EventID()),
		zap.String("from", previousID),
		zap.String("to", currentID),
	)
	if l.config.TriggerOnOrigin {
		l.launch(st)
	}
}

func (l *launcher) ChangedMagnitude(st *tracker.EventState, previousID, currentID string) {
	logger.Info("Preferred magnitude changed",
		zap.String("eventID", st.EventID()),
		zap.String("from", previousID),
		zap.String("to", currentID),
	)
	l.launch(st)
}

func (l *launcher) ChangedFocalMechanism(st *tracker.EventState, previousID, currentID string) {}

func (l *launcher) Launched(eventID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.launched[eventID]
	return ok
}

// launch checks the thresholds and hands the program to the pool
func (l *launcher) launch(st *tracker.EventState) {
	eventID := st.EventID()
	if l.Launched(eventID) {
		return
	}

	org, mag := st.Origin(), st.Magnitude()
	if org == nil || org.Depth == nil || mag == nil {
		logger.Warn("Event incomplete, not launching", zap.String("eventID", eventID))
		return
	}
	if *org.Depth > l.config.MaxDepth {
		logger.Info("Event too deep, not launching", zap.String("eventID", eventID), zap.Float64("depth", *org.Depth))
		return
	}
	if mag.Value < l.config.MinMagnitude {
		logger.Info("Event too small, not launching", zap.String("eventID", eventID), zap.Float64("magnitude", mag.Value))
		return
	}

	l.mu.Lock()
	l.launched[eventID] = struct{}{}
	l.mu.Unlock()

	runID := ulid.MustNewDefault(l.clock.Now()).String()
	args := l.buildArgs(eventID)
	logger.Info("Launching program",
		zap.String("eventID", eventID),
		zap.String("runID", runID),
		zap.String("program", l.program),
		zap.Strings("args", args),
	)

	l.pool.SubmitErr(func() error {
		return l.run(eventID, runID, args)
	})
}

func (l *launcher) run(eventID, runID string, args []string) error {
	ctx := l.ctx
	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}

	start := l.clock.Now()
	output, err := l.commander.Run(ctx, l.program, args...)
	if err != nil {
		err = fmt.Errorf("failed to run %s for event %s: %w", l.program, eventID, err)
		logger.ErrorCtx(ctx, err,
			zap.String("runID", runID),
			zap.ByteString("output", output),
		)
		return err
	}

	logger.InfoCtx(ctx, "Program finished",
		zap.String("eventID", eventID),
		zap.String("runID", runID),
		zap.Duration("elapsed", l.clock.Since(start)),
		zap.ByteString("output", output),
	)
	return nil
}

// buildArgs substitutes the event ID into the arguments, or appends it when no argument asks for it
func (l *launcher) buildArgs(eventID string) []string {
	args := make([]string, 0, len(l.args)+1)
	substituted := false
	for _, arg := range l.args {
		if strings.Contains(arg, EventPlaceholder) {
			arg = strings.ReplaceAll(arg, EventPlaceholder, eventID)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, eventID)
	}
	return args
}

func (l *launcher) Close() {
	logger.Info("Shutting down launcher pool",
		zap.Uint64("submitted", l.pool.SubmittedTasks()),
		zap.Uint64("waiting", l.pool.WaitingTasks()),
	)

	l.pool.StopAndWait()

	logger.Info("Launcher pool shutdown complete",
		zap.Uint64("completed", l.pool.CompletedTasks()),
		zap.Uint64("failed", l.pool.FailedTasks()),
	)
}
