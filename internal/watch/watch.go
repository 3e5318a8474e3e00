package watch

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/tracker"
)

// TimeFormat is the layout used for origin times
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// Watcher prints the preferred solutions of an event every time one of them changes
type Watcher struct {
	mu      sync.Mutex
	out     io.Writer
	records tracker.RecordReader
}

// New creates a watcher writing to out. Moment magnitudes and derived origins
// of moment tensors are looked up in records.
func New(out io.Writer, records tracker.RecordReader) *Watcher {
	return &Watcher{
		out:     out,
		records: records,
	}
}

func (w *Watcher) ChangedOrigin(st *tracker.EventState, previousID, currentID string) {
	w.changed(st, domain.KindOrigin, previousID, currentID)
}

func (w *Watcher) ChangedMagnitude(st *tracker.EventState, previousID, currentID string) {
	w.changed(st, domain.KindMagnitude, previousID, currentID)
}

func (w *Watcher) ChangedFocalMechanism(st *tracker.EventState, previousID, currentID string) {
	w.changed(st, domain.KindFocalMechanism, previousID, currentID)
}

func (w *Watcher) changed(st *tracker.EventState, kind domain.Kind, previousID, currentID string) {
	logger.Debug("Preferred solution changed",
		zap.String("eventID", st.EventID()),
		zap.String("kind", string(kind)),
		zap.String("from", previousID),
		zap.String("to", currentID),
	)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.out, w.format(st)); err != nil {
		logger.Error(err, zap.String("message", "Failed to write event"), zap.String("eventID", st.EventID()))
	}
}

// format renders the event down to the first unresolved preferred solution
func (w *Watcher) format(st *tracker.EventState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "EVT %s\n", st.EventID())

	org := st.Origin()
	if org == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "ORG %s\n", org.Time.UTC().Format(TimeFormat))

	mag := st.Magnitude()
	if mag == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "MAG %.2f %s\n", mag.Value, mag.Type)

	foc := st.FocalMechanism()
	if foc == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "FOC %d\n", len(foc.MomentTensors))
	if foc.AzimuthalGap != nil {
		fmt.Fprintf(&b, "  azigap: %.1f\n", *foc.AzimuthalGap)
	}

	for _, mt := range foc.MomentTensors {
		w.formatMomentTensor(&b, mt)
	}

	return b.String()
}

func (w *Watcher) formatMomentTensor(b *strings.Builder, mt domain.MomentTensor) {
	if mt.Misfit != nil {
		fmt.Fprintf(b, "  misfit: %.3f\n", *mt.Misfit)
	}
	if mt.CLVD != nil {
		fmt.Fprintf(b, "  clvd %.2f\n", *mt.CLVD)
	}
	if mt.ISO != nil {
		fmt.Fprintf(b, "  iso  %.2f\n", *mt.ISO)
	}

	if r, ok := w.records.Get(domain.KindMagnitude, mt.MomentMagnitudeID); ok {
		mw := r.(*domain.Magnitude)
		fmt.Fprintf(b, "  MW %.2f %s\n", mw.Value, mw.Type)
	}

	var stationWeight, componentWeight float64
	for _, sc := range mt.StationContributions {
		stationWeight += sc.Weight
		for _, cw := range sc.ComponentWeights {
			componentWeight += cw
		}
	}
	fmt.Fprintf(b, "  stationContribution %.2f\n", stationWeight)
	fmt.Fprintf(b, "  componentContribution %.2f\n", componentWeight)

	r, ok := w.records.Get(domain.KindOrigin, mt.DerivedOriginID)
	if !ok {
		fmt.Fprintf(b, "  no origin found for derivedOriginID '%s'\n", mt.DerivedOriginID)
		return
	}
	dorg := r.(*domain.Origin)
	fmt.Fprintf(b, "  time  %s\n", dorg.Time.UTC().Format(TimeFormat))
	fmt.Fprintf(b, "  lat   %.2f\n", dorg.Latitude)
	fmt.Fprintf(b, "  lon   %.2f\n", dorg.Longitude)
	if dorg.Depth != nil {
		fmt.Fprintf(b, "  dep   %.1f\n", *dorg.Depth)
	}
}
