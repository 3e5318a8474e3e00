package tracker

import (
	"time"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/types"
)

// EventState is the cached state of one tracked event.
// Hooks receive it read-only: the returned records are the tracker's own slots and must not be modified.
type EventState struct {
	event          *domain.Event
	origin         *domain.Origin
	magnitude      *domain.Magnitude
	focalMechanism *domain.FocalMechanism

	previousOriginID         string
	previousMagnitudeID      string
	previousFocalMechanismID string
}

// EventID returns the public ID of the event
func (s *EventState) EventID() string {
	return s.event.ID
}

// Event returns the event record
func (s *EventState) Event() *domain.Event {
	return s.event
}

// Origin returns the preferred origin, nil while unresolved
func (s *EventState) Origin() *domain.Origin {
	return s.origin
}

// Magnitude returns the preferred magnitude, nil while unresolved
func (s *EventState) Magnitude() *domain.Magnitude {
	return s.magnitude
}

// FocalMechanism returns the preferred focal mechanism, nil while unresolved
func (s *EventState) FocalMechanism() *domain.FocalMechanism {
	return s.focalMechanism
}

// EventSummary is a point-in-time copy of an EventState
type EventSummary struct {
	EventID                   string     `json:"event_id"`
	Description               string     `json:"description,omitempty"`
	PreferredOriginID         string     `json:"preferred_origin_id,omitempty"`
	PreferredMagnitudeID      string     `json:"preferred_magnitude_id,omitempty"`
	PreferredFocalMechanismID string     `json:"preferred_focal_mechanism_id,omitempty"`
	OriginResolved            bool       `json:"origin_resolved"`
	MagnitudeResolved         bool       `json:"magnitude_resolved"`
	FocalMechanismResolved    bool       `json:"focal_mechanism_resolved"`
	OriginTime                *time.Time `json:"origin_time,omitempty"`
	Latitude                  *float64   `json:"latitude,omitempty"`
	Longitude                 *float64   `json:"longitude,omitempty"`
	Depth                     *float64   `json:"depth,omitempty"`
	Magnitude                 *float64   `json:"magnitude,omitempty"`
	MagnitudeType             string     `json:"magnitude_type,omitempty"`
}

// Snapshot is a consistent copy of the tracker state
type Snapshot struct {
	Time    time.Time           `json:"time"`
	Events  []EventSummary      `json:"events"`
	Records map[domain.Kind]int `json:"records"`
}

func (s *EventState) summary() EventSummary {
	sum := EventSummary{
		EventID:                   s.event.ID,
		Description:               types.SafeString(s.event.Description),
		PreferredOriginID:         s.event.PreferredOriginID,
		PreferredMagnitudeID:      s.event.PreferredMagnitudeID,
		PreferredFocalMechanismID: s.event.PreferredFocalMechanismID,
		OriginResolved:            s.origin != nil,
		MagnitudeResolved:         s.magnitude != nil,
		FocalMechanismResolved:    s.focalMechanism != nil,
	}

	if s.origin != nil {
		t := s.origin.Time
		lat, lon := s.origin.Latitude, s.origin.Longitude
		sum.OriginTime = &t
		sum.Latitude = &lat
		sum.Longitude = &lon
		if s.origin.Depth != nil {
			depth := *s.origin.Depth
			sum.Depth = &depth
		}
	}
	if s.magnitude != nil {
		value := s.magnitude.Value
		sum.Magnitude = &value
		sum.MagnitudeType = s.magnitude.Type
	}

	return sum
}
