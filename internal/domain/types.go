package domain

import (
	"slices"
	"time"
)

// Kind identifies the kind of a record carried by a notification
type Kind string

const (
	KindEvent          Kind = "Event"
	KindOrigin         Kind = "Origin"
	KindMagnitude      Kind = "Magnitude"
	KindFocalMechanism Kind = "FocalMechanism"
)

// IsTracked reports whether records of this kind are relevant to the preferred-solution tracker
func (k Kind) IsTracked() bool {
	switch k {
	case KindEvent, KindOrigin, KindMagnitude, KindFocalMechanism:
		return true
	default:
		return false
	}
}

// Operation is the notifier operation applied to a record
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationUpdate Operation = "update"
)

// IsValid checks if an operation is one the tracker understands
func (o Operation) IsValid() bool {
	return o == OperationAdd || o == OperationUpdate
}

// Record is the closed set of records the tracker works with.
// It is implemented by *Event, *Origin, *Magnitude and *FocalMechanism only.
type Record interface {
	Kind() Kind
	PublicID() string
	// Created returns the creation time of the record (zero if unknown)
	Created() time.Time

	isRecord()
}

// Event represents a seismic event with its preferred solutions
type Event struct {
	ID                        string    `json:"public_id"`
	PreferredOriginID         string    `json:"preferred_origin_id,omitempty"`
	PreferredMagnitudeID      string    `json:"preferred_magnitude_id,omitempty"`
	PreferredFocalMechanismID string    `json:"preferred_focal_mechanism_id,omitempty"`
	Type                      *string   `json:"type,omitempty"`
	Description               *string   `json:"description,omitempty"`
	CreationTime              time.Time `json:"creation_time"`
}

// Origin represents a hypocenter solution
type Origin struct {
	ID           string    `json:"public_id"`
	Time         time.Time `json:"time"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Depth        *float64  `json:"depth,omitempty"` // km
	ArrivalCount int       `json:"arrival_count"`
	CreationTime time.Time `json:"creation_time"`
}

// Magnitude represents a magnitude estimate
type Magnitude struct {
	ID           string    `json:"public_id"`
	Value        float64   `json:"value"`
	Type         string    `json:"type"`
	OriginID     string    `json:"origin_id,omitempty"`
	CreationTime time.Time `json:"creation_time"`
}

// NodalPlane describes one fault plane of a focal mechanism (degrees)
type NodalPlane struct {
	Strike float64 `json:"strike"`
	Dip    float64 `json:"dip"`
	Rake   float64 `json:"rake"`
}

// StationContribution holds the weights a station contributed to a moment tensor inversion
type StationContribution struct {
	StationID        string    `json:"station_id,omitempty"`
	Weight           float64   `json:"weight"`
	ComponentWeights []float64 `json:"component_weights,omitempty"`
}

// MomentTensor is a moment tensor solution of a focal mechanism
type MomentTensor struct {
	ID                   string                `json:"public_id"`
	CLVD                 *float64              `json:"clvd,omitempty"`
	ISO                  *float64              `json:"iso,omitempty"`
	Misfit               *float64              `json:"misfit,omitempty"`
	MomentMagnitudeID    string                `json:"moment_magnitude_id,omitempty"`
	DerivedOriginID      string                `json:"derived_origin_id,omitempty"`
	StationContributions []StationContribution `json:"station_contributions,omitempty"`
}

// FocalMechanism represents a fault-plane solution with optional moment tensors
type FocalMechanism struct {
	ID              string         `json:"public_id"`
	TriggeringOrgID string         `json:"triggering_origin_id,omitempty"`
	NodalPlanes     []NodalPlane   `json:"nodal_planes,omitempty"`
	AzimuthalGap    *float64       `json:"azimuthal_gap,omitempty"`
	MomentTensors   []MomentTensor `json:"moment_tensors,omitempty"`
	CreationTime    time.Time      `json:"creation_time"`
}

func (e *Event) Kind() Kind         { return KindEvent }
func (e *Event) PublicID() string   { return e.ID }
func (e *Event) Created() time.Time { return e.CreationTime }
func (*Event) isRecord()            {}

func (o *Origin) Kind() Kind         { return KindOrigin }
func (o *Origin) PublicID() string   { return o.ID }
func (o *Origin) Created() time.Time { return o.CreationTime }
func (*Origin) isRecord()            {}

func (m *Magnitude) Kind() Kind         { return KindMagnitude }
func (m *Magnitude) PublicID() string   { return m.ID }
func (m *Magnitude) Created() time.Time { return m.CreationTime }
func (*Magnitude) isRecord()            {}

func (f *FocalMechanism) Kind() Kind         { return KindFocalMechanism }
func (f *FocalMechanism) PublicID() string   { return f.ID }
func (f *FocalMechanism) Created() time.Time { return f.CreationTime }
func (*FocalMechanism) isRecord()            {}

// Assign overwrites the event in place with the fields of other
func (e *Event) Assign(other *Event) {
	*e = *other
}

// Assign overwrites the origin in place with the fields of other
func (o *Origin) Assign(other *Origin) {
	*o = *other
}

// Assign overwrites the magnitude in place with the fields of other
func (m *Magnitude) Assign(other *Magnitude) {
	*m = *other
}

// Assign overwrites the focal mechanism in place with the fields of other.
// Slices are copied so the receiver never aliases the notified object.
func (f *FocalMechanism) Assign(other *FocalMechanism) {
	*f = *other
	f.NodalPlanes = slices.Clone(other.NodalPlanes)
	f.MomentTensors = make([]MomentTensor, len(other.MomentTensors))
	for i, mt := range other.MomentTensors {
		mt.StationContributions = slices.Clone(mt.StationContributions)
		f.MomentTensors[i] = mt
	}
}

// Notification is a single add or update delivered by the notifier stream.
// Record is nil when the notified object is of a kind the tracker does not know.
type Notification struct {
	Operation Operation
	ParentID  string
	Kind      Kind
	Record    Record
}
