package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/domain"
)

// SubjectPrefix is the prefix of every notifier subject
const SubjectPrefix = "notifier"

// Messaging groups the notifier subjects are split into
const (
	GroupEvent     = "EVENT"
	GroupLocation  = "LOCATION"
	GroupMagnitude = "MAGNITUDE"
	GroupFocMech   = "FOCMECH"
	GroupOther     = "OTHER"
)

// Envelope is the wire format of a notifier message
type Envelope struct {
	Operation domain.Operation `json:"operation"`
	ParentID  string           `json:"parent_id"`
	Kind      domain.Kind      `json:"kind"`
	Object    json.RawMessage  `json:"object"`
}

// Codec converts notifier messages to and from domain notifications
type Codec struct {
	json adapter.JSON
}

// NewCodec creates a new notifier codec
func NewCodec(jsonAdapter adapter.JSON) *Codec {
	return &Codec{json: jsonAdapter}
}

// Subject returns the subject a record kind is published on, e.g. notifier.LOCATION
func Subject(kind domain.Kind) string {
	group := GroupOther
	switch kind {
	case domain.KindEvent:
		group = GroupEvent
	case domain.KindOrigin:
		group = GroupLocation
	case domain.KindMagnitude:
		group = GroupMagnitude
	case domain.KindFocalMechanism:
		group = GroupFocMech
	}
	return fmt.Sprintf("%s.%s", SubjectPrefix, group)
}

// DecodeEnvelope parses only the envelope, leaving the object undecoded
func (c *Codec) DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := c.json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedNotification, err)
	}
	if !env.Operation.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidOperation, env.Operation)
	}
	return &env, nil
}

// Decode parses a notifier message. Objects of kinds the tracker does not know are returned
// with a nil Record so callers can skip them without treating them as errors.
func (c *Codec) Decode(data []byte) (domain.Notification, error) {
	env, err := c.DecodeEnvelope(data)
	if err != nil {
		return domain.Notification{}, err
	}

	n := domain.Notification{
		Operation: env.Operation,
		ParentID:  env.ParentID,
		Kind:      env.Kind,
	}

	var record domain.Record
	switch env.Kind {
	case domain.KindEvent:
		record = &domain.Event{}
	case domain.KindOrigin:
		record = &domain.Origin{}
	case domain.KindMagnitude:
		record = &domain.Magnitude{}
	case domain.KindFocalMechanism:
		record = &domain.FocalMechanism{}
	default:
		return n, nil
	}

	if err := c.json.Unmarshal(env.Object, record); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %s object: %v", domain.ErrMalformedNotification, env.Kind, err)
	}
	if record.PublicID() == "" {
		return domain.Notification{}, fmt.Errorf("%w: %s without public_id", domain.ErrMalformedNotification, env.Kind)
	}

	n.Record = record
	return n, nil
}

// Encode serializes a notification carrying a record
func (c *Codec) Encode(op domain.Operation, parentID string, record domain.Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrUnknownKind)
	}

	obj, err := c.json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %s: %w", record.Kind(), record.PublicID(), err)
	}

	data, err := c.json.Marshal(Envelope{
		Operation: op,
		ParentID:  parentID,
		Kind:      record.Kind(),
		Object:    obj,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}
