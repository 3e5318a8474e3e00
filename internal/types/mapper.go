package types

import (
	"encoding/json"
	"fmt"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/store/schema"
)

// EventFromSchema converts an events row to a domain event
func EventFromSchema(e *schema.Event) *domain.Event {
	return &domain.Event{
		ID:                        e.PublicID,
		PreferredOriginID:         e.PreferredOriginID,
		PreferredMagnitudeID:      e.PreferredMagnitudeID,
		PreferredFocalMechanismID: e.PreferredFocalMechanismID,
		Type:                      e.Type,
		Description:               e.Description,
		CreationTime:              e.CreationTime.UTC(),
	}
}

// OriginFromSchema converts an origins row to a domain origin
func OriginFromSchema(o *schema.Origin) *domain.Origin {
	return &domain.Origin{
		ID:           o.PublicID,
		Time:         o.Time.UTC(),
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		Depth:        o.Depth,
		ArrivalCount: o.ArrivalCount,
		CreationTime: o.CreationTime.UTC(),
	}
}

// MagnitudeFromSchema converts a magnitudes row to a domain magnitude
func MagnitudeFromSchema(m *schema.Magnitude) *domain.Magnitude {
	return &domain.Magnitude{
		ID:           m.PublicID,
		Value:        m.Value,
		Type:         m.Type,
		OriginID:     m.OriginID,
		CreationTime: m.CreationTime.UTC(),
	}
}

// FocalMechanismFromSchema converts a focal_mechanisms row to a domain focal mechanism
func FocalMechanismFromSchema(f *schema.FocalMechanism) (*domain.FocalMechanism, error) {
	fm := &domain.FocalMechanism{
		ID:              f.PublicID,
		TriggeringOrgID: f.TriggeringOriginID,
		AzimuthalGap:    f.AzimuthalGap,
		CreationTime:    f.CreationTime.UTC(),
	}

	if len(f.NodalPlanes) > 0 {
		if err := json.Unmarshal(f.NodalPlanes, &fm.NodalPlanes); err != nil {
			return nil, fmt.Errorf("failed to decode nodal planes of %s: %w", f.PublicID, err)
		}
	}
	if len(f.MomentTensors) > 0 {
		if err := json.Unmarshal(f.MomentTensors, &fm.MomentTensors); err != nil {
			return nil, fmt.Errorf("failed to decode moment tensors of %s: %w", f.PublicID, err)
		}
	}

	return fm, nil
}

// FocalMechanismToSchema converts a domain focal mechanism to a focal_mechanisms row
func FocalMechanismToSchema(f *domain.FocalMechanism) (*schema.FocalMechanism, error) {
	planes, err := json.Marshal(f.NodalPlanes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nodal planes of %s: %w", f.ID, err)
	}
	tensors, err := json.Marshal(f.MomentTensors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode moment tensors of %s: %w", f.ID, err)
	}

	return &schema.FocalMechanism{
		PublicID:           f.ID,
		TriggeringOriginID: f.TriggeringOrgID,
		AzimuthalGap:       f.AzimuthalGap,
		NodalPlanes:        planes,
		MomentTensors:      tensors,
		CreationTime:       f.CreationTime,
	}, nil
}
