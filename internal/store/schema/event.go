package schema

import (
	"time"
)

// Event represents the events table - one row per seismic event known to the source
type Event struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PublicID is the globally unique event identifier used on the notifier stream
	PublicID string `gorm:"column:public_id;not null;uniqueIndex;type:text"`
	// PreferredOriginID is the public ID of the currently preferred origin (empty if unset)
	PreferredOriginID string `gorm:"column:preferred_origin_id;not null;default:'';type:text"`
	// PreferredMagnitudeID is the public ID of the currently preferred magnitude (empty if unset)
	PreferredMagnitudeID string `gorm:"column:preferred_magnitude_id;not null;default:'';type:text"`
	// PreferredFocalMechanismID is the public ID of the currently preferred focal mechanism (empty if unset)
	PreferredFocalMechanismID string `gorm:"column:preferred_focal_mechanism_id;not null;default:'';type:text"`
	// Type is the event type (e.g. "earthquake"), nil when not classified
	Type *string `gorm:"column:type;type:text"`
	// Description is the region name or free text description
	Description *string `gorm:"column:description;type:text"`
	// CreationTime is the creation time reported by the agency
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}
