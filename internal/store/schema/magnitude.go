package schema

import (
	"time"
)

// Magnitude represents the magnitudes table
type Magnitude struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID string  `gorm:"column:public_id;not null;uniqueIndex;type:text"`
	Value    float64 `gorm:"column:value;not null"`
	// Type is the magnitude type code (e.g. "Mw", "ML", "mb")
	Type string `gorm:"column:type;not null;type:text"`
	// OriginID is the public ID of the origin the magnitude was computed for
	OriginID     string    `gorm:"column:origin_id;not null;default:'';type:text"`
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz"`
}

// TableName specifies the table name for the Magnitude model
func (Magnitude) TableName() string {
	return "magnitudes"
}
