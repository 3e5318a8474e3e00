package schema

import (
	"time"

	"gorm.io/datatypes"
)

// FocalMechanism represents the focal_mechanisms table.
// Nodal planes and moment tensors are nested documents and kept as jsonb.
type FocalMechanism struct {
	ID                 int64    `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID           string   `gorm:"column:public_id;not null;uniqueIndex;type:text"`
	TriggeringOriginID string   `gorm:"column:triggering_origin_id;not null;default:'';type:text"`
	AzimuthalGap       *float64 `gorm:"column:azimuthal_gap"`
	// NodalPlanes is a JSON array of {strike, dip, rake}
	NodalPlanes datatypes.JSON `gorm:"column:nodal_planes;type:jsonb"`
	// MomentTensors is a JSON array of moment tensor documents
	MomentTensors datatypes.JSON `gorm:"column:moment_tensors;type:jsonb"`
	CreationTime  time.Time      `gorm:"column:creation_time;not null;type:timestamptz"`
}

// TableName specifies the table name for the FocalMechanism model
func (FocalMechanism) TableName() string {
	return "focal_mechanisms"
}
