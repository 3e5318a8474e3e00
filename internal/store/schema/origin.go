package schema

import (
	"time"
)

// Origin represents the origins table - hypocenter solutions
type Origin struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID     string    `gorm:"column:public_id;not null;uniqueIndex;type:text"`
	Time         time.Time `gorm:"column:time;not null;type:timestamptz;index"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	Depth        *float64  `gorm:"column:depth"`
	ArrivalCount int       `gorm:"column:arrival_count;not null;default:0"`
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz"`
}

// TableName specifies the table name for the Origin model
func (Origin) TableName() string {
	return "origins"
}
