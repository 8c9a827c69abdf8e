package entities

import "time"

type IndividualHive struct {
	HiveID       uint      `gorm:"primaryKey" json:"hive_id"`
	SiteID       uint      `gorm:"index;not null" json:"site_id"`
	HiveNumber   string    `gorm:"size:50;not null" json:"hive_number"`
	Status       string    `gorm:"size:20;default:healthy" json:"status"`       // healthy|infected|quarantine|weak|queenless|dead
	HiveStrength string    `gorm:"size:20;default:medium" json:"hive_strength"` // strong|medium|weak|nuc
	Notes        string    `json:"notes"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Site *Site `gorm:"constraint:OnDelete:CASCADE" json:"site,omitempty"`
}
