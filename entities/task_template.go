package entities

import "time"

// TaskTemplate is a reusable unit of apiary work. System templates are
// visible to every user; the rest belong to UserID.
type TaskTemplate struct {
	TemplateID        uint   `gorm:"primaryKey" json:"template_id"`
	Name              string `gorm:"size:100;not null" json:"name"`
	Description       string `json:"description"`
	Category          string `gorm:"size:50;not null" json:"category"`
	EstimatedDuration int    `gorm:"default:60" json:"estimated_duration"` // minutes
	Priority          string `gorm:"size:20;default:medium" json:"priority"`

	IsSeasonal   bool  `json:"is_seasonal"`
	SeasonMonths []int `gorm:"serializer:json" json:"season_months"`

	ChecklistItems  []string `gorm:"serializer:json" json:"checklist_items"`
	EquipmentNeeded []string `gorm:"serializer:json" json:"equipment_needed"`
	SuppliesNeeded  []string `gorm:"serializer:json" json:"supplies_needed"`

	WeatherDependent bool   `json:"weather_dependent"`
	MinTemperature   *int   `json:"min_temperature"`
	MaxTemperature   *int   `json:"max_temperature"`
	AvoidRain        bool   `json:"avoid_rain"`
	BestTimeOfDay    string `gorm:"size:20" json:"best_time_of_day"`

	IsActive         bool      `gorm:"default:true;index" json:"is_active"`
	IsSystemTemplate bool      `gorm:"index" json:"is_system_template"`
	UserID           *uint     `gorm:"index" json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InSeason reports whether the template is suggested for month m.
func (t TaskTemplate) InSeason(m time.Month) bool {
	if !t.IsSeasonal {
		return false
	}
	for _, v := range t.SeasonMonths {
		if time.Month(v) == m {
			return true
		}
	}
	return false
}
