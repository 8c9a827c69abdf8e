package entities

import "time"

// Site is an apiary location. Sites are never removed; Delete flips IsActive.
type Site struct {
	SiteID      uint    `gorm:"primaryKey" json:"site_id"`
	UserID      uint    `gorm:"index;not null" json:"user_id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HiveCount   int     `gorm:"default:1" json:"hive_count"`

	HarvestTimeline   string `gorm:"size:100" json:"harvest_timeline"`
	SugarRequirements string `gorm:"size:100" json:"sugar_requirements"`
	Notes             string `json:"notes"`

	LandownerName    string `gorm:"size:100" json:"landowner_name"`
	LandownerPhone   string `gorm:"size:20" json:"landowner_phone"`
	LandownerEmail   string `gorm:"size:120" json:"landowner_email"`
	LandownerAddress string `json:"landowner_address"`

	FunctionalClassification string `gorm:"size:20;default:production" json:"functional_classification"` // production|nucleus|queen-rearing|research|education|quarantine|backup|custom
	SeasonalClassification   string `gorm:"size:20;default:summer" json:"seasonal_classification"`       // summer|winter
	AccessType               string `gorm:"size:20;default:all_weather" json:"access_type"`              // all_weather|dry_only
	ContactBeforeVisit       bool   `json:"contact_before_visit"`
	IsQuarantine             bool   `json:"is_quarantine"`

	SingleBroodBoxes int `json:"single_brood_boxes"`
	DoubleBroodBoxes int `json:"double_brood_boxes"`
	Nucs             int `json:"nucs"`
	DeadHives        int `json:"dead_hives"`
	TopSplits        int `json:"top_splits"`

	StrongHives  int    `json:"strong_hives"`
	MediumHives  int    `json:"medium_hives"`
	WeakHives    int    `json:"weak_hives"`
	SiteStrength string `gorm:"size:20;default:medium" json:"site_strength"` // strong|medium|weak|nuc

	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s Site) TotalHives() int { return s.StrongHives + s.MediumHives + s.WeakHives }

// WeightedStrength scores strong hives 1, medium 0.5 and weak 0.25.
func (s Site) WeightedStrength() float64 {
	return float64(s.StrongHives) + 0.5*float64(s.MediumHives) + 0.25*float64(s.WeakHives)
}
