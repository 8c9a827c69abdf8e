package service

import (
	"context"

	"larsbees/entities"
)

type SiteInput struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Description       string  `json:"description"`
	Latitude          float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude         float64 `json:"longitude" validate:"gte=-180,lte=180"`
	HiveCount         int     `json:"hive_count" validate:"omitempty,min=1,max=1000"`
	HarvestTimeline   string  `json:"harvest_timeline" validate:"max=100"`
	SugarRequirements string  `json:"sugar_requirements" validate:"max=100"`
	Notes             string  `json:"notes"`

	LandownerName    string `json:"landowner_name" validate:"max=100"`
	LandownerPhone   string `json:"landowner_phone" validate:"max=20"`
	LandownerEmail   string `json:"landowner_email" validate:"omitempty,email,max=120"`
	LandownerAddress string `json:"landowner_address"`

	FunctionalClassification string `json:"functional_classification" validate:"omitempty,oneof=production nucleus queen-rearing research education quarantine backup custom"`
	SeasonalClassification   string `json:"seasonal_classification" validate:"omitempty,oneof=summer winter"`
	AccessType               string `json:"access_type" validate:"omitempty,oneof=all_weather dry_only"`
	ContactBeforeVisit       bool   `json:"contact_before_visit"`
	IsQuarantine             bool   `json:"is_quarantine"`

	SingleBroodBoxes int    `json:"single_brood_boxes" validate:"gte=0"`
	DoubleBroodBoxes int    `json:"double_brood_boxes" validate:"gte=0"`
	Nucs             int    `json:"nucs" validate:"gte=0"`
	DeadHives        int    `json:"dead_hives" validate:"gte=0"`
	TopSplits        int    `json:"top_splits" validate:"gte=0"`
	StrongHives      int    `json:"strong_hives" validate:"gte=0"`
	MediumHives      int    `json:"medium_hives" validate:"gte=0"`
	WeakHives        int    `json:"weak_hives" validate:"gte=0"`
	SiteStrength     string `json:"site_strength" validate:"omitempty,oneof=strong medium weak nuc"`
}

// SitePatch changes only the fields that are present.
type SitePatch struct {
	Name                     *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description              *string  `json:"description"`
	Latitude                 *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude                *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	HiveCount                *int     `json:"hive_count" validate:"omitempty,min=1,max=1000"`
	HarvestTimeline          *string  `json:"harvest_timeline"`
	SugarRequirements        *string  `json:"sugar_requirements"`
	Notes                    *string  `json:"notes"`
	FunctionalClassification *string  `json:"functional_classification" validate:"omitempty,oneof=production nucleus queen-rearing research education quarantine backup custom"`
	SeasonalClassification   *string  `json:"seasonal_classification" validate:"omitempty,oneof=summer winter"`
	AccessType               *string  `json:"access_type" validate:"omitempty,oneof=all_weather dry_only"`
	ContactBeforeVisit       *bool    `json:"contact_before_visit"`
	IsQuarantine             *bool    `json:"is_quarantine"`
	SiteStrength             *string  `json:"site_strength" validate:"omitempty,oneof=strong medium weak nuc"`
}

// FieldReportInput is the quick entry made while standing at a site.
type FieldReportInput struct {
	SingleBroodBoxes *int   `json:"single_brood_boxes" validate:"omitempty,gte=0"`
	DoubleBroodBoxes *int   `json:"double_brood_boxes" validate:"omitempty,gte=0"`
	Nucs             *int   `json:"nucs" validate:"omitempty,gte=0"`
	DeadHives        *int   `json:"dead_hives" validate:"omitempty,gte=0"`
	TopSplits        *int   `json:"top_splits" validate:"omitempty,gte=0"`
	StrongHives      *int   `json:"strong_hives" validate:"omitempty,gte=0"`
	MediumHives      *int   `json:"medium_hives" validate:"omitempty,gte=0"`
	WeakHives        *int   `json:"weak_hives" validate:"omitempty,gte=0"`
	IsQuarantine     *bool  `json:"is_quarantine"`
	TaskTypeIDs      []uint `json:"task_type_ids"`
	Notes            string `json:"notes"`
	ReportDate       string `json:"report_date"`

	Disease *DiseaseCounts `json:"disease"`
}

type DiseaseCounts struct {
	AFB        int `json:"afb_count" validate:"gte=0"`
	Varroa     int `json:"varroa_count" validate:"gte=0"`
	Chalkbrood int `json:"chalkbrood_count" validate:"gte=0"`
	Sacbrood   int `json:"sacbrood_count" validate:"gte=0"`
	DWV        int `json:"dwv_count" validate:"gte=0"`
}

type FieldReportResult struct {
	Site          *entities.Site          `json:"site"`
	Actions       []entities.HiveAction   `json:"actions"`
	DiseaseReport *entities.DiseaseReport `json:"disease_report,omitempty"`
}

// MapSite is the marker payload for the map view.
type MapSite struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	HiveCount         int     `json:"hive_count"`
	HarvestTimeline   string  `json:"harvest_timeline"`
	SugarRequirements string  `json:"sugar_requirements"`
	IsQuarantine      bool    `json:"is_quarantine"`
	SiteStrength      string  `json:"site_strength"`
}

type SiteService interface {
	Create(ctx context.Context, uid uint, in SiteInput) (*entities.Site, error)
	Get(ctx context.Context, uid, id uint) (*entities.Site, error)
	List(ctx context.Context, uid uint) ([]entities.Site, error)
	Update(ctx context.Context, uid, id uint, in SiteInput) (*entities.Site, error)
	Patch(ctx context.Context, uid, id uint, p SitePatch) (*entities.Site, error)
	Delete(ctx context.Context, uid, id uint) error
	FieldReport(ctx context.Context, uid, id uint, in FieldReportInput) (*FieldReportResult, error)
	MapData(ctx context.Context, uid uint) ([]MapSite, error)
}
