package entities

import "time"

type DiseaseReport struct {
	ReportID        uint      `gorm:"primaryKey" json:"report_id"`
	SiteID          uint      `gorm:"index;not null" json:"site_id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	AFBCount        int       `gorm:"column:afb_count" json:"afb_count"`
	VarroaCount     int       `gorm:"column:varroa_count" json:"varroa_count"`
	ChalkbroodCount int       `gorm:"column:chalkbrood_count" json:"chalkbrood_count"`
	SacbroodCount   int       `gorm:"column:sacbrood_count" json:"sacbrood_count"`
	DWVCount        int       `gorm:"column:dwv_count" json:"dwv_count"`
	ReportDate      time.Time `gorm:"index" json:"report_date"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`

	Site *Site `gorm:"constraint:OnDelete:CASCADE" json:"site,omitempty"`
	User *User `json:"-"`
}

func (d DiseaseReport) Total() int {
	return d.AFBCount + d.VarroaCount + d.ChalkbroodCount + d.SacbroodCount + d.DWVCount
}
