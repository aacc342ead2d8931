package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is a stored narrative report together with the figures it was built from.
type Report struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	OwnerID    string         `json:"user_id" gorm:"size:36;not null;index:idx_reports_owner_created,priority:1"`
	ReportType string         `json:"report_type" gorm:"size:40;not null"`
	Period     int            `json:"period"`
	AIPowered  bool           `json:"ai_powered"`
	Title      string         `json:"title" gorm:"size:200"`
	Document   datatypes.JSON `json:"document"`
	Figures    datatypes.JSON `json:"financial_data"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index:idx_reports_owner_created,priority:2"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&r.ID)
	return
}
