package models

import "time"

// Dataset groups the transactions of one uploaded case file.
type Dataset struct {
	ID          string `gorm:"primarykey"`
	Name        string `gorm:"not null"`
	RecordCount int    `gorm:"not null"`
	UploadedBy  uint   `gorm:"index"`
	CreatedAt   time.Time
}

// AnalysisReport is a persisted engine run for a dataset. The report body
// is the serialized comprehensive report, stored as jsonb.
type AnalysisReport struct {
	ID               string `gorm:"primarykey"`
	DatasetID        string `gorm:"index;not null"`
	OverallRiskLevel string
	OverallRiskScore float64
	Body             JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
}
