package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyWatch tracks a company identifier (CNPJ) for passive discovery of
// new cases. Discovered cases are created with origin COMPANY_WATCH and keep
// a pointer back to the watch that found them.
type CompanyWatch struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirmID string `gorm:"type:uuid;not null;uniqueIndex:idx_firm_company" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"-"`

	// CompanyID holds the CNPJ as bare digits (14)
	CompanyID string `gorm:"size:14;not null;uniqueIndex:idx_firm_company" json:"company_id"`
	Name      string `json:"name"`

	// The watch carries its own monitoring subscription with the provider
	MonitoringState    string     `gorm:"size:15;not null;default:UNMONITORED" json:"monitoring_state"`
	ExternalTrackingID *string    `json:"external_tracking_id,omitempty"`
	LastCheckedAt      *time.Time `json:"last_checked_at,omitempty"`

	Cases []CaseRecord `gorm:"foreignKey:CompanyWatchID" json:"cases,omitempty"`
}

// BeforeCreate hook to generate UUID
func (w *CompanyWatch) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CompanyWatch model
func (CompanyWatch) TableName() string {
	return "company_watches"
}
