package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocketUpdate is a single docket entry (andamento) reported by the external
// monitoring provider for a case. Identity is (case_record_id, occurred_at,
// normalized description): re-ingesting an already-seen entry is a no-op,
// whether it arrives by webhook or by pull fetch.
type DocketUpdate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseRecordID string     `gorm:"type:uuid;not null;uniqueIndex:idx_docket_identity,priority:1" json:"case_record_id"`
	CaseRecord   CaseRecord `gorm:"foreignKey:CaseRecordID" json:"-"`

	OccurredAt time.Time `gorm:"not null;uniqueIndex:idx_docket_identity,priority:2" json:"occurred_at"`

	// NormalizedDescription is the dedup key component: trimmed,
	// whitespace-collapsed, lowercased description.
	NormalizedDescription string `gorm:"not null;uniqueIndex:idx_docket_identity,priority:3" json:"-"`

	Category    string `json:"category,omitempty"`
	Description string `gorm:"type:text;not null" json:"description"`

	Read   bool       `gorm:"not null;default:false;index" json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *DocketUpdate) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DocketUpdate model
func (DocketUpdate) TableName() string {
	return "docket_updates"
}
