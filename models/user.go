package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a firm member targeted by docket-update notifications.
// Authentication itself lives in the surrounding application, not here.
type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"-"`

	Email    string `gorm:"not null;index" json:"email"`
	Name     string `json:"name"`
	Role     string `gorm:"not null;default:lawyer" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// OAB registration used as a search key for case discovery
	BarRegistration   *string `json:"bar_registration,omitempty"`
	BarRegistrationUF *string `gorm:"size:2" json:"bar_registration_uf,omitempty"`

	NotifyDocketUpdates bool `gorm:"not null;default:true" json:"notify_docket_updates"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
