package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Firm is the tenant. Every case record, company watch and docket update
// belongs to exactly one firm and is never visible across firms.
type Firm struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Country  string `gorm:"not null;default:BR" json:"country"`
	Timezone string `gorm:"not null;default:America/Sao_Paulo" json:"timezone"`

	// APIKey identifies the firm on service API calls (X-API-Key header)
	APIKey string `gorm:"uniqueIndex;not null" json:"-"`

	NotifyEmail string `json:"notify_email"`

	// Relationships
	Users []User `gorm:"foreignKey:FirmID" json:"-"`
}

// BeforeCreate hook to generate UUID, slug and API key
func (f *Firm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Slug == "" {
		f.Slug = generateSlug(f.Name)
	}
	if f.APIKey == "" {
		f.APIKey = uuid.New().String()
	}
	return nil
}

// generateSlug creates a URL-friendly slug from the firm name
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")

	// Remove special characters (keep only alphanumeric and hyphens)
	reg := regexp.MustCompile(`[^a-z0-9-]+`)
	slug = reg.ReplaceAllString(slug, "")

	if slug == "" {
		slug = uuid.New().String()[:8]
	}
	return slug
}

// TableName specifies the table name for Firm model
func (Firm) TableName() string {
	return "firms"
}
