package services

import (
	"errors"
	"log"
	"os"

	"legal_office_go/models"

	"gorm.io/gorm"
)

// SeedFirmFromEnv bootstraps the first firm from SEED_FIRM_NAME /
// SEED_FIRM_EMAIL. There is no signup surface in the API, so a fresh
// deployment needs at least one firm with an API key to be usable. A no-op
// when the variables are unset or the firm already exists.
func SeedFirmFromEnv(db *gorm.DB) error {
	name := os.Getenv("SEED_FIRM_NAME")
	email := os.Getenv("SEED_FIRM_EMAIL")
	if name == "" {
		return nil
	}

	var existing models.Firm
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	firm := models.Firm{
		Name:        name,
		NotifyEmail: email,
	}
	if err := db.Create(&firm).Error; err != nil {
		return err
	}

	log.Printf("[SEED] firm %q created, API key: %s", firm.Name, firm.APIKey)
	return nil
}
