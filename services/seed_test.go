package services

import (
	"testing"

	"legal_office_go/models"

	"github.com/stretchr/testify/assert"
)

func TestSeedFirmFromEnv(t *testing.T) {
	db := setupServiceTestDB("seed")

	t.Run("No-op without env", func(t *testing.T) {
		t.Setenv("SEED_FIRM_NAME", "")
		assert.NoError(t, SeedFirmFromEnv(db))

		var count int64
		db.Model(&models.Firm{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Creates the firm once", func(t *testing.T) {
		t.Setenv("SEED_FIRM_NAME", "Escritório Semente")
		t.Setenv("SEED_FIRM_EMAIL", "contato@semente.adv.br")

		assert.NoError(t, SeedFirmFromEnv(db))
		assert.NoError(t, SeedFirmFromEnv(db)) // idempotent

		var firms []models.Firm
		db.Where("name = ?", "Escritório Semente").Find(&firms)
		assert.Len(t, firms, 1)
		assert.NotEmpty(t, firms[0].APIKey)
		assert.Equal(t, "contato@semente.adv.br", firms[0].NotifyEmail)
	})
}
