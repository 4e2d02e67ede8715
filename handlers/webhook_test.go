package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"legal_office_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestDocketWebhookHandler(t *testing.T) {
	db, _ := setupTestDB(t)
	firm := models.Firm{Name: "Webhook Firm"}
	db.Create(&firm)

	trackingID := "track-webhook-1"
	record := models.CaseRecord{
		FirmID:             firm.ID,
		CaseNumber:         "1234567-89.2024.8.26.0100",
		Origin:             models.CaseOriginOABSearch,
		MonitoringState:    models.MonitoringMonitored,
		MonitoringActive:   true,
		ExternalTrackingID: &trackingID,
	}
	db.Create(&record)

	payload := `{
		"trackingId": "track-webhook-1",
		"numeroProcesso": "1234567-89.2024.8.26.0100",
		"movimentacoes": [
			{"data": "2024-03-05T10:00:00", "categoria": "Despacho", "descricao": "Despacho de mero expediente"},
			{"data": "2024-03-06T10:00:00", "descricao": "Juntada de petição"}
		]
	}`

	withToken := func(c echo.Context) {
		c.Request().Header.Set("X-Webhook-Token", "test-token")
	}

	t.Run("Ingests pushed entries", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(payload), nil)
		withToken(c)

		assert.NoError(t, DocketWebhookHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(2), body["ingested"])

		var reloaded models.CaseRecord
		db.First(&reloaded, "id = ?", record.ID)
		assert.Equal(t, 2, reloaded.UnreadUpdateCount)
	})

	t.Run("Replayed delivery ingests nothing", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(payload), nil)
		withToken(c)

		assert.NoError(t, DocketWebhookHandler(c))

		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(0), body["ingested"])
	})

	t.Run("Unknown tracking id acknowledged and dropped", func(t *testing.T) {
		unknown := strings.Replace(payload, "track-webhook-1", "track-nobody", 1)
		c, rec := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(unknown), nil)
		withToken(c)

		assert.NoError(t, DocketWebhookHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		db.Model(&models.DocketUpdate{}).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Bad token rejected", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(payload), nil)
		c.Request().Header.Set("X-Webhook-Token", "wrong")

		err := DocketWebhookHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("Empty batch fails validation", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/webhooks/docket-updates",
			strings.NewReader(`{"trackingId":"track-webhook-1","movimentacoes":[]}`), nil)
		withToken(c)

		err := DocketWebhookHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Malformed date value rejected", func(t *testing.T) {
		malformed := `{
			"trackingId": "track-webhook-1",
			"movimentacoes": [{"data": 5, "descricao": "Juntada"}]
		}`
		c, _ := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(malformed), nil)
		withToken(c)

		err := DocketWebhookHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestDocketWebhookHandler_LookupFailure(t *testing.T) {
	db, _ := setupTestDB(t)

	// A broken schema makes the lookup fail with something other than a
	// missing record; that must not be acknowledged as ingested
	assert.NoError(t, db.Migrator().DropTable(&models.CaseRecord{}))

	payload := `{
		"trackingId": "track-webhook-1",
		"movimentacoes": [{"data": "2024-03-05T10:00:00", "descricao": "Juntada"}]
	}`
	c, _ := newTestContext(t, http.MethodPost, "/webhooks/docket-updates", strings.NewReader(payload), nil)
	c.Request().Header.Set("X-Webhook-Token", "test-token")

	err := DocketWebhookHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
