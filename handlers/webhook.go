package handlers

import (
	"errors"
	"log"
	"net/http"

	"legal_office_go/db"
	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// WebhookEntry is one docket entry in the provider's push payload
type WebhookEntry struct {
	OccurredAt  judicial.BrazilTime `json:"data"`
	Category    string              `json:"categoria"`
	Description string              `json:"descricao" validate:"required"`
}

// WebhookPayload is the provider's push notification for a monitored case
type WebhookPayload struct {
	TrackingID string         `json:"trackingId" validate:"required"`
	CaseNumber string         `json:"numeroProcesso"`
	Entries    []WebhookEntry `json:"movimentacoes" validate:"required,min=1,dive"`
}

// DocketWebhookHandler receives pushed docket updates from the provider. The
// case is located by tracking id; payloads for unknown or deactivated
// subscriptions are acknowledged and dropped, so the provider stops retrying.
func DocketWebhookHandler(c echo.Context) error {
	if Cfg.WebhookToken != "" && c.Request().Header.Get("X-Webhook-Token") != Cfg.WebhookToken {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook token")
	}

	payload := new(WebhookPayload)
	if err := c.Bind(payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(payload); err != nil {
		return err
	}

	var record models.CaseRecord
	err := db.DB.Where("external_tracking_id = ?", payload.TrackingID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[WEBHOOK] unknown tracking id %s, dropping %d entr(ies)", payload.TrackingID, len(payload.Entries))
		return c.JSON(http.StatusOK, map[string]interface{}{"ingested": 0})
	}
	if err != nil {
		// A failed lookup is not an unknown subscription; let the provider retry
		log.Printf("[WEBHOOK] lookup for tracking id %s failed: %v", payload.TrackingID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	entries := make([]judicial.DocketEntry, 0, len(payload.Entries))
	for _, e := range payload.Entries {
		entries = append(entries, judicial.DocketEntry{
			OccurredAt:  e.OccurredAt.Time,
			Category:    e.Category,
			Description: e.Description,
		})
	}

	ingested, err := Docket.Ingest(c.Request().Context(), record.ID, entries)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ingested": ingested})
}
