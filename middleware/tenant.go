package middleware

import (
	"net/http"

	"legal_office_go/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// APIKeyHeader carries the firm's API key on every API request
	APIKeyHeader = "X-API-Key"
	// ContextKeyFirm is the context key for the authenticated firm
	ContextKeyFirm = "firm"
)

// RequireFirm authenticates the request by API key and stores the firm in
// the echo context. Every tenant-scoped route sits behind this.
func RequireFirm(database *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(APIKeyHeader)
			if key == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing API key")
			}

			var firm models.Firm
			if err := database.First(&firm, "api_key = ?", key).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
			}

			c.Set(ContextKeyFirm, &firm)
			return next(c)
		}
	}
}

// FirmFromContext returns the firm set by RequireFirm
func FirmFromContext(c echo.Context) *models.Firm {
	firm, _ := c.Get(ContextKeyFirm).(*models.Firm)
	return firm
}
