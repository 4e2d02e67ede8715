package handlers

import (
	"net/http"

	"legal_office_go/db"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports local database health and provider reachability
func HealthHandler(c echo.Context) error {
	status := map[string]interface{}{"status": "ok"}
	code := http.StatusOK

	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	} else {
		status["database"] = "ok"
	}

	if Provider != nil {
		health, err := Provider.HealthCheck(c.Request().Context())
		switch {
		case err != nil:
			status["provider"] = "error: " + err.Error()
		case !health.OK:
			status["provider"] = "unavailable: " + health.Message
		default:
			status["provider"] = "ok"
		}
	}

	return c.JSON(code, status)
}
