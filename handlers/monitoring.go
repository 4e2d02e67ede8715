package handlers

import (
	"net/http"

	"legal_office_go/middleware"

	"github.com/labstack/echo/v4"
)

// ToggleMonitoringHandler flips the case's monitoring subscription. The
// response carries the resulting state so clients can render it directly.
func ToggleMonitoringHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	record, err := Monitoring.Toggle(c.Request().Context(), firm.ID, c.Param("id"))
	if err != nil {
		if record != nil {
			// the transition failed but the case is in a reportable state
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"monitoring_state": record.MonitoringState,
				"error":            err.Error(),
			})
		}
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"monitoring_state":  record.MonitoringState,
		"monitoring_active": record.MonitoringActive,
	})
}
