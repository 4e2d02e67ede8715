package handlers

import (
	"errors"
	"log"
	"net/http"

	"legal_office_go/db"
	"legal_office_go/middleware"
	"legal_office_go/models"
	"legal_office_go/services"
	"legal_office_go/services/judicial"

	"github.com/labstack/echo/v4"
)

// ResolveCaseRequest is the payload for manual case registration
type ResolveCaseRequest struct {
	CaseNumber  string `json:"case_number" validate:"required"`
	FetchDetail bool   `json:"fetch_detail"`
}

// ResolveCaseHandler registers a case number for the firm, merging into the
// existing record when the number was seen before.
func ResolveCaseHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	req := new(ResolveCaseRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	in := services.IncomingCase{CaseNumber: req.CaseNumber, Origin: models.CaseOriginManualImport}
	if req.FetchDetail && Provider != nil {
		detail, err := Provider.FetchCaseDetail(c.Request().Context(), req.CaseNumber)
		switch {
		case err == nil:
			in = services.IncomingFromDetail(*detail, models.CaseOriginManualImport)
		case errors.Is(err, judicial.ErrRejected):
			return serviceError(err)
		default:
			// transient provider trouble: register the bare number anyway
			log.Printf("[WARNING] detail fetch for %s failed, registering bare: %v", req.CaseNumber, err)
		}
	}

	record, action, err := Resolver.Resolve(c.Request().Context(), firm.ID, in)
	if err != nil {
		return serviceError(err)
	}

	status := http.StatusOK
	if action == services.ResolveActionCreated {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]interface{}{
		"action": action,
		"case":   record,
	})
}

// ListCasesHandler returns the firm's cases partitioned by judicial instance
func ListCasesHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	var cases []models.CaseRecord
	if err := db.DB.Where("firm_id = ?", firm.ID).Find(&cases).Error; err != nil {
		return serviceError(err)
	}

	groups := services.GroupByInstance(cases)
	return c.JSON(http.StatusOK, groups)
}

// GetCaseHandler returns one case with its docket updates
func GetCaseHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	var record models.CaseRecord
	err := db.DB.Preload("DocketUpdates").
		Where("id = ? AND firm_id = ?", c.Param("id"), firm.ID).
		First(&record).Error
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteCaseHandler unlinks a case from the firm's list. Refused while
// monitoring is still active.
func DeleteCaseHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Monitoring.RemoveCase(c.Request().Context(), firm.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCaseUpdatesHandler returns the case's docket updates, newest first
func ListCaseUpdatesHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	updates, err := Docket.ListForCase(c.Request().Context(), firm.ID, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, updates)
}

// MarkUpdateReadHandler flags one docket update as read
func MarkUpdateReadHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Docket.MarkRead(c.Request().Context(), firm.ID, c.Param("updateId")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllUpdatesReadHandler flags every unread update on the case as read
func MarkAllUpdatesReadHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Docket.MarkAllRead(c.Request().Context(), firm.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
