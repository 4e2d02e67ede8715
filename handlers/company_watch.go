package handlers

import (
	"net/http"

	"legal_office_go/middleware"

	"github.com/labstack/echo/v4"
)

// CreateCompanyWatchRequest is the payload for registering a watched company
type CreateCompanyWatchRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	Name      string `json:"name"`
}

// CreateCompanyWatchHandler registers a CNPJ for passive case discovery
func CreateCompanyWatchHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	req := new(CreateCompanyWatchRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	watch, err := Watches.Create(c.Request().Context(), firm.ID, req.CompanyID, req.Name)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, watch)
}

// ListCompanyWatchesHandler returns the firm's watches with their cases
func ListCompanyWatchesHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	watches, err := Watches.List(c.Request().Context(), firm.ID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, watches)
}

// DeleteCompanyWatchHandler removes a watch, keeping its discovered cases
func DeleteCompanyWatchHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Watches.Delete(c.Request().Context(), firm.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
