package handlers

import (
	"net/http"

	"legal_office_go/middleware"

	"github.com/labstack/echo/v4"
)

// OABSearchRequest is the payload for a lawyer-registration search
type OABSearchRequest struct {
	Number string `json:"number" validate:"required,numeric,max=6"`
	UF     string `json:"uf" validate:"required,len=2,alpha"`
}

// CNPJSearchRequest is the payload for a company-document search
type CNPJSearchRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}

// SearchOABHandler searches the provider by OAB registration and imports
// every returned case for the firm.
func SearchOABHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	req := new(OABSearchRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := Search.ImportByLawyerRegistration(c.Request().Context(), firm.ID, req.Number, req.UF)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchCNPJHandler searches the provider by CNPJ and imports the results
func SearchCNPJHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	req := new(CNPJSearchRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := Search.ImportByCompanyID(c.Request().Context(), firm.ID, req.CompanyID, nil)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, result)
}
