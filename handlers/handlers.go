package handlers

import (
	"errors"
	"net/http"

	"legal_office_go/config"
	"legal_office_go/services"
	"legal_office_go/services/judicial"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Package-level services, wired once at startup. The resolver and the
// monitoring service are stateful (per-key locks), so a single instance
// serves every request.
var (
	Cfg           *config.Config
	Provider      judicial.Provider
	Resolver      *services.CaseResolver
	Monitoring    *services.MonitoringService
	Docket        *services.DocketService
	Search        *services.SearchService
	Watches       *services.CompanyWatchService
	Importer      *services.ImportService
	Notifications *services.NotificationService
)

// InitServices wires the handler package to its dependencies
func InitServices(database *gorm.DB, cfg *config.Config, provider judicial.Provider) {
	Cfg = cfg
	Provider = provider
	Resolver = services.NewCaseResolver(database)
	Monitoring = services.NewMonitoringService(database, provider)
	Docket = services.NewDocketService(database)
	Search = services.NewSearchService(database, provider, Resolver)
	Watches = services.NewCompanyWatchService(database, Search)
	Importer = services.NewImportService(database, Resolver, provider)
	Notifications = services.NewNotificationService(database)
}

// RequestValidator adapts go-playground/validator to echo's Validator
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// serviceError maps service-layer errors onto HTTP status codes
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrTenantMismatch):
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	case errors.Is(err, services.ErrMonitoringActive):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, judicial.ErrRejected):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, judicial.ErrUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "judicial data provider unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
