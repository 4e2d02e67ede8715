package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"legal_office_go/config"
	"legal_office_go/db"
	"legal_office_go/middleware"
	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerMockProvider struct {
	mock.Mock
}

func (m *handlerMockProvider) SearchByLawyerRegistration(ctx context.Context, number string, uf string) ([]judicial.CaseSummary, error) {
	args := m.Called(ctx, number, uf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]judicial.CaseSummary), args.Error(1)
}

func (m *handlerMockProvider) SearchByCompanyID(ctx context.Context, companyID string) ([]judicial.CaseSummary, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]judicial.CaseSummary), args.Error(1)
}

func (m *handlerMockProvider) FetchCaseDetail(ctx context.Context, caseNumber string) (*judicial.CaseDetail, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.CaseDetail), args.Error(1)
}

func (m *handlerMockProvider) Subscribe(ctx context.Context, caseNumber string) (*judicial.SubscriptionAck, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.SubscriptionAck), args.Error(1)
}

func (m *handlerMockProvider) Unsubscribe(ctx context.Context, trackingID string) error {
	return m.Called(ctx, trackingID).Error(0)
}

func (m *handlerMockProvider) HealthCheck(ctx context.Context) (*judicial.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.HealthStatus), args.Error(1)
}

// setupTestDB wires db.DB and the handler services to a fresh in-memory
// database and returns the mock provider behind them.
func setupTestDB(t *testing.T) (*gorm.DB, *handlerMockProvider) {
	t.Helper()
	dsn := "file:handlers_" + uuid.New().String() + "?mode=memory&cache=shared"
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	assert.NoError(t, err)

	assert.NoError(t, testDB.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.CaseRecord{},
		&models.DocketUpdate{},
		&models.CompanyWatch{},
		&models.Notification{},
	))

	db.DB = testDB
	prov := new(handlerMockProvider)
	InitServices(testDB, &config.Config{WebhookToken: "test-token", EmailTestMode: true}, prov)
	return testDB, prov
}

func newTestContext(t *testing.T, method string, target string, body io.Reader, firm *models.Firm) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if firm != nil {
		c.Set(middleware.ContextKeyFirm, firm)
	}
	return c, rec
}
