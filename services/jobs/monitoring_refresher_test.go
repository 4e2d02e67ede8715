package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type refresherMockProvider struct {
	mock.Mock
}

func (m *refresherMockProvider) SearchByLawyerRegistration(ctx context.Context, number string, uf string) ([]judicial.CaseSummary, error) {
	args := m.Called(ctx, number, uf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]judicial.CaseSummary), args.Error(1)
}

func (m *refresherMockProvider) SearchByCompanyID(ctx context.Context, companyID string) ([]judicial.CaseSummary, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]judicial.CaseSummary), args.Error(1)
}

func (m *refresherMockProvider) FetchCaseDetail(ctx context.Context, caseNumber string) (*judicial.CaseDetail, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.CaseDetail), args.Error(1)
}

func (m *refresherMockProvider) Subscribe(ctx context.Context, caseNumber string) (*judicial.SubscriptionAck, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.SubscriptionAck), args.Error(1)
}

func (m *refresherMockProvider) Unsubscribe(ctx context.Context, trackingID string) error {
	return m.Called(ctx, trackingID).Error(0)
}

func (m *refresherMockProvider) HealthCheck(ctx context.Context) (*judicial.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judicial.HealthStatus), args.Error(1)
}

func setupJobTestDB(t *testing.T, prefix string) *gorm.DB {
	t.Helper()
	dsn := "file:" + prefix + "_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.CaseRecord{},
		&models.DocketUpdate{},
		&models.CompanyWatch{},
		&models.Notification{},
	))
	return db
}

func TestRefreshMonitoredCases(t *testing.T) {
	db := setupJobTestDB(t, "refresh_cases")

	firm := models.Firm{Name: "Refresh Firm"}
	db.Create(&firm)

	monitored := models.CaseRecord{
		FirmID:           firm.ID,
		CaseNumber:       "1234567-89.2024.8.26.0100",
		Origin:           models.CaseOriginOABSearch,
		MonitoringState:  models.MonitoringMonitored,
		MonitoringActive: true,
	}
	db.Create(&monitored)

	broken := models.CaseRecord{
		FirmID:           firm.ID,
		CaseNumber:       "7654321-98.2023.8.19.0001",
		Origin:           models.CaseOriginOABSearch,
		MonitoringState:  models.MonitoringMonitored,
		MonitoringActive: true,
	}
	db.Create(&broken)

	idle := models.CaseRecord{
		FirmID:     firm.ID,
		CaseNumber: "1111111-22.2022.8.26.0001",
		Origin:     models.CaseOriginManualImport,
	}
	db.Create(&idle)

	prov := new(refresherMockProvider)
	prov.On("FetchCaseDetail", mock.Anything, monitored.CaseNumber).
		Return(&judicial.CaseDetail{
			CaseSummary: judicial.CaseSummary{CaseNumber: monitored.CaseNumber, Court: "TJSP"},
			DocketEntries: []judicial.DocketEntry{
				{OccurredAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), Description: "Conclusos para decisão"},
			},
		}, nil).Once()
	prov.On("FetchCaseDetail", mock.Anything, broken.CaseNumber).
		Return(nil, errors.New("boom")).Once()

	RefreshMonitoredCases(context.Background(), db, prov)

	// idle case was never fetched
	prov.AssertNumberOfCalls(t, "FetchCaseDetail", 2)

	var reloaded models.CaseRecord
	db.First(&reloaded, "id = ?", monitored.ID)
	assert.Equal(t, "TJSP", reloaded.Court)
	assert.Equal(t, 1, reloaded.UnreadUpdateCount)
	assert.NotNil(t, reloaded.LastSyncedAt)

	// the broken case is untouched, not corrupted
	reloaded = models.CaseRecord{} // reset so the previous primary key is not added to the query
	db.First(&reloaded, "id = ?", broken.ID)
	assert.Equal(t, 0, reloaded.UnreadUpdateCount)
	assert.True(t, reloaded.MonitoringActive)
}

func TestRefreshCompanyWatches(t *testing.T) {
	db := setupJobTestDB(t, "refresh_watches")

	firm := models.Firm{Name: "Watch Refresh Firm"}
	db.Create(&firm)
	watch := models.CompanyWatch{FirmID: firm.ID, CompanyID: "12345678000195", Name: "Alfa"}
	db.Create(&watch)

	prov := new(refresherMockProvider)
	prov.On("SearchByCompanyID", mock.Anything, "12345678000195").
		Return([]judicial.CaseSummary{
			{CaseNumber: "2222222-33.2022.8.26.0002", Court: "TJSP"},
		}, nil).Once()

	RefreshCompanyWatches(context.Background(), db, prov)

	var count int64
	db.Model(&models.CaseRecord{}).Where("company_watch_id = ?", watch.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded models.CompanyWatch
	db.First(&reloaded, "id = ?", watch.ID)
	assert.NotNil(t, reloaded.LastCheckedAt)
}
