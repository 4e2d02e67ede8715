package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"legal_office_go/models"

	"gorm.io/gorm"
)

// CompanyWatchService manages watched companies. A watch runs an initial
// discovery when created and is refreshed by the scheduler afterwards; cases
// it finds go through the resolver like any other ingestion path.
type CompanyWatchService struct {
	db     *gorm.DB
	search *SearchService
}

func NewCompanyWatchService(db *gorm.DB, search *SearchService) *CompanyWatchService {
	return &CompanyWatchService{db: db, search: search}
}

// Create registers the watch and runs the first discovery. A discovery
// failure leaves the watch in FAILED state, retryable via Refresh.
func (s *CompanyWatchService) Create(ctx context.Context, firmID string, companyID string, name string) (*models.CompanyWatch, error) {
	companyID = digitsOnly(companyID)
	if !cnpjRe.MatchString(companyID) {
		return nil, fmt.Errorf("%w: CNPJ %q", ErrInvalidIdentifier, companyID)
	}

	watch := models.CompanyWatch{
		FirmID:          firmID,
		CompanyID:       companyID,
		Name:            name,
		MonitoringState: models.MonitoringActivating,
	}
	if err := s.db.WithContext(ctx).Create(&watch).Error; err != nil {
		if isUniqueViolation(err) {
			var existing models.CompanyWatch
			if findErr := s.db.WithContext(ctx).
				Where("firm_id = ? AND company_id = ?", firmID, companyID).
				First(&existing).Error; findErr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create company watch: %w", err)
	}

	if err := s.Refresh(ctx, &watch); err != nil {
		log.Printf("[WARNING] initial discovery for CNPJ %s failed: %v", companyID, err)
	}
	return &watch, nil
}

// Refresh re-runs discovery for the watch and stamps last_checked_at.
func (s *CompanyWatchService) Refresh(ctx context.Context, watch *models.CompanyWatch) error {
	result, err := s.search.ImportByCompanyID(ctx, watch.FirmID, watch.CompanyID, &watch.ID)

	now := time.Now()
	values := map[string]interface{}{"last_checked_at": &now}
	if err != nil {
		values["monitoring_state"] = models.MonitoringFailed
		s.db.WithContext(ctx).Model(watch).Updates(values)
		return err
	}
	values["monitoring_state"] = models.MonitoringMonitored
	if updateErr := s.db.WithContext(ctx).Model(watch).Updates(values).Error; updateErr != nil {
		return updateErr
	}

	if result.CreatedCount > 0 {
		log.Printf("[WATCH] CNPJ %s: %d new case(s) discovered", watch.CompanyID, result.CreatedCount)
	}
	return nil
}

// RefreshAll iterates every active watch. Per-watch failures are isolated.
func (s *CompanyWatchService) RefreshAll(ctx context.Context) error {
	var watches []models.CompanyWatch
	if err := s.db.WithContext(ctx).Find(&watches).Error; err != nil {
		return fmt.Errorf("failed to list company watches: %w", err)
	}

	for i := range watches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Refresh(ctx, &watches[i]); err != nil {
			log.Printf("[WARNING] refresh for CNPJ %s failed: %v", watches[i].CompanyID, err)
		}
	}
	return nil
}

// List returns the firm's watches with their discovered cases.
func (s *CompanyWatchService) List(ctx context.Context, firmID string) ([]models.CompanyWatch, error) {
	var watches []models.CompanyWatch
	err := s.db.WithContext(ctx).
		Preload("Cases").
		Where("firm_id = ?", firmID).
		Order("created_at ASC").
		Find(&watches).Error
	return watches, err
}

// Delete removes the watch. Discovered cases stay; they only lose the link
// to the watch that found them.
func (s *CompanyWatchService) Delete(ctx context.Context, firmID string, watchID string) error {
	var watch models.CompanyWatch
	if err := s.db.WithContext(ctx).First(&watch, "id = ?", watchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantMismatch
		}
		return err
	}
	if watch.FirmID != firmID {
		return ErrTenantMismatch
	}

	if err := s.db.WithContext(ctx).Model(&models.CaseRecord{}).
		Where("company_watch_id = ?", watchID).
		Update("company_watch_id", nil).Error; err != nil {
		return fmt.Errorf("failed to unlink watch cases: %w", err)
	}
	return s.db.WithContext(ctx).Delete(&watch).Error
}
