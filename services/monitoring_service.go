package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"gorm.io/gorm"
)

// activatingGracePeriod bounds how long an ACTIVATING record blocks a retry.
// The provider is eventually consistent, so a fresh activation in flight is a
// valid state; only a stale one (crashed process, lost response) may be
// re-driven.
const activatingGracePeriod = 5 * time.Minute

// MonitoringService drives the subscription lifecycle against the external
// provider: UNMONITORED -> ACTIVATING -> MONITORED -> DEACTIVATING ->
// UNMONITORED, with FAILED as the user-visible, retryable branch. All
// transitions for one case are serialized by a per-case lock.
type MonitoringService struct {
	db       *gorm.DB
	provider judicial.Provider
	timeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMonitoringService creates a monitoring service over the given provider
func NewMonitoringService(db *gorm.DB, provider judicial.Provider) *MonitoringService {
	return &MonitoringService{
		db:       db,
		provider: provider,
		timeout:  judicial.DefaultTimeout,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Activate subscribes the case with the provider. Activating an already
// monitored case is a no-op returning the current record, not an error, so
// duplicate clicks and retried requests never create a second subscription.
func (s *MonitoringService) Activate(ctx context.Context, firmID string, caseID string) (*models.CaseRecord, error) {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.loadCase(firmID, caseID)
	if err != nil {
		return nil, err
	}

	switch record.MonitoringState {
	case models.MonitoringMonitored:
		// Duplicate activation resolved silently
		return record, nil
	case models.MonitoringActivating:
		if time.Since(record.UpdatedAt) < activatingGracePeriod {
			return record, nil
		}
		// Stale ACTIVATING (lost response): drive the transition again
	}

	if err := s.setState(record, models.MonitoringActivating, nil); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ack, err := s.provider.Subscribe(callCtx, record.CaseNumber)
	if err != nil {
		// monitoring_active stays untouched: no optimistic flips
		msg := err.Error()
		record.MonitoringError = &msg
		if stateErr := s.setState(record, models.MonitoringFailed, nil); stateErr != nil {
			log.Printf("[MONITORING] Failed to persist FAILED state for case %s: %v", record.ID, stateErr)
		}
		return record, fmt.Errorf("failed to activate monitoring: %w", err)
	}

	record.MonitoringActive = true
	record.MonitoringError = nil
	if ack.RequestID != "" {
		reqID := ack.RequestID
		record.LastRequestID = &reqID
	}
	if err := s.setState(record, models.MonitoringMonitored, &ack.TrackingID); err != nil {
		return nil, err
	}

	return record, nil
}

// Deactivate unsubscribes the case. Historical docket updates and their
// read/unread flags are retained; only future ingestion stops.
func (s *MonitoringService) Deactivate(ctx context.Context, firmID string, caseID string) (*models.CaseRecord, error) {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.loadCase(firmID, caseID)
	if err != nil {
		return nil, err
	}

	if record.MonitoringState == models.MonitoringUnmonitored {
		return record, nil
	}

	trackingID := ""
	if record.ExternalTrackingID != nil {
		trackingID = *record.ExternalTrackingID
	}

	if err := s.setState(record, models.MonitoringDeactivating, record.ExternalTrackingID); err != nil {
		return nil, err
	}

	if trackingID != "" {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.provider.Unsubscribe(callCtx, trackingID); err != nil {
			// Roll back to MONITORED so the user can retry
			msg := err.Error()
			record.MonitoringError = &msg
			if stateErr := s.setState(record, models.MonitoringMonitored, record.ExternalTrackingID); stateErr != nil {
				log.Printf("[MONITORING] Failed to roll back state for case %s: %v", record.ID, stateErr)
			}
			return record, fmt.Errorf("failed to deactivate monitoring: %w", err)
		}
	}

	record.MonitoringActive = false
	record.MonitoringError = nil
	if err := s.setState(record, models.MonitoringUnmonitored, nil); err != nil {
		return nil, err
	}

	return record, nil
}

// Toggle flips monitoring based on the current state
func (s *MonitoringService) Toggle(ctx context.Context, firmID string, caseID string) (*models.CaseRecord, error) {
	record, err := s.loadCase(firmID, caseID)
	if err != nil {
		return nil, err
	}

	if record.MonitoringState == models.MonitoringMonitored || record.MonitoringState == models.MonitoringActivating {
		return s.Deactivate(ctx, firmID, caseID)
	}
	return s.Activate(ctx, firmID, caseID)
}

// RemoveCase soft-deletes a case record. Removal is refused while the
// provider still holds an acknowledged subscription.
func (s *MonitoringService) RemoveCase(ctx context.Context, firmID string, caseID string) error {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.loadCase(firmID, caseID)
	if err != nil {
		return err
	}

	if record.MonitoringActive {
		return ErrMonitoringActive
	}

	return s.db.Delete(record).Error
}

// lockFor keeps one mutex per case id. The map is never pruned and grows
// with the number of distinct cases ever toggled; that stays small relative
// to the case rows themselves, so no eviction is done.
func (s *MonitoringService) lockFor(caseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[caseID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[caseID] = l
	return l
}

func (s *MonitoringService) loadCase(firmID string, caseID string) (*models.CaseRecord, error) {
	var record models.CaseRecord
	if err := s.db.First(&record, "id = ?", caseID).Error; err != nil {
		return nil, err
	}
	if record.FirmID != firmID {
		return nil, ErrTenantMismatch
	}
	return &record, nil
}

func (s *MonitoringService) setState(record *models.CaseRecord, state string, trackingID *string) error {
	record.MonitoringState = state
	record.ExternalTrackingID = trackingID

	updates := map[string]interface{}{
		"monitoring_state":     record.MonitoringState,
		"external_tracking_id": record.ExternalTrackingID,
		"monitoring_active":    record.MonitoringActive,
		"monitoring_error":     record.MonitoringError,
		"last_request_id":      record.LastRequestID,
	}
	return s.db.Model(&models.CaseRecord{}).Where("id = ?", record.ID).Updates(updates).Error
}
