package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"gorm.io/gorm"
)

// DocketService ingests docket entries (andamentos) for a case and keeps the
// case's unread counter consistent with the stored rows. Both ingestion paths
// (provider webhook and the scheduled pull refresher) go through Ingest, so
// the same entry arriving twice is stored once.
type DocketService struct {
	db *gorm.DB
}

func NewDocketService(db *gorm.DB) *DocketService {
	return &DocketService{db: db}
}

// Ingest stores the entries not yet seen for the case and returns how many
// were new. A notification is created per new entry and the case's
// last_synced_at is stamped even when everything was a duplicate.
func (s *DocketService) Ingest(ctx context.Context, caseRecordID string, entries []judicial.DocketEntry) (int, error) {
	var record models.CaseRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", caseRecordID).Error; err != nil {
		return 0, fmt.Errorf("failed to load case %s: %w", caseRecordID, err)
	}

	created := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		normalized := NormalizeDocketDescription(entry.Description)
		if normalized == "" {
			log.Printf("[DOCKET] skipping empty entry for case %s at %s", record.CaseNumber, entry.OccurredAt)
			continue
		}

		update := models.DocketUpdate{
			CaseRecordID:          record.ID,
			OccurredAt:            entry.OccurredAt.UTC(),
			NormalizedDescription: normalized,
			Category:              entry.Category,
			Description:           strings.TrimSpace(entry.Description),
		}

		err := s.db.WithContext(ctx).Create(&update).Error
		if err != nil {
			if isUniqueViolation(err) {
				continue // already ingested, by webhook or pull
			}
			return created, fmt.Errorf("failed to store docket update: %w", err)
		}
		created++

		s.notifyFirm(ctx, &record, &update)
	}

	now := time.Now()
	values := map[string]interface{}{"last_synced_at": &now}
	if created > 0 {
		count, err := s.countUnread(ctx, record.ID)
		if err != nil {
			return created, err
		}
		values["unread_update_count"] = count
	}
	if err := s.db.WithContext(ctx).Model(&record).Updates(values).Error; err != nil {
		return created, fmt.Errorf("failed to update case counters: %w", err)
	}

	if created > 0 {
		log.Printf("[DOCKET] case %s: %d new update(s), %d duplicate(s)", record.CaseNumber, created, len(entries)-created)
	}
	return created, nil
}

// MarkRead flags one update as read and recomputes the case counter.
func (s *DocketService) MarkRead(ctx context.Context, firmID string, updateID string) error {
	var update models.DocketUpdate
	err := s.db.WithContext(ctx).
		Joins("JOIN case_records ON case_records.id = docket_updates.case_record_id").
		Where("docket_updates.id = ? AND case_records.firm_id = ?", updateID, firmID).
		First(&update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantMismatch
		}
		return err
	}
	if update.Read {
		return nil
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"read":    true,
		"read_at": &now,
	}).Error; err != nil {
		return fmt.Errorf("failed to mark update read: %w", err)
	}
	return s.refreshUnreadCount(ctx, update.CaseRecordID)
}

// MarkAllRead flags every unread update on the case as read.
func (s *DocketService) MarkAllRead(ctx context.Context, firmID string, caseRecordID string) error {
	var record models.CaseRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", caseRecordID).Error; err != nil {
		return err
	}
	if record.FirmID != firmID {
		return ErrTenantMismatch
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.DocketUpdate{}).
		Where("case_record_id = ? AND read = ?", caseRecordID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
	if err != nil {
		return fmt.Errorf("failed to mark updates read: %w", err)
	}
	return s.refreshUnreadCount(ctx, caseRecordID)
}

// ListForCase returns the case's updates, newest first.
func (s *DocketService) ListForCase(ctx context.Context, firmID string, caseRecordID string) ([]models.DocketUpdate, error) {
	var record models.CaseRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", caseRecordID).Error; err != nil {
		return nil, err
	}
	if record.FirmID != firmID {
		return nil, ErrTenantMismatch
	}

	var updates []models.DocketUpdate
	err := s.db.WithContext(ctx).
		Where("case_record_id = ?", caseRecordID).
		Order("occurred_at DESC, created_at DESC").
		Find(&updates).Error
	return updates, err
}

func (s *DocketService) countUnread(ctx context.Context, caseRecordID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DocketUpdate{}).
		Where("case_record_id = ? AND read = ?", caseRecordID, false).
		Count(&count).Error
	return count, err
}

// refreshUnreadCount recomputes the counter from the stored rows. The counter
// is derived state, never incremented in place.
func (s *DocketService) refreshUnreadCount(ctx context.Context, caseRecordID string) error {
	count, err := s.countUnread(ctx, caseRecordID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.CaseRecord{}).
		Where("id = ?", caseRecordID).
		Update("unread_update_count", count).Error
}

func (s *DocketService) notifyFirm(ctx context.Context, record *models.CaseRecord, update *models.DocketUpdate) {
	title := "Nova movimentação"
	if update.Category != "" {
		title = fmt.Sprintf("Nova movimentação: %s", update.Category)
	}
	notification := models.Notification{
		FirmID:         record.FirmID,
		CaseRecordID:   &record.ID,
		DocketUpdateID: &update.ID,
		Type:           models.NotificationTypeDocketUpdate,
		Title:          title,
		Message:        fmt.Sprintf("%s — %s", record.CaseNumber, update.Description),
		LinkURL:        fmt.Sprintf("/cases/%s", record.ID),
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("[WARNING] failed to create notification for case %s: %v", record.CaseNumber, err)
	}
}

// NormalizeDocketDescription trims, collapses internal whitespace, and
// lowercases a description so equivalent texts compare equal.
func NormalizeDocketDescription(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}
