package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case origin constants (which ingestion path created the record)
const (
	CaseOriginOABSearch    = "OAB_SEARCH"
	CaseOriginCompanyWatch = "COMPANY_WATCH"
	CaseOriginManualImport = "MANUAL_IMPORT"
)

// Monitoring lifecycle states
const (
	MonitoringUnmonitored  = "UNMONITORED"
	MonitoringActivating   = "ACTIVATING"
	MonitoringMonitored    = "MONITORED"
	MonitoringDeactivating = "DEACTIVATING"
	MonitoringFailed       = "FAILED"
)

// Court instance (degree). Zero means the provider never reported it.
const (
	InstanceUnknown = 0
	InstanceFirst   = 1
	InstanceSecond  = 2
)

// CaseRecord is a judicial case tracked for a firm. (firm_id, case_number)
// is the natural key: every ingestion path resolves to at most one record.
type CaseRecord struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship
	FirmID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_firm_case_number" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	// Identification. CaseNumber holds the canonical masked CNJ form
	// (NNNNNNN-DD.AAAA.J.TR.OOOO).
	CaseNumber string `gorm:"size:25;not null;uniqueIndex:idx_firm_case_number" json:"case_number"`
	Origin     string `gorm:"size:20;not null" json:"origin"`

	// Classification derived from the case number
	Segment           string `gorm:"size:2" json:"segment"`
	CourtCode         string `gorm:"size:2" json:"court_code"`
	Court             string `json:"court"`
	CourtAbbreviation string `gorm:"size:10" json:"court_abbreviation"`
	Jurisdiction      string `gorm:"size:10" json:"jurisdiction"`
	Instance          int    `gorm:"not null;default:0" json:"instance"`

	// Summary fields from search results
	ActiveParty  string  `json:"active_party"`
	PassiveParty string  `json:"passive_party"`
	SubjectArea  string  `json:"subject_area"`
	CourtBranch  string  `json:"court_branch"` // Vara/órgão julgador
	JudgeName    *string `json:"judge_name,omitempty"`

	// Detail-only fields (filled by the full detail fetch)
	Lawyers          JSONStrings `gorm:"type:text" json:"lawyers"`
	ClaimValue       *float64    `json:"claim_value,omitempty"`
	DistributionDate *time.Time  `json:"distribution_date,omitempty"`
	ProceduralPhase  string      `json:"procedural_phase"`

	// Opaque provider payload retained for re-derivation
	SourceCaptureRaw  JSONMap `gorm:"type:text" json:"source_capture_raw,omitempty"`
	CaptureArchiveKey *string `json:"capture_archive_key,omitempty"`

	// User-edited fields, never overwritten by ingestion
	InternalClassification *string     `json:"internal_classification,omitempty"`
	Tags                   JSONStrings `gorm:"type:text" json:"tags,omitempty"`
	Notes                  *string     `gorm:"type:text" json:"notes,omitempty"`

	// Monitoring subscription
	MonitoringState    string     `gorm:"size:15;not null;default:UNMONITORED" json:"monitoring_state"`
	MonitoringActive   bool       `gorm:"not null;default:false" json:"monitoring_active"`
	ExternalTrackingID *string    `gorm:"index" json:"external_tracking_id,omitempty"`
	LastRequestID      *string    `json:"last_request_id,omitempty"` // Provider request id, reusable for a no-cost re-query
	MonitoringError    *string    `json:"monitoring_error,omitempty"`
	LastSyncedAt       *time.Time `json:"last_synced_at,omitempty"`

	// Unread docket bookkeeping
	UnreadUpdateCount int `gorm:"not null;default:0" json:"unread_update_count"`

	// Display order inside its instance bucket
	DisplayOrder int `gorm:"not null;default:0" json:"display_order"`

	// Company-watch discovery
	CompanyWatchID *string       `gorm:"type:uuid;index" json:"company_watch_id,omitempty"`
	CompanyWatch   *CompanyWatch `gorm:"foreignKey:CompanyWatchID" json:"company_watch,omitempty"`

	// Relationships
	DocketUpdates []DocketUpdate `gorm:"foreignKey:CaseRecordID;constraint:OnDelete:CASCADE" json:"docket_updates,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *CaseRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseRecord model
func (CaseRecord) TableName() string {
	return "case_records"
}

// IsMonitored reports whether the provider acknowledged the subscription
func (c *CaseRecord) IsMonitored() bool {
	return c.MonitoringState == MonitoringMonitored
}

// IsValidMonitoringState checks if the state is one of the lifecycle states
func IsValidMonitoringState(state string) bool {
	switch state {
	case MonitoringUnmonitored, MonitoringActivating, MonitoringMonitored,
		MonitoringDeactivating, MonitoringFailed:
		return true
	}
	return false
}

// IsValidCaseOrigin checks if the origin is a known ingestion path
func IsValidCaseOrigin(origin string) bool {
	return origin == CaseOriginOABSearch || origin == CaseOriginCompanyWatch || origin == CaseOriginManualImport
}
