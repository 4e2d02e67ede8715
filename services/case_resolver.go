package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"legal_office_go/models"
	"legal_office_go/services/cnj"
	"legal_office_go/services/judicial"

	"gorm.io/gorm"
)

// Resolve actions
const (
	ResolveActionCreated   = "created"
	ResolveActionMerged    = "merged"
	ResolveActionUnchanged = "unchanged"
)

// IncomingCase is one observed case from any ingestion path, before
// resolution against the firm's existing records
type IncomingCase struct {
	CaseNumber string
	Origin     string // OAB_SEARCH, COMPANY_WATCH or MANUAL_IMPORT

	// IsDetail marks a full detail fetch. Detail payloads may overwrite
	// detail-only fields that a search summary must not touch.
	IsDetail bool

	Court        string
	CourtBranch  string
	Instance     *int
	ActiveParty  string
	PassiveParty string
	SubjectArea  string
	JudgeName    string

	Parties          []judicial.RawParty
	ClaimValue       *float64
	DistributionDate *time.Time
	ProceduralPhase  string

	RequestID string
	Raw       map[string]interface{}

	CompanyWatchID *string
}

// IncomingFromSummary builds an IncomingCase from a provider search result
func IncomingFromSummary(s judicial.CaseSummary, origin string) IncomingCase {
	return IncomingCase{
		CaseNumber:   s.CaseNumber,
		Origin:       origin,
		Court:        s.Court,
		CourtBranch:  s.CourtBranch,
		Instance:     s.Instance,
		ActiveParty:  s.ActiveParty,
		PassiveParty: s.PassiveParty,
		SubjectArea:  s.SubjectArea,
		Parties:      s.Parties,
		RequestID:    s.RequestID,
		Raw:          s.Raw,
	}
}

// IncomingFromDetail builds an IncomingCase from a full detail fetch
func IncomingFromDetail(d judicial.CaseDetail, origin string) IncomingCase {
	in := IncomingFromSummary(d.CaseSummary, origin)
	in.IsDetail = true
	in.ClaimValue = d.ClaimValue
	in.DistributionDate = d.DistributionDate
	in.ProceduralPhase = d.ProceduralPhase
	in.JudgeName = d.JudgeName
	return in
}

// CaseResolver decides, for each observed case, whether to create a new
// record or merge into an existing one. Resolution for the same
// (firm, case number) pair is serialized by a per-key lock; the unique index
// on (firm_id, case_number) backstops any race the lock doesn't cover.
type CaseResolver struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCaseResolver creates a resolver over the given database
func NewCaseResolver(db *gorm.DB) *CaseResolver {
	return &CaseResolver{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// Resolve looks up the firm's record for the incoming case number and
// creates, merges or leaves it unchanged per the non-destructive policy.
func (r *CaseResolver) Resolve(ctx context.Context, firmID string, in IncomingCase) (*models.CaseRecord, string, error) {
	if firmID == "" {
		return nil, "", ErrTenantMismatch
	}

	canonical := cnj.Format(in.CaseNumber)
	if canonical == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, in.CaseNumber)
	}

	lock := r.lockFor(firmID + "|" + canonical)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var existing models.CaseRecord
	err := r.db.Where("firm_id = ? AND case_number = ?", firmID, canonical).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to look up case: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record, createErr := r.create(firmID, canonical, in)
		if createErr == nil {
			return record, ResolveActionCreated, nil
		}
		// Unique-index violation means another path won the race between our
		// lookup and insert. Fall through to merge against the winner.
		if findErr := r.db.Where("firm_id = ? AND case_number = ?", firmID, canonical).First(&existing).Error; findErr != nil {
			return nil, "", createErr
		}
	}

	if existing.FirmID != firmID {
		return nil, "", ErrTenantMismatch
	}

	changed := r.merge(&existing, in)
	if !changed {
		return &existing, ResolveActionUnchanged, nil
	}

	if err := r.db.Save(&existing).Error; err != nil {
		return nil, "", fmt.Errorf("failed to save merged case: %w", err)
	}
	return &existing, ResolveActionMerged, nil
}

// lockFor returns the mutex serializing one (firm, case number) pair.
// Entries are never freed, so the map grows with the number of distinct
// case numbers a firm registers; at tens of thousands of cases that is a
// few megabytes and not worth an eviction scheme.
func (r *CaseResolver) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.locks[key] = l
	return l
}

func (r *CaseResolver) create(firmID string, canonical string, in IncomingCase) (*models.CaseRecord, error) {
	classification := cnj.Classify(canonical)

	origin := in.Origin
	if !models.IsValidCaseOrigin(origin) {
		origin = models.CaseOriginManualImport
	}

	record := models.CaseRecord{
		FirmID:            firmID,
		CaseNumber:        canonical,
		Origin:            origin,
		Segment:           classification.Segment,
		CourtCode:         classification.CourtCode,
		Court:             in.Court,
		CourtAbbreviation: classification.CourtAbbreviation(),
		Jurisdiction:      classification.JurisdictionLabel,
		ActiveParty:       in.ActiveParty,
		PassiveParty:      in.PassiveParty,
		SubjectArea:       in.SubjectArea,
		CourtBranch:       in.CourtBranch,
		ProceduralPhase:   in.ProceduralPhase,
		ClaimValue:        in.ClaimValue,
		DistributionDate:  in.DistributionDate,
		CompanyWatchID:    in.CompanyWatchID,
	}

	if in.Court == "" {
		record.Court = classification.SegmentName
	}
	if in.Instance != nil {
		record.Instance = *in.Instance
	}
	if in.JudgeName != "" {
		judge := in.JudgeName
		record.JudgeName = &judge
	}
	if in.RequestID != "" {
		reqID := in.RequestID
		record.LastRequestID = &reqID
	}
	if len(in.Raw) > 0 {
		record.SourceCaptureRaw = models.JSONMap(in.Raw)
	}

	applyNormalizedParties(&record, in.Parties)

	if err := r.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create case record: %w", err)
	}
	return &record, nil
}

// merge applies the non-destructive field policy and reports whether
// anything changed. Summary payloads only fill empty fields; detail payloads
// additionally overwrite the detail-only fields. User-edited fields
// (internal classification, tags, notes) are never touched here.
func (r *CaseResolver) merge(record *models.CaseRecord, in IncomingCase) bool {
	changed := false

	fillString := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(src) != "" {
			*dst = src
			changed = true
		}
	}

	fillString(&record.Court, in.Court)
	fillString(&record.CourtBranch, in.CourtBranch)
	fillString(&record.ActiveParty, in.ActiveParty)
	fillString(&record.PassiveParty, in.PassiveParty)
	fillString(&record.SubjectArea, in.SubjectArea)

	if record.Instance == models.InstanceUnknown && in.Instance != nil && *in.Instance != models.InstanceUnknown {
		record.Instance = *in.Instance
		changed = true
	}
	if record.JudgeName == nil && in.JudgeName != "" {
		judge := in.JudgeName
		record.JudgeName = &judge
		changed = true
	}
	if record.CompanyWatchID == nil && in.CompanyWatchID != nil {
		record.CompanyWatchID = in.CompanyWatchID
		changed = true
	}

	if in.IsDetail {
		// Detail-only fields: the re-fetch is authoritative
		if in.ClaimValue != nil && !floatPtrEqual(record.ClaimValue, in.ClaimValue) {
			record.ClaimValue = in.ClaimValue
			changed = true
		}
		if in.DistributionDate != nil && !timePtrEqual(record.DistributionDate, in.DistributionDate) {
			record.DistributionDate = in.DistributionDate
			changed = true
		}
		if in.ProceduralPhase != "" && record.ProceduralPhase != in.ProceduralPhase {
			record.ProceduralPhase = in.ProceduralPhase
			changed = true
		}
		if len(in.Parties) > 0 {
			applyNormalizedParties(record, in.Parties)
			changed = true
		}
		if len(in.Raw) > 0 {
			record.SourceCaptureRaw = models.JSONMap(in.Raw)
			changed = true
		}
		if in.RequestID != "" {
			reqID := in.RequestID
			record.LastRequestID = &reqID
			changed = true
		}
	} else {
		if record.ProceduralPhase == "" && in.ProceduralPhase != "" {
			record.ProceduralPhase = in.ProceduralPhase
			changed = true
		}
		if len(record.SourceCaptureRaw) == 0 && len(in.Raw) > 0 {
			record.SourceCaptureRaw = models.JSONMap(in.Raw)
			changed = true
		}
		if record.LastRequestID == nil && in.RequestID != "" {
			reqID := in.RequestID
			record.LastRequestID = &reqID
			changed = true
		}
		if len(record.Lawyers) == 0 && len(in.Parties) > 0 {
			applyNormalizedParties(record, in.Parties)
			changed = true
		}
	}

	return changed
}

// applyNormalizedParties runs the party normalizer over the raw payload and
// denormalizes the result onto the record
func applyNormalizedParties(record *models.CaseRecord, parties []judicial.RawParty) {
	if len(parties) == 0 {
		return
	}

	normalized := NormalizeParties(parties)

	if record.ActiveParty == "" && len(normalized.ActiveParties) > 0 {
		record.ActiveParty = normalized.ActiveParties[0].Name
	}
	if record.PassiveParty == "" && len(normalized.PassiveParties) > 0 {
		record.PassiveParty = normalized.PassiveParties[0].Name
	}

	var lawyers []string
	seen := map[string]bool{}
	addLawyer := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			lawyers = append(lawyers, name)
		}
	}
	for _, l := range normalized.Lawyers {
		addLawyer(l.Name)
	}
	for _, bucket := range [][]PartyEntry{normalized.ActiveParties, normalized.PassiveParties, normalized.Others} {
		for _, p := range bucket {
			for _, nested := range p.Lawyers {
				addLawyer(nested.Name)
			}
		}
	}
	if len(lawyers) > 0 {
		record.Lawyers = lawyers
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
