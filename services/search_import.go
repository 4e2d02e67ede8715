package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"gorm.io/gorm"
)

// SearchImportResult contains the summary of a provider search import
type SearchImportResult struct {
	TotalFound     int
	CreatedCount   int
	MergedCount    int
	UnchangedCount int
	FailedCount    int
	Errors         []string
}

var (
	oabNumberRe = regexp.MustCompile(`^\d{1,6}$`)
	ufRe        = regexp.MustCompile(`^[A-Z]{2}$`)
	cnpjRe      = regexp.MustCompile(`^\d{14}$`)
)

// SearchService runs provider searches (OAB registration, company CNPJ) and
// funnels every returned case through the resolver, so repeated searches
// merge instead of duplicating.
type SearchService struct {
	db       *gorm.DB
	provider judicial.Provider
	resolver *CaseResolver
}

func NewSearchService(db *gorm.DB, provider judicial.Provider, resolver *CaseResolver) *SearchService {
	return &SearchService{db: db, provider: provider, resolver: resolver}
}

// ImportByLawyerRegistration searches the provider by OAB number and UF and
// upserts every returned case for the firm.
func (s *SearchService) ImportByLawyerRegistration(ctx context.Context, firmID string, number string, uf string) (*SearchImportResult, error) {
	number = strings.TrimSpace(number)
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if !oabNumberRe.MatchString(number) {
		return nil, fmt.Errorf("%w: OAB number %q", ErrInvalidIdentifier, number)
	}
	if !ufRe.MatchString(uf) {
		return nil, fmt.Errorf("%w: UF %q", ErrInvalidIdentifier, uf)
	}

	summaries, err := s.provider.SearchByLawyerRegistration(ctx, number, uf)
	if err != nil {
		return nil, fmt.Errorf("OAB search failed: %w", err)
	}
	log.Printf("[SEARCH] OAB %s/%s returned %d case(s)", number, uf, len(summaries))

	return s.importSummaries(ctx, firmID, summaries, models.CaseOriginOABSearch, nil)
}

// ImportByCompanyID searches the provider by CNPJ. When watchID is set the
// imported cases are linked to that company watch.
func (s *SearchService) ImportByCompanyID(ctx context.Context, firmID string, companyID string, watchID *string) (*SearchImportResult, error) {
	companyID = digitsOnly(companyID)
	if !cnpjRe.MatchString(companyID) {
		return nil, fmt.Errorf("%w: CNPJ %q", ErrInvalidIdentifier, companyID)
	}

	summaries, err := s.provider.SearchByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("CNPJ search failed: %w", err)
	}
	log.Printf("[SEARCH] CNPJ %s returned %d case(s)", companyID, len(summaries))

	origin := models.CaseOriginOABSearch
	if watchID != nil {
		origin = models.CaseOriginCompanyWatch
	}
	return s.importSummaries(ctx, firmID, summaries, origin, watchID)
}

// importSummaries resolves each summary independently. A failed row is
// recorded and does not stop the batch; a cancelled context stops the batch
// but keeps what was already committed.
func (s *SearchService) importSummaries(ctx context.Context, firmID string, summaries []judicial.CaseSummary, origin string, watchID *string) (*SearchImportResult, error) {
	result := &SearchImportResult{TotalFound: len(summaries)}

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		in := IncomingFromSummary(summary, origin)
		in.CompanyWatchID = watchID

		_, action, err := s.resolver.Resolve(ctx, firmID, in)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", summary.CaseNumber, err))
			log.Printf("[WARNING] search import: case %s failed: %v", summary.CaseNumber, err)
			continue
		}

		switch action {
		case ResolveActionCreated:
			result.CreatedCount++
		case ResolveActionMerged:
			result.MergedCount++
		default:
			result.UnchangedCount++
		}
	}

	return result, nil
}

var nonDigitRe = regexp.MustCompile(`\D`)

func digitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}
