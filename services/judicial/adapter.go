package judicial

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider errors. Callers branch on these with errors.Is: Unavailable is
// transient and retryable with backoff, Rejected is a definitive provider
// answer and must not be retried.
var (
	ErrUnavailable = errors.New("judicial provider unavailable")
	ErrRejected    = errors.New("judicial provider rejected the request")
)

// DefaultTimeout matches the provider's observed worst-case latency
const DefaultTimeout = 60 * time.Second

// Provider defines the interface for external judicial search/monitoring APIs
type Provider interface {
	// SearchByLawyerRegistration returns case summaries associated with an
	// OAB registration number in a given state
	SearchByLawyerRegistration(ctx context.Context, number string, uf string) ([]CaseSummary, error)

	// SearchByCompanyID returns case summaries where the company (CNPJ)
	// appears as a party
	SearchByCompanyID(ctx context.Context, companyID string) ([]CaseSummary, error)

	// FetchCaseDetail returns the full detail payload for a case number,
	// including parties and docket history
	FetchCaseDetail(ctx context.Context, caseNumber string) (*CaseDetail, error)

	// Subscribe starts continuous monitoring for a case number
	Subscribe(ctx context.Context, caseNumber string) (*SubscriptionAck, error)

	// Unsubscribe stops monitoring for a tracking id
	Unsubscribe(ctx context.Context, trackingID string) error

	// HealthCheck reports whether the provider is reachable
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}

// RawParty is a party as reported by the provider, before normalization.
// Field presence varies wildly between sources; everything is optional.
type RawParty struct {
	Name       string      `json:"name"`
	Side       string      `json:"side,omitempty"`        // polo: "ativo"/"passivo" when the provider reports it
	Role       string      `json:"role,omitempty"`        // free-text procedural role (autor, réu, exequente...)
	PersonType string      `json:"person_type,omitempty"` // free-text person/participation type
	Document   string      `json:"document,omitempty"`    // CPF/CNPJ when present
	Lawyers    []RawLawyer `json:"lawyers,omitempty"`     // counsel of this party, stays attached to it
}

// RawLawyer is counsel attached to a party
type RawLawyer struct {
	Name           string `json:"name"`
	Registration   string `json:"registration,omitempty"` // OAB number
	RegistrationUF string `json:"registration_uf,omitempty"`
}

// CaseSummary is the unified shape of one search result
type CaseSummary struct {
	CaseNumber   string     // CNJ number as reported (masked or bare)
	Court        string     // Tribunal name
	CourtBranch  string     // Vara / órgão julgador
	Instance     *int       // Degree when the provider reports it, nil otherwise
	ActiveParty  string     // Headline active party
	PassiveParty string     // Headline passive party
	SubjectArea  string
	Parties      []RawParty
	RequestID    string                 // Provider request id, reusable for a no-cost re-query
	Raw          map[string]interface{} // Full provider payload, retained for re-derivation
}

// CaseDetail is the richer payload of a full detail fetch
type CaseDetail struct {
	CaseSummary
	ClaimValue       *float64
	DistributionDate *time.Time
	ProceduralPhase  string
	JudgeName        string
	DocketEntries    []DocketEntry
}

// DocketEntry is one docket movement (andamento) reported by the provider
type DocketEntry struct {
	OccurredAt  time.Time
	Category    string
	Description string
}

// SubscriptionAck is the provider acknowledgement of a monitoring subscription
type SubscriptionAck struct {
	TrackingID string
	RequestID  string
}

// HealthStatus reports provider reachability
type HealthStatus struct {
	OK      bool
	Message string
}

// BaseService provides the shared HTTP client
type BaseService struct {
	client *http.Client
}

// NewBaseService creates a configured base service. A zero timeout falls
// back to DefaultTimeout.
func NewBaseService(timeout time.Duration) BaseService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return BaseService{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// providers holds explicitly registered implementations (tests, future
// country variants). Looked up before the built-in switch.
var providers = map[string]Provider{}

// RegisterProvider registers (or, with nil, removes) a provider for a country code
func RegisterProvider(countryCode string, p Provider) {
	if p == nil {
		delete(providers, countryCode)
		return
	}
	providers[countryCode] = p
}

// GetProvider returns the implementation for a country code
func GetProvider(countryCode string, opts ...Option) (Provider, error) {
	if p, ok := providers[countryCode]; ok {
		return p, nil
	}

	switch strings.ToUpper(countryCode) {
	case "BR", "BRAZIL", "BRASIL":
		return NewBrazilService(opts...), nil
	default:
		return nil, fmt.Errorf("judicial provider not implemented for country: %s", countryCode)
	}
}

// Option configures a built-in provider
type Option func(*providerOptions)

type providerOptions struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// WithBaseURL overrides the provider API base URL
func WithBaseURL(u string) Option {
	return func(o *providerOptions) { o.baseURL = u }
}

// WithAPIKey sets the provider API key
func WithAPIKey(k string) Option {
	return func(o *providerOptions) { o.apiKey = k }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(o *providerOptions) { o.timeout = d }
}
