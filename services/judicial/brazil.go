package judicial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var BrazilBaseURL = "https://api.tribunais.example.com/v1"

// BrazilService implements Provider against the Brazilian tribunal
// aggregation API
type BrazilService struct {
	BaseService
	baseURL string
	apiKey  string
}

// NewBrazilService creates a new instance
func NewBrazilService(opts ...Option) *BrazilService {
	o := providerOptions{baseURL: BrazilBaseURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &BrazilService{
		BaseService: NewBaseService(o.timeout),
		baseURL:     o.baseURL,
		apiKey:      o.apiKey,
	}
}

// BrazilTime handles provider dates reported without timezone
type BrazilTime struct {
	time.Time
}

func (bt *BrazilTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	// Anything but a quoted string is a malformed payload, not a crash
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date value: %s", s)
	}
	s = s[1 : len(s)-1] // Remove quotes

	// Most endpoints use 2006-01-02T15:04:05
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err == nil {
		bt.Time = t
		return nil
	}

	// Some older endpoints report plain dates
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		bt.Time = t
		return nil
	}

	// Try standard RFC3339 just in case
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		bt.Time = t
		return nil
	}

	return err
}

// === Brazil Internal Structs ===

type brSearchResponse struct {
	RequestID string      `json:"requestId"`
	Processos []brProcess `json:"processos"`
}

type brProcess struct {
	NumeroProcesso   string       `json:"numeroProcesso"`
	Tribunal         string       `json:"tribunal"`
	OrgaoJulgador    string       `json:"orgaoJulgador"`
	Grau             *int         `json:"grau"`
	Assunto          string       `json:"assunto"`
	ParteAtiva       string       `json:"parteAtiva"`
	PartePassiva     string       `json:"partePassiva"`
	ValorCausa       *float64     `json:"valorCausa"`
	DataDistribuicao *BrazilTime  `json:"dataDistribuicao"`
	Fase             string       `json:"fase"`
	Magistrado       string       `json:"magistrado"`
	Partes           []brParty    `json:"partes"`
	Movimentacoes    []brMovement `json:"movimentacoes"`
}

type brParty struct {
	Nome       string     `json:"nome"`
	Polo       string     `json:"polo"`
	TipoParte  string     `json:"tipoParte"`
	TipoPessoa string     `json:"tipoPessoa"`
	Documento  string     `json:"documento"`
	Advogados  []brLawyer `json:"advogados"`
}

type brLawyer struct {
	Nome string `json:"nome"`
	OAB  string `json:"oab"`
	UF   string `json:"uf"`
}

type brMovement struct {
	Data      *BrazilTime `json:"data"`
	Categoria string      `json:"categoria"`
	Descricao string      `json:"descricao"`
}

type brErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// SearchByLawyerRegistration implements Provider
func (s *BrazilService) SearchByLawyerRegistration(ctx context.Context, number string, uf string) ([]CaseSummary, error) {
	params := url.Values{}
	params.Add("numero", number)
	params.Add("uf", uf)

	body, err := s.get(ctx, fmt.Sprintf("%s/busca/oab?%s", s.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	return s.decodeSearch(body)
}

// SearchByCompanyID implements Provider
func (s *BrazilService) SearchByCompanyID(ctx context.Context, companyID string) ([]CaseSummary, error) {
	params := url.Values{}
	params.Add("documento", companyID)

	body, err := s.get(ctx, fmt.Sprintf("%s/busca/cnpj?%s", s.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	return s.decodeSearch(body)
}

// FetchCaseDetail implements Provider
func (s *BrazilService) FetchCaseDetail(ctx context.Context, caseNumber string) (*CaseDetail, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/processos/%s", s.baseURL, url.PathEscape(caseNumber)))
	if err != nil {
		return nil, err
	}

	var resp struct {
		RequestID string    `json:"requestId"`
		Processo  brProcess `json:"processo"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	detail := toCaseDetail(resp.Processo, resp.RequestID, rawPayload(body))
	return &detail, nil
}

// Subscribe implements Provider
func (s *BrazilService) Subscribe(ctx context.Context, caseNumber string) (*SubscriptionAck, error) {
	payload, _ := json.Marshal(map[string]string{"numeroProcesso": caseNumber})

	body, err := s.post(ctx, fmt.Sprintf("%s/monitoramentos", s.baseURL), payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID        string `json:"id"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: subscription response missing id", ErrRejected)
	}

	return &SubscriptionAck{TrackingID: resp.ID, RequestID: resp.RequestID}, nil
}

// Unsubscribe implements Provider
func (s *BrazilService) Unsubscribe(ctx context.Context, trackingID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/monitoramentos/%s", s.baseURL, url.PathEscape(trackingID)), nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Deleting an already-removed subscription is fine
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return s.checkStatus(resp)
}

// HealthCheck implements Provider
func (s *BrazilService) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/status", s.baseURL))
	if err != nil {
		return &HealthStatus{OK: false, Message: err.Error()}, nil
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return &HealthStatus{OK: false, Message: "unparseable status response"}, nil
	}

	return &HealthStatus{OK: resp.Status == "ok", Message: resp.Message}, nil
}

// === helpers ===

func (s *BrazilService) setHeaders(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

func (s *BrazilService) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := s.checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (s *BrazilService) post(ctx context.Context, reqURL string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := s.checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// checkStatus maps HTTP status to the provider error taxonomy: 4xx is a
// definitive rejection, everything else non-2xx is transient.
func (s *BrazilService) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var e brErrorResponse
		if body, err := io.ReadAll(resp.Body); err == nil {
			_ = json.Unmarshal(body, &e)
		}
		if e.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, e.Message)
		}
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
}

func (s *BrazilService) decodeSearch(body []byte) ([]CaseSummary, error) {
	var resp brSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	summaries := make([]CaseSummary, 0, len(resp.Processos))
	for _, p := range resp.Processos {
		summaries = append(summaries, toCaseSummary(p, resp.RequestID, processRaw(p)))
	}
	return summaries, nil
}

// rawPayload keeps the full response body as a generic map for re-derivation
func rawPayload(body []byte) map[string]interface{} {
	raw := map[string]interface{}{}
	_ = json.Unmarshal(body, &raw)
	return raw
}

// processRaw re-serializes one process entry into a generic map
func processRaw(p brProcess) map[string]interface{} {
	b, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return rawPayload(b)
}

func toCaseSummary(p brProcess, requestID string, raw map[string]interface{}) CaseSummary {
	parties := make([]RawParty, 0, len(p.Partes))
	for _, pt := range p.Partes {
		lawyers := make([]RawLawyer, 0, len(pt.Advogados))
		for _, adv := range pt.Advogados {
			lawyers = append(lawyers, RawLawyer{
				Name:           adv.Nome,
				Registration:   adv.OAB,
				RegistrationUF: adv.UF,
			})
		}
		parties = append(parties, RawParty{
			Name:       pt.Nome,
			Side:       pt.Polo,
			Role:       pt.TipoParte,
			PersonType: pt.TipoPessoa,
			Document:   pt.Documento,
			Lawyers:    lawyers,
		})
	}

	return CaseSummary{
		CaseNumber:   p.NumeroProcesso,
		Court:        p.Tribunal,
		CourtBranch:  p.OrgaoJulgador,
		Instance:     p.Grau,
		ActiveParty:  p.ParteAtiva,
		PassiveParty: p.PartePassiva,
		SubjectArea:  p.Assunto,
		Parties:      parties,
		RequestID:    requestID,
		Raw:          raw,
	}
}

func toCaseDetail(p brProcess, requestID string, raw map[string]interface{}) CaseDetail {
	detail := CaseDetail{
		CaseSummary:     toCaseSummary(p, requestID, raw),
		ClaimValue:      p.ValorCausa,
		ProceduralPhase: p.Fase,
		JudgeName:       p.Magistrado,
	}
	if p.DataDistribuicao != nil {
		t := p.DataDistribuicao.Time
		detail.DistributionDate = &t
	}

	for _, m := range p.Movimentacoes {
		entry := DocketEntry{
			Category:    m.Categoria,
			Description: m.Descricao,
		}
		if m.Data != nil {
			entry.OccurredAt = m.Data.Time
		}
		detail.DocketEntries = append(detail.DocketEntries, entry)
	}

	return detail
}
