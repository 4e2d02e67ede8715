package judicial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBrazilTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		expect  time.Time
		wantErr bool
	}{
		{
			name:    "Datetime without timezone",
			input:   `"2024-03-15T10:30:00"`,
			expect:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			wantErr: false,
		},
		{
			name:    "Plain date",
			input:   `"2024-03-15"`,
			expect:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantErr: false,
		},
		{
			name:    "RFC3339 format",
			input:   `"2024-03-15T10:30:00Z"`,
			expect:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			wantErr: false,
		},
		{
			name:    "Null value",
			input:   `null`,
			expect:  time.Time{},
			wantErr: false,
		},
		{
			name:    "Invalid format",
			input:   `"15/03/2024"`,
			wantErr: true,
		},
		{
			name:    "Bare number",
			input:   `5`,
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   `""`,
			wantErr: true,
		},
		{
			name:    "Unquoted value",
			input:   `true`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bt BrazilTime
			err := json.Unmarshal([]byte(tt.input), &bt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if !tt.expect.IsZero() {
					assert.True(t, tt.expect.Equal(bt.Time))
				} else {
					assert.True(t, bt.Time.IsZero())
				}
			}
		})
	}
}

func TestSearchByLawyerRegistration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/busca/oab")
		assert.Equal(t, "123456", r.URL.Query().Get("numero"))
		assert.Equal(t, "SP", r.URL.Query().Get("uf"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"requestId": "req-42",
			"processos": [
				{
					"numeroProcesso": "1234567-89.2024.8.26.0100",
					"tribunal": "TJSP",
					"orgaoJulgador": "1ª Vara Cível",
					"grau": 1,
					"assunto": "Cobrança",
					"parteAtiva": "Empresa A",
					"partePassiva": "Empresa B",
					"partes": [
						{
							"nome": "Empresa A",
							"polo": "ativo",
							"tipoParte": "Autor",
							"advogados": [{"nome": "Dra. Silva", "oab": "123456", "uf": "SP"}]
						}
					]
				}
			]
		}`)
	}))
	defer server.Close()

	svc := NewBrazilService(WithBaseURL(server.URL), WithAPIKey("test-key"))

	summaries, err := svc.SearchByLawyerRegistration(context.Background(), "123456", "SP")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "1234567-89.2024.8.26.0100", s.CaseNumber)
	assert.Equal(t, "TJSP", s.Court)
	assert.Equal(t, "req-42", s.RequestID)
	assert.NotNil(t, s.Instance)
	assert.Equal(t, 1, *s.Instance)
	assert.Len(t, s.Parties, 1)
	assert.Equal(t, "ativo", s.Parties[0].Side)
	assert.Len(t, s.Parties[0].Lawyers, 1)
	assert.Equal(t, "123456", s.Parties[0].Lawyers[0].Registration)
	assert.NotEmpty(t, s.Raw)
}

func TestFetchCaseDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/processos/")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"requestId": "req-43",
			"processo": {
				"numeroProcesso": "1234567-89.2024.8.26.0100",
				"tribunal": "TJSP",
				"valorCausa": 15000.50,
				"dataDistribuicao": "2024-01-10T00:00:00",
				"fase": "Conhecimento",
				"magistrado": "Dr. Souza",
				"movimentacoes": [
					{"data": "2024-02-01T09:00:00", "categoria": "Despacho", "descricao": "Cite-se o réu"},
					{"data": "2024-02-15T14:30:00", "categoria": "Juntada", "descricao": "Contestação apresentada"}
				]
			}
		}`)
	}))
	defer server.Close()

	svc := NewBrazilService(WithBaseURL(server.URL))

	detail, err := svc.FetchCaseDetail(context.Background(), "1234567-89.2024.8.26.0100")
	assert.NoError(t, err)
	assert.NotNil(t, detail)
	assert.Equal(t, "req-43", detail.RequestID)
	assert.NotNil(t, detail.ClaimValue)
	assert.Equal(t, 15000.50, *detail.ClaimValue)
	assert.Equal(t, "Conhecimento", detail.ProceduralPhase)
	assert.Len(t, detail.DocketEntries, 2)
	assert.Equal(t, "Cite-se o réu", detail.DocketEntries[0].Description)
	assert.NotNil(t, detail.DistributionDate)
}

func TestSubscribe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Contains(t, r.URL.Path, "/monitoramentos")

			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, "1234567-89.2024.8.26.0100", payload["numeroProcesso"])

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "track-7", "requestId": "req-44"}`)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		ack, err := svc.Subscribe(context.Background(), "1234567-89.2024.8.26.0100")
		assert.NoError(t, err)
		assert.Equal(t, "track-7", ack.TrackingID)
	})

	t.Run("Provider rejection is not retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message": "número de processo inválido"}`)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		ack, err := svc.Subscribe(context.Background(), "invalid")
		assert.Nil(t, ack)
		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "número de processo inválido")
	})

	t.Run("Server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		_, err := svc.Subscribe(context.Background(), "1234567-89.2024.8.26.0100")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Contains(t, r.URL.Path, "/monitoramentos/track-7")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		assert.NoError(t, svc.Unsubscribe(context.Background(), "track-7"))
	})

	t.Run("Already removed is a no-op", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		assert.NoError(t, svc.Unsubscribe(context.Background(), "gone"))
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "ok", "message": "all systems operational"}`)
		}))
		defer server.Close()

		svc := NewBrazilService(WithBaseURL(server.URL))
		status, err := svc.HealthCheck(context.Background())
		assert.NoError(t, err)
		assert.True(t, status.OK)
	})

	t.Run("Unreachable reports not ok instead of error", func(t *testing.T) {
		svc := NewBrazilService(WithBaseURL("http://127.0.0.1:1"), WithTimeout(200*time.Millisecond))
		status, err := svc.HealthCheck(context.Background())
		assert.NoError(t, err)
		assert.False(t, status.OK)
	})
}
