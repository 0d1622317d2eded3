package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/service"
)

var fixedTime = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func sampleDetail(id uint64, amount string) *models.TransactionDetail {
	return &models.TransactionDetail{
		TransactionID:  id,
		ContractorFrom: "Acme",
		ContractorTo:   "Globex",
		Amount:         models.Money(decimal.RequireFromString(amount)),
		TransactionType: models.TypeOption{
			TransactionTypeID: 1,
			Code:              "invoice",
			DisplayName:       "Invoice",
		},
		Status: models.StatusOption{
			StatusID:    1,
			Code:        "pending",
			DisplayName: "Pending",
			Color:       "#ffaa00",
		},
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

const validCreateBody = `{"contractor_from_id":1,"contractor_to_id":2,"amount":"50","status_id":1,"transaction_type_id":1}`

func TestTransactionHandler_LoginThenCreate(t *testing.T) {
	srv := newTestServer(t)
	srv.auth.authenticateFunc = func(ctx context.Context, username, password string) (*models.AccessToken, error) {
		if username != "alice" || password != "secret" {
			return nil, service.ErrInvalidCredentials
		}
		token, _, err := srv.tokens.Issue(7)
		if err != nil {
			return nil, err
		}
		return &models.AccessToken{AccessToken: token, TokenType: "bearer"}, nil
	}

	var gotInput service.CreateTransactionInput
	srv.transactions.createFunc = func(ctx context.Context, input service.CreateTransactionInput) (*models.Transaction, error) {
		gotInput = input
		return &models.Transaction{TransactionID: 11, UserID: input.UserID}, nil
	}
	srv.presenter.detailFunc = func(ctx context.Context, id uint64, lang string) (*models.TransactionDetail, error) {
		assert.Equal(t, uint64(11), id)
		assert.Equal(t, "en", lang)
		return sampleDetail(id, "50"), nil
	}

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	req := strings.NewReader(form.Encode())
	loginReq := newFormRequest(t, "/auth/login", req)
	loginRec := srv.serve(loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var token models.AccessToken
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)

	rec := srv.do(t, http.MethodPost, "/transactions/create", validCreateBody, token.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "50.00", body["amount"])
	assert.Equal(t, "Globex", body["contractor_to"])
	assert.Equal(t, "Acme", body["contractor_from"])

	assert.Equal(t, uint64(7), gotInput.UserID)
	assert.Equal(t, uint64(1), gotInput.ContractorFromID)
	assert.Equal(t, uint64(2), gotInput.ContractorToID)
	assert.True(t, gotInput.Amount.Equal(decimal.NewFromInt(50)))
}

func TestTransactionHandler_CreateRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/transactions/create", validCreateBody, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthenticated"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/transactions/create", validCreateBody, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, srv.transactions.createCalls)
}

func TestTransactionHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "missing amount",
			body:      `{"contractor_from_id":1,"contractor_to_id":2,"status_id":1,"transaction_type_id":1}`,
			wantField: "amount",
		},
		{
			name:      "three fraction digits",
			body:      `{"contractor_from_id":1,"contractor_to_id":2,"amount":"1.005","status_id":1,"transaction_type_id":1}`,
			wantField: "amount",
		},
		{
			name:      "negative amount",
			body:      `{"contractor_from_id":1,"contractor_to_id":2,"amount":"-5","status_id":1,"transaction_type_id":1}`,
			wantField: "amount",
		},
		{
			name:      "missing sender",
			body:      `{"contractor_to_id":2,"amount":"5","status_id":1,"transaction_type_id":1}`,
			wantField: "contractor_from_id",
		},
		{
			name:      "missing type",
			body:      `{"contractor_from_id":1,"contractor_to_id":2,"amount":"5","status_id":1}`,
			wantField: "transaction_type_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPost, "/transactions/create", tt.body, srv.token(t, 1))
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body struct {
				Message string            `json:"message"`
				Errors  map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Errors, tt.wantField)
			assert.Zero(t, srv.transactions.createCalls)
		})
	}
}

func TestTransactionHandler_CreateMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/transactions/create", `{"amount":`, srv.token(t, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The request field is invalid")
}

func TestTransactionHandler_CreateServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid sender",
			err:        &service.ValidationError{Kind: service.ErrInvalidSender, Message: "Invalid sender contractor."},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid sender contractor."}`,
		},
		{
			name:       "same party",
			err:        &service.ValidationError{Kind: service.ErrSameParty, Message: "Sender and receiver must differ."},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Sender and receiver must differ."}`,
		},
		{
			name:       "unexpected failure",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.transactions.createFunc = func(ctx context.Context, input service.CreateTransactionInput) (*models.Transaction, error) {
				return nil, tt.err
			}

			rec := srv.do(t, http.MethodPost, "/transactions/create", validCreateBody, srv.token(t, 1))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestTransactionHandler_UnexpectedErrorIsLogged(t *testing.T) {
	srv := newTestServer(t)
	srv.transactions.createFunc = func(ctx context.Context, input service.CreateTransactionInput) (*models.Transaction, error) {
		return nil, errors.New("connection reset")
	}

	rec := srv.do(t, http.MethodPost, "/transactions/create", validCreateBody, srv.token(t, 1))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, srv.logs.String(), "connection reset")
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestTransactionHandler_Update(t *testing.T) {
	t.Run("applies status", func(t *testing.T) {
		srv := newTestServer(t)
		srv.transactions.updateFunc = func(ctx context.Context, userID, txID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
			assert.Equal(t, uint64(3), userID)
			assert.Equal(t, uint64(11), txID)
			require.NotNil(t, update.StatusID)
			assert.Equal(t, uint64(2), *update.StatusID)
			return &models.Transaction{TransactionID: txID}, nil
		}
		srv.presenter.detailFunc = func(ctx context.Context, id uint64, lang string) (*models.TransactionDetail, error) {
			return sampleDetail(id, "12.5"), nil
		}

		rec := srv.do(t, http.MethodPatch, "/transactions/11", `{"status_id":2}`, srv.token(t, 3))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"amount":"12.50"`)
	})

	t.Run("empty body is an empty update", func(t *testing.T) {
		srv := newTestServer(t)
		srv.transactions.updateFunc = func(ctx context.Context, userID, txID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
			assert.True(t, update.IsEmpty())
			return &models.Transaction{TransactionID: txID}, nil
		}
		srv.presenter.detailFunc = func(ctx context.Context, id uint64, lang string) (*models.TransactionDetail, error) {
			return sampleDetail(id, "1"), nil
		}

		rec := srv.do(t, http.MethodPatch, "/transactions/11", `{"status_id":null}`, srv.token(t, 3))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbidden looks like not found", func(t *testing.T) {
		srv := newTestServer(t)
		srv.transactions.updateFunc = func(ctx context.Context, userID, txID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
			return nil, &service.ValidationError{Kind: service.ErrForbidden, Message: "forbidden"}
		}

		rec := srv.do(t, http.MethodPatch, "/transactions/11", `{"status_id":2}`, srv.token(t, 3))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Transaction not found."}`, rec.Body.String())
	})

	t.Run("missing transaction", func(t *testing.T) {
		srv := newTestServer(t)
		srv.transactions.updateFunc = func(ctx context.Context, userID, txID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
			return nil, &service.ValidationError{Kind: service.ErrTransactionNotFound, Message: "Transaction not found."}
		}

		rec := srv.do(t, http.MethodPatch, "/transactions/404", `{"status_id":2}`, srv.token(t, 3))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Transaction not found."}`, rec.Body.String())
	})

	t.Run("invalid status", func(t *testing.T) {
		srv := newTestServer(t)
		srv.transactions.updateFunc = func(ctx context.Context, userID, txID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
			return nil, &service.ValidationError{Kind: service.ErrInvalidStatus, Message: "Invalid status."}
		}

		rec := srv.do(t, http.MethodPatch, "/transactions/11", `{"status_id":99}`, srv.token(t, 3))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid status."}`, rec.Body.String())
	})

	t.Run("non numeric id", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPatch, "/transactions/abc", `{"status_id":2}`, srv.token(t, 3))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Zero(t, srv.transactions.updateCalls)
	})

	t.Run("zero status rejected", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPatch, "/transactions/11", `{"status_id":0}`, srv.token(t, 3))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Zero(t, srv.transactions.updateCalls)
	})
}

func TestTransactionHandler_Recent(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
		wantLang  string
	}{
		{name: "defaults", query: "", wantLimit: 50, wantLang: "en"},
		{name: "explicit limit", query: "?limit=5&lang=fa", wantLimit: 5, wantLang: "fa"},
		{name: "capped limit", query: "?limit=5000", wantLimit: 200, wantLang: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.presenter.listRecentFunc = func(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error) {
				assert.Equal(t, uint64(4), userID)
				assert.Equal(t, tt.wantLimit, limit)
				assert.Equal(t, tt.wantLang, lang)
				return []models.TransactionListItem{}, nil
			}

			rec := srv.do(t, http.MethodGet, "/transactions/recent"+tt.query, "", srv.token(t, 4))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
		})
	}
}

func TestTransactionHandler_RecentInvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-3"} {
		t.Run(limit, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodGet, "/transactions/recent?limit="+limit, "", srv.token(t, 4))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), "The limit field is invalid")
		})
	}
}

func TestTransactionHandler_RecentItems(t *testing.T) {
	srv := newTestServer(t)
	srv.presenter.listRecentFunc = func(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error) {
		return []models.TransactionListItem{{
			TransactionID:   9,
			ContractorFrom:  "Acme",
			ContractorTo:    "Globex",
			Amount:          models.Money(decimal.RequireFromString("7.1")),
			TransactionType: "Invoice",
			Status:          models.StatusPresentation{Code: "paid", DisplayName: "Paid", Color: "#00ff00"},
			CreatedAt:       fixedTime,
		}}, nil
	}

	rec := srv.do(t, http.MethodGet, "/transactions/recent", "", srv.token(t, 4))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{
		"transaction_id": 9,
		"contractor_from": "Acme",
		"contractor_to": "Globex",
		"amount": "7.10",
		"transaction_type": "Invoice",
		"status": {"code": "paid", "display_name": "Paid", "color": "#00ff00"},
		"created_at": "2024-03-01T10:30:00Z"
	}]}`, rec.Body.String())
}

func TestTransactionHandler_Detail(t *testing.T) {
	t.Run("found without token", func(t *testing.T) {
		srv := newTestServer(t)
		srv.presenter.detailFunc = func(ctx context.Context, id uint64, lang string) (*models.TransactionDetail, error) {
			assert.Equal(t, "fa", lang)
			return sampleDetail(id, "50"), nil
		}

		rec := srv.do(t, http.MethodGet, "/transactions/11?lang=fa", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(11), body["transaction_id"])
		assert.Equal(t, "50.00", body["amount"])
	})

	t.Run("missing", func(t *testing.T) {
		srv := newTestServer(t)
		srv.presenter.detailFunc = func(ctx context.Context, id uint64, lang string) (*models.TransactionDetail, error) {
			return nil, nil
		}

		rec := srv.do(t, http.MethodGet, "/transactions/11", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Transaction not found"}`, rec.Body.String())
	})
}
