package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vr-ski/TransactionManager/internal/middleware"
	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/service"
	authpkg "github.com/vr-ski/TransactionManager/pkg/auth"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
	"github.com/vr-ski/TransactionManager/pkg/metrics"
)

var errNotImplemented = errors.New("not implemented")

type mockAuthService struct {
	authenticateFunc func(ctx context.Context, username, password string) (*models.AccessToken, error)
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*models.AccessToken, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, username, password)
	}
	return nil, errNotImplemented
}

type mockUserService struct {
	getFunc func(ctx context.Context, userID uint64) (*models.User, error)
}

func (m *mockUserService) Get(ctx context.Context, userID uint64) (*models.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

type mockContractorService struct {
	createFunc      func(ctx context.Context, userID uint64, name string) (*models.Contractor, error)
	listForUserFunc func(ctx context.Context, userID uint64) ([]models.Contractor, error)
	getFunc         func(ctx context.Context, contractorID uint64) (*models.Contractor, error)
}

func (m *mockContractorService) Create(ctx context.Context, userID uint64, name string) (*models.Contractor, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, name)
	}
	return nil, errNotImplemented
}

func (m *mockContractorService) ListForUser(ctx context.Context, userID uint64) ([]models.Contractor, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockContractorService) Get(ctx context.Context, contractorID uint64) (*models.Contractor, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, contractorID)
	}
	return nil, errNotImplemented
}

type mockCatalogService struct {
	listStatusesFunc  func(ctx context.Context, lang string) ([]models.StatusOption, error)
	listTypesFunc     func(ctx context.Context, lang string) ([]models.TypeOption, error)
	listLanguagesFunc func(ctx context.Context) ([]models.Language, error)
}

func (m *mockCatalogService) ListStatuses(ctx context.Context, lang string) ([]models.StatusOption, error) {
	if m.listStatusesFunc != nil {
		return m.listStatusesFunc(ctx, lang)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogService) ListTypes(ctx context.Context, lang string) ([]models.TypeOption, error) {
	if m.listTypesFunc != nil {
		return m.listTypesFunc(ctx, lang)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	if m.listLanguagesFunc != nil {
		return m.listLanguagesFunc(ctx)
	}
	return nil, errNotImplemented
}

type mockTransactionService struct {
	createFunc func(ctx context.Context, input service.CreateTransactionInput) (*models.Transaction, error)
	updateFunc func(ctx context.Context, userID, transactionID uint64, update models.TransactionUpdate) (*models.Transaction, error)

	createCalls int
	updateCalls int
}

func (m *mockTransactionService) Create(ctx context.Context, input service.CreateTransactionInput) (*models.Transaction, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return nil, errNotImplemented
}

func (m *mockTransactionService) Update(ctx context.Context, userID, transactionID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
	m.updateCalls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, transactionID, update)
	}
	return nil, errNotImplemented
}

type mockPresenter struct {
	detailFunc            func(ctx context.Context, transactionID uint64, lang string) (*models.TransactionDetail, error)
	listRecentFunc        func(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error)
	listForContractorFunc func(ctx context.Context, userID, contractorID uint64, lang string) ([]models.TransactionListItem, error)
}

func (m *mockPresenter) Detail(ctx context.Context, transactionID uint64, lang string) (*models.TransactionDetail, error) {
	if m.detailFunc != nil {
		return m.detailFunc(ctx, transactionID, lang)
	}
	return nil, errNotImplemented
}

func (m *mockPresenter) ListRecent(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, userID, limit, lang)
	}
	return nil, errNotImplemented
}

func (m *mockPresenter) ListForContractor(ctx context.Context, userID, contractorID uint64, lang string) ([]models.TransactionListItem, error) {
	if m.listForContractorFunc != nil {
		return m.listForContractorFunc(ctx, userID, contractorID, lang)
	}
	return nil, errNotImplemented
}

// testServer wires the mocks behind the real router, token manager and
// middleware chain
type testServer struct {
	auth         *mockAuthService
	users        *mockUserService
	contractors  *mockContractorService
	catalog      *mockCatalogService
	transactions *mockTransactionService
	presenter    *mockPresenter
	healthChecks []HealthCheck

	tokens   *authpkg.TokenManager
	registry *prometheus.Registry
	logs     *bytes.Buffer
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return &testServer{
		auth:         &mockAuthService{},
		users:        &mockUserService{},
		contractors:  &mockContractorService{},
		catalog:      &mockCatalogService{},
		transactions: &mockTransactionService{},
		presenter:    &mockPresenter{},
		tokens:       authpkg.NewTokenManager("test-secret", time.Hour),
		registry:     prometheus.NewRegistry(),
		logs:         &bytes.Buffer{},
	}
}

func (s *testServer) router() http.Handler {
	if s.handler != nil {
		return s.handler
	}
	log := logger.NewLoggerWithOutput("test", "debug", s.logs)
	v := helpers.NewCustomValidator()

	s.handler = NewRouter(RouterDeps{
		Auth:        NewAuthHandler(s.auth, s.users, v, log),
		Contractors: NewContractorHandler(s.contractors, s.presenter, v, log),
		Catalog:     NewCatalogHandler(s.catalog, log),
		Transaction: NewTransactionHandler(s.transactions, s.presenter, v, log),
		Health:      NewHealthHandler(s.healthChecks...),
		Tokens:      s.tokens,
		Throttle:    middleware.NewThrottle(1000, time.Minute),
		Metrics:     metrics.NewMetrics("test", s.registry),
		Gatherer:    s.registry,
		Log:         log,
	})
	return s.handler
}

func (s *testServer) token(t *testing.T, userID uint64) string {
	t.Helper()
	token, _, err := s.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

// do sends a request through the router. An empty token sends no
// Authorization header.
func (s *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func newFormRequest(t *testing.T, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
