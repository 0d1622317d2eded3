package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vr-ski/TransactionManager/internal/middleware"
	authpkg "github.com/vr-ski/TransactionManager/pkg/auth"
	"github.com/vr-ski/TransactionManager/pkg/logger"
	"github.com/vr-ski/TransactionManager/pkg/metrics"
)

// RouterDeps collects everything the HTTP surface needs. Throttle, Metrics
// and Gatherer are optional.
type RouterDeps struct {
	Auth        *AuthHandler
	Contractors *ContractorHandler
	Catalog     *CatalogHandler
	Transaction *TransactionHandler
	Health      *HealthHandler

	Tokens   authpkg.TokenValidator
	Throttle *middleware.Throttle
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Log      *logger.Logger
}

// NewRouter registers every route and wraps the mux in the global middleware
// chain.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authed := []func(http.Handler) http.Handler{middleware.Auth(d.Tokens)}
	if d.Throttle != nil {
		authed = append(authed, d.Throttle.Middleware)
	}
	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, authed...)
	}

	mux.HandleFunc("POST /auth/login", d.Auth.Login)
	mux.Handle("GET /me/me", protect(d.Auth.Me))

	mux.Handle("GET /contractors/user/{user_id}", protect(d.Contractors.ListForUser))
	mux.Handle("POST /contractors/user/{user_id}", protect(d.Contractors.Create))
	mux.HandleFunc("GET /contractors/{contractor_id}", d.Contractors.Get)

	mux.HandleFunc("GET /statuses", d.Catalog.ListStatuses)
	mux.HandleFunc("GET /statuses/{$}", d.Catalog.ListStatuses)
	mux.HandleFunc("GET /transaction-types", d.Catalog.ListTypes)
	mux.HandleFunc("GET /transaction-types/{$}", d.Catalog.ListTypes)
	mux.HandleFunc("GET /languages", d.Catalog.ListLanguages)
	mux.HandleFunc("GET /languages/{$}", d.Catalog.ListLanguages)

	mux.Handle("POST /transactions/create", protect(d.Transaction.Create))
	mux.Handle("GET /transactions/recent", protect(d.Transaction.Recent))
	mux.Handle("GET /transactions/contractor/{contractor_id}", protect(d.Contractors.Transactions))
	mux.Handle("PATCH /transactions/{tx_id}", protect(d.Transaction.Update))
	mux.HandleFunc("GET /transactions/{tx_id}", d.Transaction.Detail)

	if d.Health != nil {
		mux.HandleFunc("GET /health", d.Health.Health)
	}
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Metrics reads the matched pattern back from the request, so it has to
	// sit directly on the mux.
	var handler http.Handler = mux
	if d.Metrics != nil {
		handler = middleware.Metrics(d.Metrics)(handler)
	}

	return middleware.Chain(handler,
		middleware.Recovery(d.Log),
		middleware.RequestID,
		middleware.Logging(d.Log),
		middleware.CORS,
	)
}
