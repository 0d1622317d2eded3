package handler

import (
	"net/http"

	"github.com/vr-ski/TransactionManager/internal/service"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	log            *logger.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// ListStatuses handles GET /statuses/?lang=
func (h *CatalogHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogService.ListStatuses(r.Context(), requestLang(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// ListTypes handles GET /transaction-types/?lang=
func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogService.ListTypes(r.Context(), requestLang(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// ListLanguages handles GET /languages/
func (h *CatalogHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.catalogService.ListLanguages(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}
