package handler

import (
	"net/http"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/service"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

type ContractorHandler struct {
	contractorService service.ContractorService
	presenter         service.Presenter
	validator         *helpers.CustomValidator
	log               *logger.Logger
}

func NewContractorHandler(contractorService service.ContractorService, presenter service.Presenter, v *helpers.CustomValidator, log *logger.Logger) *ContractorHandler {
	return &ContractorHandler{
		contractorService: contractorService,
		presenter:         presenter,
		validator:         v,
		log:               log,
	}
}

type createContractorRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// ListForUser handles GET /contractors/user/{user_id}. The authenticated user
// is listed; the path id is not trusted.
func (h *ContractorHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contractors, err := h.contractorService.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, contractors)
}

// Create handles POST /contractors/user/{user_id}
func (h *ContractorHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req createContractorRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBadPayload(w, r)
		return
	}
	if !validateRequest(w, r, h.validator, &req) {
		return
	}

	contractor, err := h.contractorService.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, contractor)
}

// Get handles GET /contractors/{contractor_id}
func (h *ContractorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "contractor_id")
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrContractorNotFound.Error())
		return
	}

	contractor, err := h.contractorService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, contractor)
}

// Transactions handles GET /transactions/contractor/{contractor_id}
func (h *ContractorHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(r, "contractor_id")
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrContractorNotFound.Error())
		return
	}

	items, err := h.presenter.ListForContractor(r.Context(), userID, id, requestLang(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.TransactionList{Items: items})
}
