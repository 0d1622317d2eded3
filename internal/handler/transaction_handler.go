package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/service"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

type TransactionHandler struct {
	transactionService service.TransactionService
	presenter          service.Presenter
	validator          *helpers.CustomValidator
	log                *logger.Logger
}

func NewTransactionHandler(transactionService service.TransactionService, presenter service.Presenter, v *helpers.CustomValidator, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		presenter:          presenter,
		validator:          v,
		log:                log,
	}
}

type createTransactionRequest struct {
	ContractorFromID  uint64           `json:"contractor_from_id" validate:"required,gt=0"`
	ContractorToID    uint64           `json:"contractor_to_id" validate:"required,gt=0"`
	Amount            *decimal.Decimal `json:"amount" validate:"required,decimal_amount"`
	StatusID          uint64           `json:"status_id" validate:"required,gt=0"`
	TransactionTypeID uint64           `json:"transaction_type_id" validate:"required,gt=0"`
}

// updateTransactionRequest treats an explicit null like an absent field
type updateTransactionRequest struct {
	StatusID *uint64 `json:"status_id" validate:"omitempty,gt=0"`
}

// Create handles POST /transactions/create
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBadPayload(w, r)
		return
	}
	if !validateRequest(w, r, h.validator, &req) {
		return
	}

	tx, err := h.transactionService.Create(r.Context(), service.CreateTransactionInput{
		UserID:            userID,
		ContractorFromID:  req.ContractorFromID,
		ContractorToID:    req.ContractorToID,
		Amount:            *req.Amount,
		StatusID:          req.StatusID,
		TransactionTypeID: req.TransactionTypeID,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	h.writeDetail(w, r, tx.TransactionID)
}

// Update handles PATCH /transactions/{tx_id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	txID, ok := parseIDParam(r, "tx_id")
	if !ok {
		writeError(w, http.StatusNotFound, transactionNotFoundMessage)
		return
	}

	var req updateTransactionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBadPayload(w, r)
		return
	}
	if !validateRequest(w, r, h.validator, &req) {
		return
	}

	tx, err := h.transactionService.Update(r.Context(), userID, txID, models.TransactionUpdate{StatusID: req.StatusID})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	h.writeDetail(w, r, tx.TransactionID)
}

// Recent handles GET /transactions/recent?limit=&lang=
func (h *TransactionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			locale := requestLocale(r)
			helpers.WriteValidationErrorResponseFromString(w, fmt.Sprintf(helpers.GetLocaleTranslations(locale).Invalid, "limit"), locale)
			return
		}
		limit = min(n, maxRecentLimit)
	}

	items, err := h.presenter.ListRecent(r.Context(), userID, limit, requestLang(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.TransactionList{Items: items})
}

// Detail handles GET /transactions/{tx_id}?lang=
func (h *TransactionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	txID, ok := parseIDParam(r, "tx_id")
	if !ok {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	h.writeDetail(w, r, txID)
}

func (h *TransactionHandler) writeDetail(w http.ResponseWriter, r *http.Request, txID uint64) {
	detail, err := h.presenter.Detail(r.Context(), txID, requestLang(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
