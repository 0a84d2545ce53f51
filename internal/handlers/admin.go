package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/service"
)

func (h *Handler) pathAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeValidationError(w, "invalid account id")
		return uuid.Nil, false
	}
	return accountID, true
}

// AdminListAccounts handles GET /api/v1/admin/accounts
func (h *Handler) AdminListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.admin.ListAccounts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	writeJSON(w, http.StatusOK, accountList{Accounts: accounts})
}

// AdminGetAccount handles GET /api/v1/admin/accounts/{accountId}
func (h *Handler) AdminGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	account, err := h.admin.GetAccount(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// AdminGetBalance handles GET /api/v1/admin/accounts/{accountId}/balance
func (h *Handler) AdminGetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	summary, err := h.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// AdminListAccountTransactions handles GET /api/v1/admin/accounts/{accountId}/transactions
func (h *Handler) AdminListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	query, err := parseTransactionQuery(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	txns, err := h.ledger.ListTransactions(r.Context(), accountID, query)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionList(txns, query.Limit, query.Offset))
}

// AdminRecordTransaction handles POST /api/v1/admin/accounts/{accountId}/transactions
func (h *Handler) AdminRecordTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	var body recordTransactionRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := h.admin.Record(r.Context(), service.RecordRequest{
		AccountID:      accountID,
		Amount:         body.Amount,
		Direction:      body.Direction,
		Status:         body.Status,
		Description:    body.Description,
		Metadata:       body.Metadata,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, recordStatus(result), result)
}

// AdminAdjust handles POST /api/v1/admin/accounts/{accountId}/adjustments
func (h *Handler) AdminAdjust(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	var body adjustmentRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := h.admin.Adjust(r.Context(), service.AdjustmentRequest{
		AccountID:      accountID,
		Kind:           service.AdjustmentKind(body.Kind),
		Amount:         body.Amount,
		Status:         body.Status,
		Description:    body.Description,
		Currency:       body.Currency,
		WalletAddress:  body.WalletAddress,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, recordStatus(result), result)
}

// AdminReconcile handles GET /api/v1/admin/accounts/{accountId}/reconciliation
func (h *Handler) AdminReconcile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathAccountID(w, r)
	if !ok {
		return
	}

	report, err := h.ledger.Reconcile(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// AdminListTransactions handles GET /api/v1/admin/transactions
func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query, err := parseTransactionQuery(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	txns, err := h.admin.ListTransactions(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionList(txns, query.Limit, query.Offset))
}
