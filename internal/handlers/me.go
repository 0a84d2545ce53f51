package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

func (h *Handler) requireCaller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := callerAccountID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return id, false
	}
	return id, true
}

// GetMe handles GET /api/v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// GetMyBalance handles GET /api/v1/me/balance
func (h *Handler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
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

// ListMyTransactions handles GET /api/v1/me/transactions
func (h *Handler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
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
