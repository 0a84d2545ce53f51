package handlers

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/optima-platform/ledger/internal/service"
	"github.com/shopspring/decimal"
)

// CreateDeposit handles POST /api/v1/me/deposits
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var body depositRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := h.wallet.Deposit(r.Context(), service.DepositRequest{
		AccountID:      accountID,
		Amount:         body.Amount,
		Currency:       body.Currency,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, recordStatus(result), result)
}

// CreateWithdrawal handles POST /api/v1/me/withdrawals
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var body withdrawRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := h.wallet.Withdraw(r.Context(), service.WithdrawRequest{
		AccountID:      accountID,
		Amount:         body.Amount,
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

// CreateBankWithdrawal handles POST /api/v1/me/withdrawals/bank
func (h *Handler) CreateBankWithdrawal(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var body bankWithdrawRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := h.wallet.BankWithdraw(r.Context(), service.BankWithdrawRequest{
		AccountID:      accountID,
		Amount:         body.Amount,
		AccountHolder:  body.AccountHolder,
		BankName:       body.BankName,
		AccountNumber:  body.AccountNumber,
		SwiftCode:      body.SwiftCode,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, recordStatus(result), result)
}

// QuoteFee handles GET /api/v1/fees/quote
func (h *Handler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	var method, rawAmount string
	params := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "method", params, &method); err != nil {
		writeValidationError(w, "invalid method: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "amount", params, &rawAmount); err != nil {
		writeValidationError(w, "invalid amount: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		writeValidationError(w, "invalid amount: must be a decimal number")
		return
	}

	quote, err := h.wallet.QuoteFee(service.WithdrawalMethod(method), amount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}
