package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alvinmalapojr/wallet/internal/adapter/http/models"
	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/shopspring/decimal"
)

type WalletService interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) domain.TransactionResult
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) domain.TransactionResult
	Transfer(ctx context.Context, accountNumberFrom string, accountNumberTo string, amount decimal.Decimal) domain.TransactionResult
}

type TransactionOutcome struct {
	Result string `json:"result"`
}

type WalletController struct {
	service WalletService
}

func NewWalletController(service WalletService) *WalletController {
	return &WalletController{service: service}
}

func (c *WalletController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(handler http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(handler)
		}
		return handler
	}

	mux.Handle("/api/wallet/deposit", wrap(c.deposit))
	mux.Handle("/api/wallet/withdraw", wrap(c.withdraw))
	mux.Handle("/api/wallet/transfer", wrap(c.transfer))
}

func (c *WalletController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.DepositRequest
	if !decodePost(w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, r, err, start)
		return
	}

	result := c.service.Deposit(r.Context(), req.AccountNumber, req.Amount)
	writeOutcome(w, r, result, start)
}

func (c *WalletController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.WithdrawRequest
	if !decodePost(w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, r, err, start)
		return
	}

	result := c.service.Withdraw(r.Context(), req.AccountNumber, req.Amount)
	writeOutcome(w, r, result, start)
}

func (c *WalletController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.TransferRequest
	if !decodePost(w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, r, err, start)
		return
	}

	result := c.service.Transfer(r.Context(), req.AccountNumberFrom, req.AccountNumberTo, req.Amount)
	writeOutcome(w, r, result, start)
}

func decodePost(w http.ResponseWriter, r *http.Request, req any, start time.Time) bool {
	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[TransactionOutcome]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[TransactionOutcome]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, req)

	return true
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	logError(r, err, nil)
	response := commons.ErrorResponse[TransactionOutcome]("validation failed", err.Error())
	writeJSON(w, http.StatusBadRequest, response)
	logResponse(r, http.StatusBadRequest, response, start)
}

func writeOutcome(w http.ResponseWriter, r *http.Request, result domain.TransactionResult, start time.Time) {
	var (
		status   int
		response commons.Response[TransactionOutcome]
	)

	switch result {
	case domain.ResultSuccess:
		status = http.StatusOK
		response = commons.SuccessResponse("Transaction Successful", TransactionOutcome{Result: string(result)})
	case domain.ResultAccountDoesNotExist:
		status = http.StatusConflict
		response = commons.ErrorResponse[TransactionOutcome]("Account Number does not exist")
	case domain.ResultBalanceInsufficient:
		status = http.StatusBadRequest
		response = commons.ErrorResponse[TransactionOutcome]("Balance Insufficient")
	case domain.ResultDeadlockRetry:
		status = http.StatusBadRequest
		response = commons.ErrorResponse[TransactionOutcome]("Deadlock. Transaction Failed")
	default:
		status = http.StatusBadRequest
		response = commons.ErrorResponse[TransactionOutcome]("Transaction Failed")
	}

	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
