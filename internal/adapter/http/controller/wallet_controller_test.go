package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubWalletService struct {
	result domain.TransactionResult
	calls  int
}

func (s *stubWalletService) Deposit(context.Context, string, decimal.Decimal) domain.TransactionResult {
	s.calls++
	return s.result
}

func (s *stubWalletService) Withdraw(context.Context, string, decimal.Decimal) domain.TransactionResult {
	s.calls++
	return s.result
}

func (s *stubWalletService) Transfer(context.Context, string, string, decimal.Decimal) domain.TransactionResult {
	s.calls++
	return s.result
}

func newWalletMux(result domain.TransactionResult) (*http.ServeMux, *stubWalletService) {
	service := &stubWalletService{result: result}
	mux := http.NewServeMux()
	NewWalletController(service).RegisterRoutes(mux, nil)
	return mux, service
}

func TestWithdrawResultStatusMapping(t *testing.T) {
	tests := []struct {
		result     domain.TransactionResult
		wantStatus int
		wantBody   string
	}{
		{domain.ResultSuccess, http.StatusOK, "Transaction Successful"},
		{domain.ResultAccountDoesNotExist, http.StatusConflict, "Account Number does not exist"},
		{domain.ResultBalanceInsufficient, http.StatusBadRequest, "Balance Insufficient"},
		{domain.ResultDeadlockRetry, http.StatusBadRequest, "Deadlock. Transaction Failed"},
		{domain.ResultFailed, http.StatusBadRequest, "Transaction Failed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.result), func(t *testing.T) {
			mux, _ := newWalletMux(tt.result)

			body := `{"accountNumber":"123456789012","amount":"10.00"}`
			req := httptest.NewRequest(http.MethodPost, "/api/wallet/withdraw", strings.NewReader(body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestDepositRejectsInvalidAccountNumber(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	body := `{"accountNumber":"123","amount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/deposit", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "accountNumber must be exactly 12 digits")
	assert.Zero(t, service.calls)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	body := `{"accountNumber":"123456789012","amount":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/deposit", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "amount must be greater than zero")
	assert.Zero(t, service.calls)
}

func TestTransferRejectsSameAccounts(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	body := `{"accountNumberFrom":"123456789012","accountNumberTo":"123456789012","amount":"5.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/transfer", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot be the same")
	assert.Zero(t, service.calls)
}

func TestTransferSuccess(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	body := `{"accountNumberFrom":"123456789012","accountNumberTo":"210987654321","amount":"5.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/transfer", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, service.calls)
}

func TestDepositRejectsInvalidBody(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/deposit", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
	assert.Zero(t, service.calls)
}

func TestDepositRejectsGet(t *testing.T) {
	mux, service := newWalletMux(domain.ResultSuccess)

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/deposit", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Zero(t, service.calls)
}
