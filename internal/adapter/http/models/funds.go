package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if !isAccountNumber(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 12 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type WithdrawRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r WithdrawRequest) Validate() error {
	var errs []string

	if !isAccountNumber(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 12 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferRequest struct {
	AccountNumberFrom string          `json:"accountNumberFrom"`
	AccountNumberTo   string          `json:"accountNumberTo"`
	Amount            decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isAccountNumber(r.AccountNumberFrom) {
		errs = append(errs, "accountNumberFrom must be exactly 12 digits")
	}
	if !isAccountNumber(r.AccountNumberTo) {
		errs = append(errs, "accountNumberTo must be exactly 12 digits")
	}
	if strings.TrimSpace(r.AccountNumberFrom) == strings.TrimSpace(r.AccountNumberTo) {
		errs = append(errs, "accountNumberFrom and accountNumberTo cannot be the same")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isAccountNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 12 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
