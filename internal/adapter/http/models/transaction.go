package models

import (
	"time"

	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	TransactionNumber string          `json:"transactionNumber"`
	TransactionType   string          `json:"transactionType"`
	AccountNumberFrom string          `json:"accountNumberFrom"`
	AccountNumberTo   string          `json:"accountNumberTo,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	EndingBalance     decimal.Decimal `json:"endingBalance"`
	Status            string          `json:"status"`
	TransactionDate   string          `json:"transactionDate"`
}

func MapTransaction(transaction domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		TransactionNumber: transaction.TransactionNumber,
		TransactionType:   string(transaction.Type),
		AccountNumberFrom: transaction.AccountNumberFrom,
		Amount:            transaction.Amount,
		EndingBalance:     transaction.EndingBalance,
		Status:            string(transaction.Status),
		TransactionDate:   transaction.TransactionDate.Format(time.RFC3339),
	}
	if transaction.AccountNumberTo != nil {
		response.AccountNumberTo = *transaction.AccountNumberTo
	}
	return response
}

func MapTransactions(transactions []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, MapTransaction(transaction))
	}
	return out
}
