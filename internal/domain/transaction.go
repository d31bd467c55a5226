package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

type TransactionStatus string

// PENDING rows only exist inside an uncommitted posting scope. Every
// committed transaction is SUCCESS.
const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
)

type Transaction struct {
	ID                string
	TransactionNumber string
	Type              TransactionType
	AccountNumberFrom string
	AccountNumberTo   *string
	Amount            decimal.Decimal
	EndingBalance     decimal.Decimal
	Status            TransactionStatus
	TransactionDate   time.Time
	RowVersion        int64
}
