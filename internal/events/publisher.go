package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a ledger entry commits as SUCCESS.
type TransactionCompleted struct {
	TransactionNumber string          `json:"transactionNumber"`
	TransactionType   string          `json:"transactionType"`
	AccountNumberFrom string          `json:"accountNumberFrom"`
	AccountNumberTo   string          `json:"accountNumberTo,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	EndingBalance     decimal.Decimal `json:"endingBalance"`
	CompletedAt       time.Time       `json:"completedAt"`
}

type Publisher interface {
	PublishTransactionCompleted(ctx context.Context, event TransactionCompleted) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCompleted(context.Context, TransactionCompleted) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
