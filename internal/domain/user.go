package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            string
	Username      string
	FirstName     string
	LastName      string
	PasswordHash  string
	AccountNumber string
	Balance       decimal.Decimal
	RowVersion    int64
	RegisteredAt  time.Time
	UpdatedAt     time.Time
}
