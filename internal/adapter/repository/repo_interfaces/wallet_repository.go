package repo_interfaces

import (
	"context"

	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/shopspring/decimal"
)

// WalletRepository is the storage boundary of the balance-mutation engine.
type WalletRepository interface {
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)

	// Post applies one ledger entry as a single atomic unit of work: every
	// touched account row is locked before its balance is read, existence
	// and sufficiency are re-validated inside the scope, the entry is
	// inserted PENDING, balances are mutated under version guards, and the
	// entry is finalized to SUCCESS. Any failure rolls the whole scope back;
	// a failed attempt leaves no trace.
	//
	// Sentinel errors: commons.ErrRecordNotFound, commons.ErrInsufficientBalance,
	// commons.ErrVersionConflict.
	Post(ctx context.Context, entry domain.Transaction) (domain.Transaction, error)
}
