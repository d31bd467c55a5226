package repo_interfaces

import (
	"context"

	"github.com/alvinmalapojr/wallet/internal/domain"
)

type TransactionRepository interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
	ExistsByNumber(ctx context.Context, transactionNumber string) (bool, error)
}
