package repo_interfaces

import (
	"context"

	"github.com/alvinmalapojr/wallet/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}
