package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"username":      user.Username,
		"accountNumber": user.AccountNumber,
	})

	const query = `
INSERT INTO users (
	username,
	first_name,
	last_name,
	password_hash,
	account_number,
	balance
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, row_version, registered_at, updated_at`

	var (
		id           string
		rowVersion   int64
		registeredAt time.Time
		updatedAt    time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.AccountNumber,
		user.Balance,
	).Scan(&id, &rowVersion, &registeredAt, &updatedAt); err != nil {
		logger.Error("user repository create failed", err, logger.Fields{
			"username":      user.Username,
			"accountNumber": user.AccountNumber,
		})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	user.ID = id
	user.RowVersion = rowVersion
	user.RegisteredAt = registeredAt
	user.UpdatedAt = updatedAt

	logger.Info("user repository create success", logger.Fields{
		"userId":        user.ID,
		"accountNumber": user.AccountNumber,
	})

	return user, nil
}

func (r *UserRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error) {
	logger.Info("user repository get by account number", logger.Fields{
		"accountNumber": accountNumber,
	})

	const query = `
SELECT id, username, first_name, last_name, password_hash, account_number, balance, row_version, registered_at, updated_at
FROM users
WHERE account_number = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.AccountNumber,
		&user.Balance,
		&user.RowVersion,
		&user.RegisteredAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"accountNumber": accountNumber,
			})
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.User{}, fmt.Errorf("get user by account number: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	logger.Info("user repository list", nil)

	const query = `
SELECT id, username, first_name, last_name, password_hash, account_number, balance, row_version, registered_at, updated_at
FROM users
ORDER BY registered_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("user repository list failed", err, nil)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.PasswordHash,
			&user.AccountNumber,
			&user.Balance,
			&user.RowVersion,
			&user.RegisteredAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM users
	WHERE username = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		logger.Error("user repository exists by username failed", err, logger.Fields{
			"username": username,
		})
		return false, fmt.Errorf("check username existence: %w", err)
	}

	return exists, nil
}

func (r *UserRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM users
	WHERE account_number = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		logger.Error("user repository exists by account number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return false, fmt.Errorf("check account number existence: %w", err)
	}

	return exists, nil
}
