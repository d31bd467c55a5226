package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/logger"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
SELECT id, transaction_number, transaction_type, account_number_from, account_number_to, amount, ending_balance, status, transaction_date, row_version
FROM transactions`

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	logger.Info("transaction repository list", nil)

	rows, err := r.db.QueryContext(ctx, transactionColumns+`
ORDER BY transaction_date`)
	if err != nil {
		logger.Error("transaction repository list failed", err, nil)
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	logger.Info("transaction repository list by account", logger.Fields{
		"accountNumber": accountNumber,
	})

	rows, err := r.db.QueryContext(ctx, transactionColumns+`
WHERE account_number_from = $1 OR account_number_to = $1
ORDER BY transaction_date`, accountNumber)
	if err != nil {
		logger.Error("transaction repository list by account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return nil, fmt.Errorf("list transactions by account: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) ExistsByNumber(ctx context.Context, transactionNumber string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM transactions
	WHERE transaction_number = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, transactionNumber).Scan(&exists); err != nil {
		logger.Error("transaction repository exists by number failed", err, logger.Fields{
			"transactionNumber": transactionNumber,
		})
		return false, fmt.Errorf("check transaction number existence: %w", err)
	}

	return exists, nil
}

func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			transaction domain.Transaction
			accountTo   sql.NullString
		)
		if err := rows.Scan(
			&transaction.ID,
			&transaction.TransactionNumber,
			&transaction.Type,
			&transaction.AccountNumberFrom,
			&accountTo,
			&transaction.Amount,
			&transaction.EndingBalance,
			&transaction.Status,
			&transaction.TransactionDate,
			&transaction.RowVersion,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if accountTo.Valid {
			value := accountTo.String
			transaction.AccountNumberTo = &value
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return transactions, nil
}
