package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/logger"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	const query = `
SELECT balance
FROM users
WHERE account_number = $1`

	var balance decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("wallet repository account not found", logger.Fields{
				"accountNumber": accountNumber,
			})
			return decimal.Zero, commons.ErrRecordNotFound
		}
		logger.Error("wallet repository get balance failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

type lockedAccount struct {
	balance    decimal.Decimal
	rowVersion int64
}

// Post applies one ledger entry as a single database transaction. Account
// rows are locked before their balances are read, so no other writer can
// change a balance between the authoritative re-validation and the update.
func (r *WalletRepository) Post(ctx context.Context, entry domain.Transaction) (domain.Transaction, error) {
	logger.Info("wallet repository post", logger.Fields{
		"transactionNumber": entry.TransactionNumber,
		"transactionType":   entry.Type,
		"accountNumberFrom": entry.AccountNumberFrom,
		"accountNumberTo":   entry.AccountNumberTo,
		"amount":            entry.Amount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("wallet repository begin tx failed", err, nil)
		return domain.Transaction{}, fmt.Errorf("begin posting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var posted domain.Transaction
	posted, err = r.postInTx(ctx, tx, entry)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("wallet repository commit tx failed", err, logger.Fields{
			"transactionNumber": entry.TransactionNumber,
		})
		return domain.Transaction{}, fmt.Errorf("commit posting transaction: %w", err)
	}

	logger.Info("wallet repository post success", logger.Fields{
		"transactionNumber": posted.TransactionNumber,
		"endingBalance":     posted.EndingBalance,
	})

	return posted, nil
}

func (r *WalletRepository) postInTx(ctx context.Context, tx *sql.Tx, entry domain.Transaction) (domain.Transaction, error) {
	accountNumbers := []string{entry.AccountNumberFrom}
	if entry.Type == domain.TransactionTypeTransfer && entry.AccountNumberTo != nil {
		accountNumbers = append(accountNumbers, *entry.AccountNumberTo)
	}
	// Ascending lock order keeps opposite-direction transfers from forming a
	// lock cycle against each other.
	sort.Strings(accountNumbers)

	locked := make(map[string]lockedAccount, len(accountNumbers))
	for _, accountNumber := range accountNumbers {
		account, err := lockAccountRow(ctx, tx, accountNumber)
		if err != nil {
			return domain.Transaction{}, err
		}
		locked[accountNumber] = account
	}

	from := locked[entry.AccountNumberFrom]
	if entry.Type != domain.TransactionTypeDeposit && from.balance.LessThan(entry.Amount) {
		return domain.Transaction{}, commons.ErrInsufficientBalance
	}

	if entry.Type == domain.TransactionTypeDeposit {
		entry.EndingBalance = from.balance.Add(entry.Amount)
	} else {
		entry.EndingBalance = from.balance.Sub(entry.Amount)
	}
	entry.Status = domain.TransactionStatusPending

	const insertQuery = `
INSERT INTO transactions (
	transaction_number,
	transaction_type,
	account_number_from,
	account_number_to,
	amount,
	ending_balance,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, transaction_date, row_version`

	var (
		id              string
		transactionDate time.Time
		rowVersion      int64
	)
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		entry.TransactionNumber,
		entry.Type,
		entry.AccountNumberFrom,
		entry.AccountNumberTo,
		entry.Amount,
		entry.EndingBalance,
		entry.Status,
	).Scan(&id, &transactionDate, &rowVersion); err != nil {
		logger.Error("wallet repository insert ledger row failed", err, logger.Fields{
			"transactionNumber": entry.TransactionNumber,
		})
		return domain.Transaction{}, fmt.Errorf("insert ledger row: %w", err)
	}
	entry.ID = id
	entry.TransactionDate = transactionDate
	entry.RowVersion = rowVersion

	if err := updateBalance(ctx, tx, entry.AccountNumberFrom, entry.EndingBalance, from.rowVersion); err != nil {
		return domain.Transaction{}, err
	}

	if entry.Type == domain.TransactionTypeTransfer && entry.AccountNumberTo != nil {
		to := locked[*entry.AccountNumberTo]
		if err := updateBalance(ctx, tx, *entry.AccountNumberTo, to.balance.Add(entry.Amount), to.rowVersion); err != nil {
			return domain.Transaction{}, err
		}
	}

	const finalizeQuery = `
UPDATE transactions
SET status = $2,
    row_version = row_version + 1
WHERE transaction_number = $1
  AND status = $3
  AND row_version = $4`

	result, err := tx.ExecContext(
		ctx,
		finalizeQuery,
		entry.TransactionNumber,
		domain.TransactionStatusSuccess,
		domain.TransactionStatusPending,
		entry.RowVersion,
	)
	if err != nil {
		logger.Error("wallet repository finalize ledger row failed", err, logger.Fields{
			"transactionNumber": entry.TransactionNumber,
		})
		return domain.Transaction{}, fmt.Errorf("finalize ledger row: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("finalize ledger row rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Transaction{}, commons.ErrVersionConflict
	}

	entry.Status = domain.TransactionStatusSuccess
	entry.RowVersion++

	return entry, nil
}

func lockAccountRow(ctx context.Context, tx *sql.Tx, accountNumber string) (lockedAccount, error) {
	const query = `
SELECT balance, row_version
FROM users
WHERE account_number = $1
FOR UPDATE`

	var account lockedAccount
	if err := tx.QueryRowContext(ctx, query, accountNumber).Scan(&account.balance, &account.rowVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lockedAccount{}, commons.ErrRecordNotFound
		}
		logger.Error("wallet repository lock account row failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return lockedAccount{}, fmt.Errorf("lock account row: %w", err)
	}

	return account, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, accountNumber string, balance decimal.Decimal, expectedVersion int64) error {
	const query = `
UPDATE users
SET balance = $2,
    row_version = row_version + 1,
    updated_at = NOW()
WHERE account_number = $1
  AND row_version = $3`

	result, err := tx.ExecContext(ctx, query, accountNumber, balance, expectedVersion)
	if err != nil {
		logger.Error("wallet repository update balance failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return fmt.Errorf("update balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance rows affected: %w", err)
	}
	if rows == 0 {
		logger.Info("wallet repository balance version conflict", logger.Fields{
			"accountNumber":   accountNumber,
			"expectedVersion": expectedVersion,
		})
		return commons.ErrVersionConflict
	}

	return nil
}
