package services

import (
	"context"
	"errors"

	"github.com/alvinmalapojr/wallet/internal/adapter/repository/repo_interfaces"
	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/events"
	"github.com/alvinmalapojr/wallet/internal/identifier"
	"github.com/alvinmalapojr/wallet/internal/logger"
	"github.com/alvinmalapojr/wallet/internal/retry"
	"github.com/shopspring/decimal"
)

// maxNumberAttempts bounds how many fresh transaction numbers are tried when
// an insert loses a uniqueness race.
const maxNumberAttempts = 5

// WalletService coordinates deposits, withdrawals and transfers: it
// pre-validates against current balances, generates the transaction number,
// and drives the atomic posting scope through the bounded retry policy.
type WalletService struct {
	walletRepo repo_interfaces.WalletRepository
	numbers    *identifier.Generator
	publisher  events.Publisher
}

func NewWalletService(
	walletRepo repo_interfaces.WalletRepository,
	numbers *identifier.Generator,
	publisher events.Publisher,
) *WalletService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &WalletService{
		walletRepo: walletRepo,
		numbers:    numbers,
		publisher:  publisher,
	}
}

func (s *WalletService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) domain.TransactionResult {
	logger.Info("wallet service deposit request", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount,
	})

	if _, err := s.walletRepo.GetBalance(ctx, accountNumber); err != nil {
		return resultForReadFailure(err)
	}

	return s.post(ctx, domain.Transaction{
		Type:              domain.TransactionTypeDeposit,
		AccountNumberFrom: accountNumber,
		Amount:            amount,
	})
}

func (s *WalletService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) domain.TransactionResult {
	logger.Info("wallet service withdraw request", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount,
	})

	balance, err := s.walletRepo.GetBalance(ctx, accountNumber)
	if err != nil {
		return resultForReadFailure(err)
	}
	if balance.LessThan(amount) {
		return domain.ResultBalanceInsufficient
	}

	return s.post(ctx, domain.Transaction{
		Type:              domain.TransactionTypeWithdraw,
		AccountNumberFrom: accountNumber,
		Amount:            amount,
	})
}

func (s *WalletService) Transfer(ctx context.Context, accountNumberFrom string, accountNumberTo string, amount decimal.Decimal) domain.TransactionResult {
	logger.Info("wallet service transfer request", logger.Fields{
		"accountNumberFrom": accountNumberFrom,
		"accountNumberTo":   accountNumberTo,
		"amount":            amount,
	})

	// Existence always precedes sufficiency, pre-check and in-scope alike.
	fromBalance, err := s.walletRepo.GetBalance(ctx, accountNumberFrom)
	if err != nil {
		return resultForReadFailure(err)
	}
	if _, err := s.walletRepo.GetBalance(ctx, accountNumberTo); err != nil {
		return resultForReadFailure(err)
	}
	if fromBalance.LessThan(amount) {
		return domain.ResultBalanceInsufficient
	}

	to := accountNumberTo
	return s.post(ctx, domain.Transaction{
		Type:              domain.TransactionTypeTransfer,
		AccountNumberFrom: accountNumberFrom,
		AccountNumberTo:   &to,
		Amount:            amount,
	})
}

// post runs the atomic write sequence. Transient failures are retried up to
// the policy bound from fresh reads; a transaction-number uniqueness race
// gets a fresh number and another pass of the outer loop.
func (s *WalletService) post(ctx context.Context, entry domain.Transaction) domain.TransactionResult {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.numbers.TransactionNumber(ctx)
		if err != nil {
			logger.Error("wallet service generate transaction number failed", err, logger.Fields{
				"transactionType": entry.Type,
			})
			return domain.ResultFailed
		}
		entry.TransactionNumber = number

		var posted domain.Transaction
		err = retry.Do(ctx, func(ctx context.Context) error {
			var postErr error
			posted, postErr = s.walletRepo.Post(ctx, entry)
			return postErr
		})
		if err == nil {
			s.publishCompleted(ctx, posted)
			return domain.ResultSuccess
		}

		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			return domain.ResultAccountDoesNotExist
		case errors.Is(err, commons.ErrInsufficientBalance):
			return domain.ResultBalanceInsufficient
		}

		switch retry.Classify(err) {
		case retry.ClassIntegrityViolation:
			logger.Info("wallet service transaction number collision", logger.Fields{
				"transactionNumber": entry.TransactionNumber,
				"attempt":           attempt,
			})
			continue
		case retry.ClassDeadlock:
			logger.Error("wallet service deadlock retries exhausted", err, logger.Fields{
				"transactionNumber": entry.TransactionNumber,
			})
			return domain.ResultDeadlockRetry
		default:
			logger.Error("wallet service posting failed", err, logger.Fields{
				"transactionNumber": entry.TransactionNumber,
			})
			return domain.ResultFailed
		}
	}

	return domain.ResultFailed
}

func (s *WalletService) publishCompleted(ctx context.Context, posted domain.Transaction) {
	event := events.TransactionCompleted{
		TransactionNumber: posted.TransactionNumber,
		TransactionType:   string(posted.Type),
		AccountNumberFrom: posted.AccountNumberFrom,
		Amount:            posted.Amount,
		EndingBalance:     posted.EndingBalance,
		CompletedAt:       posted.TransactionDate,
	}
	if posted.AccountNumberTo != nil {
		event.AccountNumberTo = *posted.AccountNumberTo
	}

	// Best effort: the ledger entry is already committed.
	if err := s.publisher.PublishTransactionCompleted(ctx, event); err != nil {
		logger.Error("wallet service publish transaction completed failed", err, logger.Fields{
			"transactionNumber": posted.TransactionNumber,
		})
	}
}

func resultForReadFailure(err error) domain.TransactionResult {
	if errors.Is(err, commons.ErrRecordNotFound) {
		return domain.ResultAccountDoesNotExist
	}
	return domain.ResultFailed
}
