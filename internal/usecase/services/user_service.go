package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alvinmalapojr/wallet/internal/adapter/repository/repo_interfaces"
	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/identifier"
	"github.com/alvinmalapojr/wallet/internal/logger"
	"github.com/alvinmalapojr/wallet/internal/retry"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// maxAccountNumberAttempts bounds regeneration when an account-number insert
// loses a uniqueness race.
const maxAccountNumberAttempts = 5

type RegistrationInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
}

type UserService struct {
	userRepo        repo_interfaces.UserRepository
	transactionRepo repo_interfaces.TransactionRepository
	numbers         *identifier.Generator
}

func NewUserService(
	userRepo repo_interfaces.UserRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	numbers *identifier.Generator,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		numbers:         numbers,
	}
}

// Register creates a user with a fresh account number and a zero balance.
// The username pre-check is a filter; the unique index is the authority, so
// for concurrent registrations of the same username exactly one insert wins
// and the rest resolve to USERNAME_EXIST.
func (s *UserService) Register(ctx context.Context, input RegistrationInput) domain.TransactionResult {
	logger.Info("user service register request", logger.Fields{
		"username": input.Username,
	})

	username := strings.TrimSpace(input.Username)

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		logger.Error("user service register username check failed", err, logger.Fields{
			"username": username,
		})
		return domain.ResultFailed
	}
	if taken {
		return domain.ResultUsernameExist
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		logger.Error("user service register hash password failed", err, nil)
		return domain.ResultFailed
	}

	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		accountNumber, err := s.numbers.AccountNumber(ctx)
		if err != nil {
			logger.Error("user service register generate account number failed", err, logger.Fields{
				"username": username,
			})
			return domain.ResultFailed
		}

		created, err := s.userRepo.Create(ctx, domain.User{
			Username:      username,
			FirstName:     strings.TrimSpace(input.FirstName),
			LastName:      strings.TrimSpace(input.LastName),
			PasswordHash:  passwordHash,
			AccountNumber: accountNumber,
			Balance:       decimal.Zero,
		})
		if err == nil {
			logger.Info("user service register success", logger.Fields{
				"userId":        created.ID,
				"accountNumber": created.AccountNumber,
			})
			return domain.ResultSuccess
		}

		if retry.Classify(err) != retry.ClassIntegrityViolation {
			logger.Error("user service register create failed", err, logger.Fields{
				"username": username,
			})
			return domain.ResultFailed
		}

		// Which identifier collided decides the outcome: a username race is
		// final, an account-number race gets a fresh number.
		if strings.Contains(uniqueViolationConstraint(err), "username") {
			logger.Info("user service register username race lost", logger.Fields{
				"username": username,
			})
			return domain.ResultUsernameExist
		}

		logger.Info("user service register account number collision", logger.Fields{
			"accountNumber": accountNumber,
			"attempt":       attempt,
		})
	}

	return domain.ResultFailed
}

func (s *UserService) GetUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, accountNumber string) (domain.User, error) {
	return s.userRepo.GetByAccountNumber(ctx, accountNumber)
}

func (s *UserService) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactionRepo.List(ctx)
}

// GetTransactionsByAccount lists the ledger entries touching an account on
// either side. A missing account is commons.ErrRecordNotFound, not an empty
// list.
func (s *UserService) GetTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	exists, err := s.userRepo.ExistsByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, commons.ErrRecordNotFound
	}

	return s.transactionRepo.ListByAccount(ctx, accountNumber)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

func uniqueViolationConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
