package services

import (
	"context"
	"sync"
	"testing"

	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/events"
	"github.com/alvinmalapojr/wallet/internal/identifier"
	"github.com/alvinmalapojr/wallet/internal/retry"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/sync/errgroup"
)

// memoryWalletRepo mirrors the storage contract: Post applies the whole
// entry atomically under a lock, re-validating existence and sufficiency
// inside the critical section, and enforces transaction-number uniqueness.
type memoryWalletRepo struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	entries  []domain.Transaction
	numbers  map[string]bool
}

func newMemoryWalletRepo(balances map[string]decimal.Decimal) *memoryWalletRepo {
	copied := make(map[string]decimal.Decimal, len(balances))
	for k, v := range balances {
		copied[k] = v
	}
	return &memoryWalletRepo{
		balances: copied,
		numbers:  make(map[string]bool),
	}
}

func (r *memoryWalletRepo) GetBalance(_ context.Context, accountNumber string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[accountNumber]
	if !ok {
		return decimal.Zero, commons.ErrRecordNotFound
	}
	return balance, nil
}

func (r *memoryWalletRepo) Post(_ context.Context, entry domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromBalance, ok := r.balances[entry.AccountNumberFrom]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	if entry.Type == domain.TransactionTypeTransfer {
		if entry.AccountNumberTo == nil {
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		if _, ok := r.balances[*entry.AccountNumberTo]; !ok {
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
	}
	if entry.Type != domain.TransactionTypeDeposit && fromBalance.LessThan(entry.Amount) {
		return domain.Transaction{}, commons.ErrInsufficientBalance
	}

	if r.numbers[entry.TransactionNumber] {
		return domain.Transaction{}, &pq.Error{Code: "23505", Constraint: "transactions_transaction_number_key"}
	}
	r.numbers[entry.TransactionNumber] = true

	if entry.Type == domain.TransactionTypeDeposit {
		entry.EndingBalance = fromBalance.Add(entry.Amount)
	} else {
		entry.EndingBalance = fromBalance.Sub(entry.Amount)
	}
	r.balances[entry.AccountNumberFrom] = entry.EndingBalance
	if entry.Type == domain.TransactionTypeTransfer {
		r.balances[*entry.AccountNumberTo] = r.balances[*entry.AccountNumberTo].Add(entry.Amount)
	}

	entry.Status = domain.TransactionStatusSuccess
	r.entries = append(r.entries, entry)

	return entry, nil
}

func (r *memoryWalletRepo) balance(accountNumber string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[accountNumber]
}

func (r *memoryWalletRepo) entryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *memoryWalletRepo) transactionNumberExists(_ context.Context, candidate string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.numbers[candidate], nil
}

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountNumber)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockWalletRepo) Post(ctx context.Context, entry domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.TransactionCompleted
}

func (p *capturePublisher) PublishTransactionCompleted(_ context.Context, event events.TransactionCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newTestService(repo *memoryWalletRepo, publisher events.Publisher) *WalletService {
	never := func(context.Context, string) (bool, error) { return false, nil }
	numbers := identifier.NewGenerator(never, repo.transactionNumberExists)
	return NewWalletService(repo, numbers, publisher)
}

func TestTransferMovesFundsAndConservesTotal(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(100),
		"222222222222": decimal.NewFromInt(50),
	})
	publisher := &capturePublisher{}
	svc := newTestService(repo, publisher)

	result := svc.Transfer(context.Background(), "111111111111", "222222222222", decimal.NewFromInt(50))

	assert.Equal(t, domain.ResultSuccess, result)
	assert.True(t, repo.balance("111111111111").Equal(decimal.NewFromInt(50)))
	assert.True(t, repo.balance("222222222222").Equal(decimal.NewFromInt(100)))

	total := repo.balance("111111111111").Add(repo.balance("222222222222"))
	assert.True(t, total.Equal(decimal.NewFromInt(150)))

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, "TRANSFER", publisher.events[0].TransactionType)
	assert.Len(t, publisher.events[0].TransactionNumber, identifier.Length)
}

func TestWithdrawInsufficientBalanceLeavesBalanceUnchanged(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(50),
	})
	svc := newTestService(repo, nil)

	result := svc.Withdraw(context.Background(), "111111111111", decimal.NewFromInt(100))

	assert.Equal(t, domain.ResultBalanceInsufficient, result)
	assert.True(t, repo.balance("111111111111").Equal(decimal.NewFromInt(50)))
	assert.Zero(t, repo.entryCount())
}

func TestDepositMissingAccount(t *testing.T) {
	repo := newMemoryWalletRepo(nil)
	svc := newTestService(repo, nil)

	result := svc.Deposit(context.Background(), "999999999999", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultAccountDoesNotExist, result)
	assert.Zero(t, repo.entryCount())
}

func TestTransferMissingBeneficiaryLeavesSourceUntouched(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(100),
	})
	svc := newTestService(repo, nil)

	result := svc.Transfer(context.Background(), "111111111111", "999999999999", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultAccountDoesNotExist, result)
	assert.True(t, repo.balance("111111111111").Equal(decimal.NewFromInt(100)))
	assert.Zero(t, repo.entryCount())
}

// Existence always decides before sufficiency: a missing account with a
// stale-looking insufficient balance still reports the missing account.
func TestMissingAccountTakesPriorityOverInsufficientBalance(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(1),
	})
	svc := newTestService(repo, nil)

	result := svc.Withdraw(context.Background(), "999999999999", decimal.NewFromInt(100))

	assert.Equal(t, domain.ResultAccountDoesNotExist, result)
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(20),
	})
	svc := newTestService(repo, nil)

	results := make([]domain.TransactionResult, 4)
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			results[i] = svc.Withdraw(context.Background(), "111111111111", decimal.NewFromInt(5))
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	for _, result := range results {
		assert.Contains(t, []domain.TransactionResult{domain.ResultSuccess, domain.ResultDeadlockRetry}, result)
	}
	assert.False(t, repo.balance("111111111111").IsNegative())
}

func TestConcurrentWithdrawalsBeyondBalance(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(10),
	})
	svc := newTestService(repo, nil)

	results := make([]domain.TransactionResult, 4)
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			results[i] = svc.Withdraw(context.Background(), "111111111111", decimal.NewFromInt(5))
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	successes := 0
	for _, result := range results {
		if result == domain.ResultSuccess {
			successes++
		} else {
			assert.Equal(t, domain.ResultBalanceInsufficient, result)
		}
	}
	assert.Equal(t, 2, successes)
	assert.True(t, repo.balance("111111111111").Equal(decimal.Zero))
}

func TestDeadlockExhaustionReportsDeadlockRetry(t *testing.T) {
	repo := &mockWalletRepo{}
	repo.On("GetBalance", mock.Anything, "111111111111").Return(decimal.NewFromInt(100), nil)
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{}, &pq.Error{Code: "40P01"})

	never := func(context.Context, string) (bool, error) { return false, nil }
	svc := NewWalletService(repo, identifier.NewGenerator(never, never), nil)

	result := svc.Withdraw(context.Background(), "111111111111", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultDeadlockRetry, result)
	repo.AssertNumberOfCalls(t, "Post", retry.MaxAttempts)
}

func TestTransientDeadlockRecoversWithinRetryBudget(t *testing.T) {
	repo := &mockWalletRepo{}
	repo.On("GetBalance", mock.Anything, "111111111111").Return(decimal.NewFromInt(100), nil)
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{}, &pq.Error{Code: "40P01"}).Twice()
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{
		TransactionNumber: "ABCDEFGH1234",
		Type:              domain.TransactionTypeWithdraw,
		AccountNumberFrom: "111111111111",
		Amount:            decimal.NewFromInt(10),
		Status:            domain.TransactionStatusSuccess,
	}, nil).Once()

	never := func(context.Context, string) (bool, error) { return false, nil }
	svc := NewWalletService(repo, identifier.NewGenerator(never, never), nil)

	result := svc.Withdraw(context.Background(), "111111111111", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultSuccess, result)
	repo.AssertNumberOfCalls(t, "Post", 3)
}

func TestVersionConflictRetriesFromFreshReads(t *testing.T) {
	repo := &mockWalletRepo{}
	repo.On("GetBalance", mock.Anything, "111111111111").Return(decimal.NewFromInt(100), nil)
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{}, commons.ErrVersionConflict).Once()
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{
		TransactionNumber: "ABCDEFGH1234",
		Type:              domain.TransactionTypeDeposit,
		AccountNumberFrom: "111111111111",
		Amount:            decimal.NewFromInt(10),
		Status:            domain.TransactionStatusSuccess,
	}, nil).Once()

	never := func(context.Context, string) (bool, error) { return false, nil }
	svc := NewWalletService(repo, identifier.NewGenerator(never, never), nil)

	result := svc.Deposit(context.Background(), "111111111111", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultSuccess, result)
	repo.AssertNumberOfCalls(t, "Post", 2)
}

func TestTransactionNumberCollisionGetsFreshNumber(t *testing.T) {
	repo := &mockWalletRepo{}
	repo.On("GetBalance", mock.Anything, "111111111111").Return(decimal.NewFromInt(100), nil)

	var numbers []string
	repo.On("Post", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry := args.Get(1).(domain.Transaction)
		numbers = append(numbers, entry.TransactionNumber)
	}).Return(domain.Transaction{}, &pq.Error{Code: "23505", Constraint: "transactions_transaction_number_key"}).Once()
	repo.On("Post", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry := args.Get(1).(domain.Transaction)
		numbers = append(numbers, entry.TransactionNumber)
	}).Return(domain.Transaction{
		Status: domain.TransactionStatusSuccess,
	}, nil).Once()

	never := func(context.Context, string) (bool, error) { return false, nil }
	svc := NewWalletService(repo, identifier.NewGenerator(never, never), nil)

	result := svc.Deposit(context.Background(), "111111111111", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultSuccess, result)
	assert.Len(t, numbers, 2)
	assert.NotEqual(t, numbers[0], numbers[1])
}

func TestTerminalStorageFailureReportsFailed(t *testing.T) {
	repo := &mockWalletRepo{}
	repo.On("GetBalance", mock.Anything, "111111111111").Return(decimal.NewFromInt(100), nil)
	repo.On("Post", mock.Anything, mock.Anything).Return(domain.Transaction{}, assert.AnError)

	never := func(context.Context, string) (bool, error) { return false, nil }
	svc := NewWalletService(repo, identifier.NewGenerator(never, never), nil)

	result := svc.Deposit(context.Background(), "111111111111", decimal.NewFromInt(10))

	assert.Equal(t, domain.ResultFailed, result)
	repo.AssertNumberOfCalls(t, "Post", 1)
}

func TestDepositIncreasesBalanceAndRecordsEndingBalance(t *testing.T) {
	repo := newMemoryWalletRepo(map[string]decimal.Decimal{
		"111111111111": decimal.NewFromInt(30),
	})
	svc := newTestService(repo, nil)

	result := svc.Deposit(context.Background(), "111111111111", decimal.NewFromInt(12))

	assert.Equal(t, domain.ResultSuccess, result)
	assert.True(t, repo.balance("111111111111").Equal(decimal.NewFromInt(42)))
	assert.Equal(t, 1, repo.entryCount())
	assert.True(t, repo.entries[0].EndingBalance.Equal(decimal.NewFromInt(42)))
	assert.Equal(t, domain.TransactionStatusSuccess, repo.entries[0].Status)
}
