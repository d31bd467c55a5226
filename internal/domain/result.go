package domain

// TransactionResult is the single coarse outcome code every wallet
// operation resolves to.
type TransactionResult string

const (
	ResultSuccess             TransactionResult = "SUCCESS"
	ResultAccountDoesNotExist TransactionResult = "ACCOUNT_DOES_NOT_EXIST"
	ResultBalanceInsufficient TransactionResult = "BALANCE_INSUFFICIENT"
	ResultFailed              TransactionResult = "FAILED"
	ResultUsernameExist       TransactionResult = "USERNAME_EXIST"
	ResultDeadlockRetry       TransactionResult = "DEADLOCK_RETRY"
)
