package identifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/alvinmalapojr/wallet/internal/logger"
)

const (
	// Length of every generated identifier, account and transaction alike.
	Length = 12

	maxAttempts = 5

	numericAlphabet      = "0123456789"
	alphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrExhausted is returned when every sampled candidate already exists. The
// store's uniqueness constraint remains the final authority either way; the
// existence probe is only a pre-filter.
var ErrExhausted = errors.New("identifier generation exhausted maximum attempts")

// ExistsFunc reports whether a candidate identifier is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

type Generator struct {
	accountExists     ExistsFunc
	transactionExists ExistsFunc
}

func NewGenerator(accountExists ExistsFunc, transactionExists ExistsFunc) *Generator {
	return &Generator{
		accountExists:     accountExists,
		transactionExists: transactionExists,
	}
}

// AccountNumber produces a fresh 12-digit numeric account number.
func (g *Generator) AccountNumber(ctx context.Context) (string, error) {
	return g.generate(ctx, numericAlphabet, g.accountExists)
}

// TransactionNumber produces a fresh 12-character alphanumeric transaction
// number.
func (g *Generator) TransactionNumber(ctx context.Context) (string, error) {
	return g.generate(ctx, alphanumericAlphabet, g.transactionExists)
}

func (g *Generator) generate(ctx context.Context, alphabet string, exists ExistsFunc) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := sample(alphabet)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check identifier existence: %w", err)
		}
		if !taken {
			return candidate, nil
		}

		logger.Info("identifier generator candidate collision", logger.Fields{
			"attempt": attempt,
		})
	}

	return "", ErrExhausted
}

func sample(alphabet string) string {
	out := make([]byte, Length)
	for i := range out {
		out[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(out)
}
