package identifier

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func never(context.Context, string) (bool, error) { return false, nil }

func TestAccountNumberFormat(t *testing.T) {
	g := NewGenerator(never, never)

	number, err := g.AccountNumber(context.Background())

	assert.NoError(t, err)
	assert.Len(t, number, Length)
	for _, ch := range number {
		assert.True(t, ch >= '0' && ch <= '9', "account number must be numeric, got %q", number)
	}
}

func TestTransactionNumberFormat(t *testing.T) {
	g := NewGenerator(never, never)

	number, err := g.TransactionNumber(context.Background())

	assert.NoError(t, err)
	assert.Len(t, number, Length)
	for _, ch := range number {
		ok := (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z')
		assert.True(t, ok, "transaction number must be alphanumeric, got %q", number)
	}
}

func TestCollisionResamplesUntilFree(t *testing.T) {
	probes := 0
	exists := func(context.Context, string) (bool, error) {
		probes++
		return probes <= 2, nil
	}
	g := NewGenerator(exists, never)

	number, err := g.AccountNumber(context.Background())

	assert.NoError(t, err)
	assert.Len(t, number, Length)
	assert.Equal(t, 3, probes)
}

func TestExhaustionAfterMaxAttempts(t *testing.T) {
	probes := 0
	alwaysTaken := func(context.Context, string) (bool, error) {
		probes++
		return true, nil
	}
	g := NewGenerator(never, alwaysTaken)

	_, err := g.TransactionNumber(context.Background())

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, maxAttempts, probes)
}

func TestProbeErrorPropagates(t *testing.T) {
	failing := func(context.Context, string) (bool, error) {
		return false, assert.AnError
	}
	g := NewGenerator(failing, never)

	_, err := g.AccountNumber(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestConcurrentGenerationProducesDistinctIdentifiers(t *testing.T) {
	var (
		mu     sync.Mutex
		issued = make(map[string]bool)
	)
	claim := func(_ context.Context, candidate string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if issued[candidate] {
			return true, nil
		}
		issued[candidate] = true
		return false, nil
	}
	g := NewGenerator(never, claim)

	const workers = 100
	numbers := make([]string, workers)
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			number, err := g.TransactionNumber(context.Background())
			if err != nil {
				return err
			}
			numbers[i] = number
			return nil
		})
	}
	assert.NoError(t, eg.Wait())

	seen := make(map[string]bool, workers)
	for _, number := range numbers {
		assert.False(t, seen[number], "identifier %q issued twice", number)
		seen[number] = true
	}
}
