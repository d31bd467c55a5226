package retry

import (
	"context"
	"errors"

	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/logger"
	"github.com/lib/pq"
)

// MaxAttempts bounds the retry loop applied around a transient storage
// failure.
const MaxAttempts = 3

type Classification int

const (
	// ClassVersionConflict: a version-guarded update matched zero rows. The
	// whole unit of work must re-run from fresh reads.
	ClassVersionConflict Classification = iota
	// ClassDeadlock: the storage engine aborted a lock cycle, or rolled the
	// transaction back for a serialization failure. Retried, but capped.
	ClassDeadlock
	// ClassIntegrityViolation: a uniqueness constraint fired. Retrying the
	// same input verbatim would repeat the collision, so this propagates
	// unmodified past the retry boundary.
	ClassIntegrityViolation
	// ClassTerminal: everything else, including business-rule sentinels.
	ClassTerminal
)

const (
	pqDeadlockDetected     = "40P01"
	pqSerializationFailure = "40001"
	pqUniqueViolation      = "23505"
)

func Classify(err error) Classification {
	if errors.Is(err, commons.ErrVersionConflict) {
		return ClassVersionConflict
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqDeadlockDetected, pqSerializationFailure:
			return ClassDeadlock
		case pqUniqueViolation:
			return ClassIntegrityViolation
		}
	}

	return ClassTerminal
}

func Transient(class Classification) bool {
	return class == ClassVersionConflict || class == ClassDeadlock
}

// Do runs op up to MaxAttempts times, retrying only failures classified as
// transient. The final error is returned once attempts are exhausted; the
// caller inspects its classification to decide the outcome.
func Do(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		class := Classify(err)
		if !Transient(class) {
			return err
		}

		logger.Info("retry policy transient storage failure", logger.Fields{
			"attempt":        attempt,
			"maxAttempts":    MaxAttempts,
			"classification": classificationName(class),
			"error":          err.Error(),
		})
	}

	return err
}

func classificationName(class Classification) string {
	switch class {
	case ClassVersionConflict:
		return "version_conflict"
	case ClassDeadlock:
		return "deadlock"
	case ClassIntegrityViolation:
		return "integrity_violation"
	default:
		return "terminal"
	}
}
