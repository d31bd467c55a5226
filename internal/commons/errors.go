package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")

// ErrVersionConflict is surfaced when a version-guarded update touches zero
// rows because the row changed since it was read.
var ErrVersionConflict = errors.New("Row version conflict")
