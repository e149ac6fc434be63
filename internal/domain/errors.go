package domain

import (
	"errors"
	"fmt"
)

// DataError indicates invalid or missing market data: unreadable price
// series, non-positive prices, insufficient aligned rows, or an empty
// symbol list. Raised before training starts and never retried.
type DataError struct {
	msg string
}

func (e *DataError) Error() string { return e.msg }

// NewDataError creates a DataError with a formatted message.
func NewDataError(format string, args ...interface{}) *DataError {
	return &DataError{msg: fmt.Sprintf(format, args...)}
}

// TrainingError indicates a numerical failure inside the optimization loop
// (NaN/Inf in a loss, degenerate covariance). It propagates to the caller
// without local recovery; the cache is left without an entry.
type TrainingError struct {
	msg string
}

func (e *TrainingError) Error() string { return e.msg }

// NewTrainingError creates a TrainingError with a formatted message.
func NewTrainingError(format string, args ...interface{}) *TrainingError {
	return &TrainingError{msg: fmt.Sprintf(format, args...)}
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsTrainingError reports whether err is (or wraps) a TrainingError.
func IsTrainingError(err error) bool {
	var te *TrainingError
	return errors.As(err, &te)
}
