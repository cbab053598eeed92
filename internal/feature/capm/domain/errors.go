// Package domain defines domain-level errors for the capm feature.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds raised by the CAPM pipeline.
// Callers match them with errors.Is and read the stage and symbol through errors.As on *DataError.
var (
	// ErrEmptyJoin indicates that the aligned table has no rows (no overlapping trading days).
	ErrEmptyJoin = errors.New("no overlapping trading days")

	// ErrDegenerateRegression indicates that the benchmark returns have zero variance or too few points.
	ErrDegenerateRegression = errors.New("degenerate regression")

	// ErrZeroBase indicates that a base price used as a divisor is zero, absent or not finite.
	ErrZeroBase = errors.New("zero base value")

	// ErrUpstreamFetch indicates that the market data source failed or returned no data for a symbol.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrInvalidInput indicates malformed input such as mismatched lengths or duplicate symbols.
	ErrInvalidInput = errors.New("invalid input")
)

// DataError carries the kind of failure together with the pipeline stage and symbol it happened on.
type DataError struct {
	Kind   error
	Stage  string
	Symbol string
	Err    error
}

func (e *DataError) Error() string {
	msg := e.Kind.Error()
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Symbol != "" {
		msg += " for " + e.Symbol
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// EmptyJoinError reports that the given stage received or produced a table without rows.
func EmptyJoinError(stage string) error {
	return &DataError{Kind: ErrEmptyJoin, Stage: stage}
}

// DegenerateRegressionError reports that beta cannot be estimated for symbol.
func DegenerateRegressionError(symbol, reason string) error {
	return &DataError{Kind: ErrDegenerateRegression, Stage: "regression", Symbol: symbol, Err: errors.New(reason)}
}

// ZeroBaseError reports a zero or absent divisor in the given stage.
func ZeroBaseError(stage, symbol string) error {
	return &DataError{Kind: ErrZeroBase, Stage: stage, Symbol: symbol}
}

// UpstreamFetchError wraps a market data failure for symbol.
func UpstreamFetchError(symbol string, err error) error {
	return &DataError{Kind: ErrUpstreamFetch, Stage: "fetch", Symbol: symbol, Err: err}
}

// InvalidInputError reports malformed input to a stage.
func InvalidInputError(stage, format string, args ...any) error {
	return &DataError{Kind: ErrInvalidInput, Stage: stage, Err: fmt.Errorf(format, args...)}
}
