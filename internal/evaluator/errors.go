package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haasonsaas/huntbench/internal/recordkey"
)

// ErrEmptyInput indicates no hypotheses were supplied to the batch.
var ErrEmptyInput = errors.New("no hypotheses to evaluate")

// ErrorKind categorizes evaluation failures so reports can distinguish a
// query that needs repair from one that needs tuning.
type ErrorKind string

const (
	// KindSchemaMismatch indicates a record key could not be derived because
	// the designated identity fields were absent from the result schema
	KindSchemaMismatch ErrorKind = "schema_mismatch"

	// KindExecution indicates query execution failed (syntax, missing
	// column, type coercion, timeout)
	KindExecution ErrorKind = "execution"

	// KindEmptyInput indicates the batch received nothing to evaluate
	KindEmptyInput ErrorKind = "empty_input"
)

// Recoverable reports whether the error is absorbed into a failed result
// record instead of stopping the batch.
func (k ErrorKind) Recoverable() bool {
	switch k {
	case KindSchemaMismatch, KindExecution:
		return true
	default:
		return false
	}
}

// EvalError is a structured evaluation failure carrying the hypothesis it
// belongs to. Inside the batch boundary these become failed result records;
// only unrecoverable kinds propagate to the caller.
type EvalError struct {
	// Kind categorizes the failure
	Kind ErrorKind

	// HypothesisID identifies the hypothesis that failed, when per-hypothesis
	HypothesisID string

	// Message is the human-readable error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[eval:%s]", e.Kind))

	if e.HypothesisID != "" {
		parts = append(parts, e.HypothesisID)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, " ")
}

// Unwrap returns the underlying error.
func (e *EvalError) Unwrap() error {
	return e.Cause
}

// NewEvalError creates an EvalError with automatic classification from the
// cause's error chain.
func NewEvalError(hypothesisID string, cause error) *EvalError {
	err := &EvalError{
		HypothesisID: hypothesisID,
		Cause:        cause,
		Kind:         KindExecution,
	}

	if cause != nil {
		err.Message = cause.Error()
		err.Kind = classifyEvalError(cause)
	}

	return err
}

// WithKind overrides the classified error kind.
func (e *EvalError) WithKind(k ErrorKind) *EvalError {
	e.Kind = k
	return e
}

// WithMessage sets a custom human-readable error message.
func (e *EvalError) WithMessage(msg string) *EvalError {
	e.Message = msg
	return e
}

// classifyEvalError determines the error kind from the error chain.
// Deadline expiry is an execution failure: a query that never finished is
// diagnosed the same way as one that could not start.
func classifyEvalError(err error) ErrorKind {
	if err == nil {
		return KindExecution
	}

	if errors.Is(err, recordkey.ErrSchemaMismatch) {
		return KindSchemaMismatch
	}
	if errors.Is(err, ErrEmptyInput) {
		return KindEmptyInput
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindExecution
	}

	return KindExecution
}

// IsEvalError checks if an error is or wraps an EvalError.
func IsEvalError(err error) bool {
	var evalErr *EvalError
	return errors.As(err, &evalErr)
}

// GetEvalError extracts an EvalError from an error chain using errors.As.
func GetEvalError(err error) (*EvalError, bool) {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr, true
	}
	return nil, false
}
