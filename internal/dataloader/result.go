package dataloader

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeClosed is returned by loads issued after Scope.Close.
	ErrScopeClosed = errors.New("dataloader: scope closed")

	// ErrMissingKey is reported for a key the batch function left out
	// of its result.
	ErrMissingKey = errors.New("dataloader: no result for key")
)

// Result is the outcome for one key of a batch.
type Result[V any] struct {
	Value V
	Err   error
}

func Ok[V any](v V) Result[V] { return Result[V]{Value: v} }

func Fail[V any](err error) Result[V] { return Result[V]{Err: err} }

// BatchError is shared by every key of a batch whose function failed as
// a whole.
type BatchError struct {
	Loader string
	Keys   int
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("dataloader %s: batch of %d keys failed: %v", e.Loader, e.Keys, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// NoParams is the params type for loaders whose batches are not
// parameterized.
type NoParams struct{}
