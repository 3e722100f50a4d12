// Package apperror holds the error kinds the matcher distinguishes between.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusNotReady is returned while no job corpus has been published.
	ErrCorpusNotReady = errors.New("job corpus not loaded")
	// ErrQueryEmbedding is returned when the candidate query cannot be embedded.
	ErrQueryEmbedding = errors.New("could not embed match query")
	// ErrNotFound is returned when a requested job or record does not exist.
	ErrNotFound = errors.New("not found")
)

// DataSourceError means the job corpus could not be read from its source store.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func NewDataSourceError(op string, err error) *DataSourceError {
	return &DataSourceError{Op: op, Err: err}
}

// EmbeddingProviderError wraps a failed call to the embedding provider.
type EmbeddingProviderError struct {
	Op  string
	Err error
}

func (e *EmbeddingProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %s: %v", e.Op, e.Err)
}

func (e *EmbeddingProviderError) Unwrap() error { return e.Err }

func NewEmbeddingProviderError(op string, err error) *EmbeddingProviderError {
	return &EmbeddingProviderError{Op: op, Err: err}
}

// MalformedInputError reports a field that could not be parsed. Callers treat
// the field as absent.
type MalformedInputError struct {
	Field string
	Value string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}

func IsDataSource(err error) bool {
	var target *DataSourceError
	return errors.As(err, &target)
}

func IsEmbeddingProvider(err error) bool {
	var target *EmbeddingProviderError
	return errors.As(err, &target)
}
