// Package domain holds the shared types and contracts of the employee
// question-answering service.
package domain

import "errors"

var (
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRecord signals a malformed employee record in the source dataset.
	ErrInvalidRecord = errors.New("invalid employee record")
	// ErrInvalidRequest signals an invalid query request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a chat completion provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
)
