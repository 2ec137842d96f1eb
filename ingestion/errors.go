package ingestion

import "errors"

var (
	// ErrMemoryRepositoryRequired is returned when a memory repository is not provided.
	ErrMemoryRepositoryRequired = errors.New("memory repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrMissingID is returned for an item submitted without a reserved ID.
	ErrMissingID = errors.New("item has no id")

	// ErrVectorMismatch is returned when an embedding has a different
	// length than the vectors already stored.
	ErrVectorMismatch = errors.New("embedding dimension mismatch")
)
