package ingestion

import "errors"

var (
	// ErrRepositoryRequired indicates the pipeline was built without a repository.
	ErrRepositoryRequired = errors.New("listing repository is required")

	// ErrStoreRequired indicates the pipeline was built without a vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrEmbedderRequired indicates the pipeline was built without an embedding service.
	ErrEmbedderRequired = errors.New("embedding service is required")
)
