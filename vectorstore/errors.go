package vectorstore

import "errors"

var (
	// ErrEmptyCollectionName indicates an operation addressed no collection.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrEmptyDocumentID indicates a document without an identity.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")
)
