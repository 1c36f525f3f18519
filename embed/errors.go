package embed

import "errors"

// ErrEmptyText indicates an embedding request with no content.
var ErrEmptyText = errors.New("cannot embed empty text")
