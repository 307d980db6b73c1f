package core

import "errors"

// ErrInvalidInput is returned by AddEvent and Query when the supplied text is
// empty or whitespace-only. It is the only error kind surfaced to callers as
// their own fault; everything else degrades to a best-effort result.
var ErrInvalidInput = errors.New("text must not be empty or whitespace-only")

// ErrEmbedding marks a failure of the embedding provider. Both operations
// need an embedding before they can do anything else, so this aborts them.
var ErrEmbedding = errors.New("embedding provider failed")
