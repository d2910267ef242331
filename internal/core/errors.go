package core

import "errors"

// Failure taxonomy for the ingestion and query pipelines. Internal callers
// and tests distinguish causes with errors.Is; the HTTP boundary collapses
// them to a success flag or a fallback answer.
var (
	// ErrExtraction marks an unreadable or unsupported source file.
	ErrExtraction = errors.New("extraction failed")

	// ErrChunking marks malformed input to the chunker.
	ErrChunking = errors.New("chunking failed")

	// ErrStorage marks a chunk store read or write error, including
	// connectivity.
	ErrStorage = errors.New("chunk store failed")

	// ErrGeneration marks an embedding or generation provider error.
	ErrGeneration = errors.New("model provider failed")
)
