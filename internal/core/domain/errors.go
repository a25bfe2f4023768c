package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Setup Errors. Any of these aborts the run with a nonzero exit.

	// ErrKnowledgeBaseMissing indicates the knowledge base file does not exist.
	ErrKnowledgeBaseMissing = errors.New("knowledge base file missing")

	// ErrInvalidBundle indicates the knowledge base failed structural validation.
	ErrInvalidBundle = errors.New("invalid knowledge base bundle")

	// ErrStoreUnavailable indicates the vector store cannot be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrCollectionNotFound indicates the collection does not exist in the vector store.
	// Retrieval requires a prior ingest run to have created it.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not reachable.
	// Both ingestion and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat-completion service is not reachable.
	// The assistant loop is disabled without it; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Session Errors.

	// ErrSessionTerminated indicates input was submitted to a terminated session.
	ErrSessionTerminated = errors.New("session terminated")
)
