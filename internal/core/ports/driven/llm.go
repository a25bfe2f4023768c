// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// LLMService streams chat completions for the assistant loop.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
type LLMService interface {
	// ChatStream submits the message sequence and consumes the streamed
	// response, invoking onDelta for each fragment as it arrives. Returns
	// the accumulated full response. A mid-stream error is returned after
	// any fragments already relayed; the partial text is discarded by
	// callers, not re-sent.
	ChatStream(ctx context.Context, messages []domain.ConversationTurn, onDelta domain.DeltaFunc) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before committing to a session.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
