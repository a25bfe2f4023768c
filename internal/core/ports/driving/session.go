package driving

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// AssistantSession drives one interactive conversation. The session is a
// state machine fed discrete input events; it performs no terminal I/O of
// its own, so it can be tested without one.
type AssistantSession interface {
	// HandleInput processes one user input and returns the assistant's
	// full reply. Blank input is a no-op returning an empty reply. An
	// exit command terminates the session. Retrieval failures degrade to
	// an empty context block; generation failures leave history
	// unchanged. Either way the session returns to awaiting input.
	HandleInput(ctx context.Context, input string, onDelta domain.DeltaFunc) (string, error)

	// State returns the current session state.
	State() domain.SessionState

	// History returns the accumulated user and assistant turns.
	History() []domain.ConversationTurn

	// Terminate ends the session. Used for the interrupt path.
	Terminate()
}
