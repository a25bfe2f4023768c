package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleSystem carries the per-turn instruction and context block.
	RoleSystem Role = "system"

	// RoleUser is the human side of the conversation.
	RoleUser Role = "user"

	// RoleAssistant is the model side of the conversation.
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one (role, content) pair in the session history.
// History lives for the current session only; nothing is persisted.
type ConversationTurn struct {
	// Role is who authored the turn.
	Role Role

	// Content is the turn text.
	Content string
}

// DeltaFunc receives one streamed completion fragment. Fragments arrive
// in generation order; implementations relay them to the output surface.
type DeltaFunc func(delta string)

// SessionState identifies where the assistant loop is in its cycle.
type SessionState int

const (
	// StateAwaitingInput means the session is idle between turns.
	StateAwaitingInput SessionState = iota

	// StateRetrieving means the session is embedding the query and
	// searching the vector store.
	StateRetrieving

	// StateGenerating means the session is consuming the completion stream.
	StateGenerating

	// StateTerminated means the session ended on an exit command or
	// interrupt. Terminal; no further input is accepted.
	StateTerminated
)

// String returns the human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting-input"
	case StateRetrieving:
		return "retrieving"
	case StateGenerating:
		return "generating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// systemDirective is the fixed persona instruction sent with every turn.
const systemDirective = "You are an expert AI SOC Analyst assistant. " +
	"Use the provided MITRE ATT&CK context to answer the user's question accurately. " +
	"If the answer is not in the context, use your general knowledge but mention that it's not in the specific retrieved data."

// SystemPrompt builds the system instruction for one turn by embedding
// the retrieved context block after the persona directive.
func SystemPrompt(contextBlock string) string {
	return systemDirective + "\n\nCONTEXT:\n" + contextBlock
}
