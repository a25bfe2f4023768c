package services

import (
	"context"
	"strings"
	"sync"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
	"github.com/halcyon-sec/attackrag/internal/logger"
)

// Ensure ChatSession implements the interface.
var _ driving.AssistantSession = (*ChatSession)(nil)

// ChatSession drives one retrieval-augmented conversation. Each turn
// retrieves fresh context for the current input, sends the full history
// behind a rebuilt system prompt, and records both sides on success.
//
// Terminate may be called from another goroutine (the interrupt path);
// everything else is driven from a single input loop.
type ChatSession struct {
	retriever driving.RetrievalService
	llm       driven.LLMService
	topK      int

	mu      sync.Mutex
	state   domain.SessionState
	history []domain.ConversationTurn
}

// NewChatSession creates a session in the awaiting-input state.
func NewChatSession(retriever driving.RetrievalService, llm driven.LLMService, topK int) *ChatSession {
	if topK < 1 {
		topK = 3
	}

	return &ChatSession{
		retriever: retriever,
		llm:       llm,
		topK:      topK,
		state:     domain.StateAwaitingInput,
	}
}

// HandleInput processes one user input through the retrieve-then-generate
// cycle and returns the assistant's full reply.
func (s *ChatSession) HandleInput(ctx context.Context, input string, onDelta domain.DeltaFunc) (string, error) {
	if s.State() == domain.StateTerminated {
		return "", domain.ErrSessionTerminated
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if isExitCommand(input) {
		s.Terminate()
		return "", nil
	}

	// Retrieve context for this turn. A retrieval failure degrades to an
	// empty context block; the model still answers from general knowledge.
	s.setState(domain.StateRetrieving)
	contextBlock, err := s.retriever.Context(ctx, input, s.topK)
	if err != nil {
		logger.Error("Error retrieving context: %v", err)
		contextBlock = ""
	}

	s.setState(domain.StateGenerating)
	reply, err := s.llm.ChatStream(ctx, s.buildMessages(contextBlock, input), onDelta)
	if err != nil {
		// History stays as it was before this turn.
		s.setState(domain.StateAwaitingInput)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		domain.ConversationTurn{Role: domain.RoleUser, Content: input},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: reply},
	)
	if s.state != domain.StateTerminated {
		s.state = domain.StateAwaitingInput
	}
	return reply, nil
}

// State returns the current session state.
func (s *ChatSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the accumulated turns.
func (s *ChatSession) History() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]domain.ConversationTurn, len(s.history))
	copy(history, s.history)
	return history
}

// Terminate ends the session. Terminal and idempotent.
func (s *ChatSession) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateTerminated
}

// setState moves the session to st unless it has already terminated.
func (s *ChatSession) setState(st domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateTerminated {
		return
	}
	s.state = st
}

// buildMessages assembles the turn's message sequence: the rebuilt system
// prompt, the full history, then the current input.
func (s *ChatSession) buildMessages(contextBlock, input string) []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.ConversationTurn, 0, len(s.history)+2)
	messages = append(messages, domain.ConversationTurn{
		Role:    domain.RoleSystem,
		Content: domain.SystemPrompt(contextBlock),
	})
	messages = append(messages, s.history...)
	messages = append(messages, domain.ConversationTurn{
		Role:    domain.RoleUser,
		Content: input,
	})
	return messages
}

// isExitCommand reports whether the trimmed input ends the session.
func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
