package cli

import (
	"context"
	"strings"
	"time"

	"github.com/halcyon-sec/attackrag/internal/config"
	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
)

// setupTestServices wires every package-level service to a benign stub and
// returns a cleanup that restores the previous wiring. Tests that need a
// specific behaviour override the relevant variable after calling this.
func setupTestServices() func() {
	prevConfig := appConfig
	prevStore := vectorStore
	prevEmbedder := embedder
	prevChat := chatModel
	prevLedger := runLedger
	prevIngest := ingestService
	prevRetrieval := retrievalService
	prevAudit := auditService
	prevSession := newSession
	prevWired := servicesWired

	cfg := config.Default()
	appConfig = &cfg
	vectorStore = &stubVectorStore{coll: &stubCollection{name: cfg.Chroma.Collection}}
	embedder = &stubEmbedder{}
	chatModel = &stubLLM{}
	runLedger = nil
	ingestService = &stubIngest{run: testIngestRun()}
	retrievalService = &stubRetrieval{docs: testRetrievedDocs()}
	auditService = &stubAuditor{report: &driving.AuditReport{
		Total:              823,
		SkippedByType:      98,
		SkippedByLifecycle: 34,
		Expected:           691,
		Actual:             691,
	}}
	newSession = func() driving.AssistantSession {
		return &stubSession{deltas: []string{"Process injection", " runs code in another process."}}
	}
	servicesWired = true

	return func() {
		appConfig = prevConfig
		vectorStore = prevStore
		embedder = prevEmbedder
		chatModel = prevChat
		runLedger = prevLedger
		ingestService = prevIngest
		retrievalService = prevRetrieval
		auditService = prevAudit
		newSession = prevSession
		servicesWired = prevWired
	}
}

// testIngestRun returns a canned run summary for output assertions.
func testIngestRun() *domain.IngestRun {
	finished := time.Date(2025, 6, 1, 12, 2, 0, 0, time.UTC)
	return &domain.IngestRun{
		ID:                 "run-1",
		StartedAt:          finished.Add(-2 * time.Minute),
		FinishedAt:         finished,
		Total:              823,
		Included:           691,
		SkippedByType:      98,
		SkippedByLifecycle: 34,
		Indexed:            689,
		Batches:            7,
		FailedIDs:          []string{"T1055", "T1003"},
	}
}

// testRetrievedDocs returns two canned retrieval hits.
func testRetrievedDocs() []domain.RetrievedDocument {
	return []domain.RetrievedDocument{
		{
			Document: "T1055: Process Injection (attack-pattern)\nDescription: Adversaries may inject code into processes.",
			Meta: domain.RecordMeta{
				MitreID: "T1055",
				Name:    "Process Injection",
				Type:    "attack-pattern",
				URL:     "https://attack.mitre.org/techniques/T1055",
			},
			Distance: 0.12,
		},
		{
			Document: "T1003: OS Credential Dumping (attack-pattern)\nDescription: Adversaries may dump credentials.",
			Meta: domain.RecordMeta{
				MitreID: "T1003",
				Name:    "OS Credential Dumping",
				Type:    "attack-pattern",
			},
			Distance: 0.34,
		},
	}
}

// stubIngest is a canned driving.IngestOrchestrator.
type stubIngest struct {
	run    *domain.IngestRun
	err    error
	called bool
}

func (s *stubIngest) Run(_ context.Context) (*domain.IngestRun, error) {
	s.called = true
	return s.run, s.err
}

// stubRetrieval is a canned driving.RetrievalService.
type stubRetrieval struct {
	docs       []domain.RetrievedDocument
	searchErr  error
	contextStr string
	contextErr error

	gotQuery string
	gotK     int
}

func (s *stubRetrieval) Search(_ context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	s.gotQuery = query
	s.gotK = k
	return s.docs, s.searchErr
}

func (s *stubRetrieval) Context(_ context.Context, _ string, _ int) (string, error) {
	return s.contextStr, s.contextErr
}

// stubAuditor is a canned driving.Auditor.
type stubAuditor struct {
	report *driving.AuditReport
	err    error
}

func (s *stubAuditor) Audit(_ context.Context) (*driving.AuditReport, error) {
	return s.report, s.err
}

// stubSession is a minimal assistant session: it answers every question
// with its canned deltas and honours blank input and exit commands.
type stubSession struct {
	deltas []string
	err    error
	state  domain.SessionState
	inputs []string
}

func (s *stubSession) HandleInput(_ context.Context, input string, onDelta domain.DeltaFunc) (string, error) {
	if s.state == domain.StateTerminated {
		return "", domain.ErrSessionTerminated
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}
	if lower := strings.ToLower(trimmed); lower == "exit" || lower == "quit" {
		s.state = domain.StateTerminated
		return "", nil
	}

	s.inputs = append(s.inputs, trimmed)
	if s.err != nil {
		return "", s.err
	}

	var full strings.Builder
	for _, d := range s.deltas {
		if onDelta != nil {
			onDelta(d)
		}
		full.WriteString(d)
	}
	return full.String(), nil
}

func (s *stubSession) State() domain.SessionState { return s.state }

func (s *stubSession) History() []domain.ConversationTurn { return nil }

func (s *stubSession) Terminate() { s.state = domain.StateTerminated }

// stubCollection is a canned driven.Collection.
type stubCollection struct {
	name  string
	count int
}

func (s *stubCollection) Name() string { return s.name }

func (s *stubCollection) Upsert(_ context.Context, _ []domain.IndexEntry) error { return nil }

func (s *stubCollection) Query(_ context.Context, _ []float32, _ int) ([]domain.RetrievedDocument, error) {
	return nil, nil
}

func (s *stubCollection) Count(_ context.Context) (int, error) { return s.count, nil }

// stubVectorStore is a canned driven.VectorStore.
type stubVectorStore struct {
	coll    *stubCollection
	pingErr error
	getErr  error
}

func (s *stubVectorStore) GetOrCreateCollection(_ context.Context, _ string) (driven.Collection, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.coll, nil
}

func (s *stubVectorStore) GetCollection(_ context.Context, _ string) (driven.Collection, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.coll, nil
}

func (s *stubVectorStore) Ping(_ context.Context) error { return s.pingErr }

func (s *stubVectorStore) Close() error { return nil }

// stubEmbedder is a canned driven.EmbeddingService.
type stubEmbedder struct {
	pingErr error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (s *stubEmbedder) ModelName() string { return "nomic-embed-text" }

func (s *stubEmbedder) Ping(_ context.Context) error { return s.pingErr }

func (s *stubEmbedder) Close() error { return nil }

// stubLLM is a canned driven.LLMService.
type stubLLM struct {
	pingErr error
}

func (s *stubLLM) ChatStream(_ context.Context, _ []domain.ConversationTurn, _ domain.DeltaFunc) (string, error) {
	return "", nil
}

func (s *stubLLM) ModelName() string { return "DeepHat/DeepHat-V1-7B" }

func (s *stubLLM) Ping(_ context.Context) error { return s.pingErr }

func (s *stubLLM) Close() error { return nil }
