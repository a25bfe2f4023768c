// Package driving defines interfaces that external actors (CLI, MCP) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// Key Interfaces:
//
//   - IngestOrchestrator: Runs the filter/synthesize/embed/index pipeline
//   - RetrievalService: Similarity search and context assembly
//   - AssistantSession: The interactive chat state machine
//   - Auditor: Compares corpus-derived counts against the live index
//
// Implementations of these interfaces live in internal/core/services.
package driving
