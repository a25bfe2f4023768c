// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KnowledgeBase: Supplies the raw STIX corpus
//   - EmbeddingService: Converts text into fixed-dimension vectors
//   - VectorStore: The external similarity index (collections of keyed entries)
//   - LLMService: Streams chat completions for the assistant loop
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunLedger: Records ingest run outcomes for auditing. Without it,
//     audit falls back to recomputing counts from the knowledge base only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
