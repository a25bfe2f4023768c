// Package domain defines the core business entities for attackrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AttackObject: A raw STIX object from the knowledge base bundle
//   - Record: Canonical document text plus metadata synthesized from one object
//   - IndexEntry: The keyed unit persisted in the vector store
//   - ConversationTurn: One (role, content) pair of assistant history
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
