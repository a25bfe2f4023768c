package domain

import (
	"fmt"
	"strings"
)

// ContextSeparator joins formatted entries in a context block.
const ContextSeparator = "\n\n---\n\n"

// RetrievedDocument is one similarity-search hit in store rank order.
type RetrievedDocument struct {
	// Document is the stored synthesized prose.
	Document string

	// Meta is the stored record metadata.
	Meta RecordMeta

	// Distance is the store's distance from the query vector.
	// Smaller is closer; rank order is ascending distance.
	Distance float64
}

// ContextBlock formats retrieved documents into the single context string
// handed to the chat model. Each entry is prefixed with a source line and
// entries keep the store's rank order; no re-ranking happens here.
func ContextBlock(docs []RetrievedDocument) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		source := fmt.Sprintf("Source: %s (%s)", doc.Meta.MitreID, doc.Meta.Name)
		parts = append(parts, source+"\n"+doc.Document)
	}
	return strings.Join(parts, ContextSeparator)
}
