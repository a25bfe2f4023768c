package driven

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// KnowledgeBase supplies the raw corpus for an ingestion or audit pass.
// The backing file owns the objects; callers only read them.
type KnowledgeBase interface {
	// Load reads and validates the corpus, returning every object in
	// file order. Returns domain.ErrKnowledgeBaseMissing when the file
	// does not exist and domain.ErrInvalidBundle when it fails
	// structural validation.
	Load(ctx context.Context) ([]domain.AttackObject, error)
}
