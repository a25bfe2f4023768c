package domain

// KeyResolver assigns each record a stable, unique index key within a
// single ingestion run. The first record proposing a catalogue id keeps
// the bare id; later records proposing the same id get a composite key
// suffixed with their native STIX id. Native ids are globally unique in
// the corpus, so the composite form cannot collide.
//
// Catalogue ids should be unique for active objects, but the corpus does
// not guarantee it. The composite fallback is deliberate: worst case is
// a long key, never a lost record.
//
// Resolution order matters. Callers must feed records in original bundle
// order so collision tie-breaking is reproducible across runs.
type KeyResolver struct {
	assigned map[string]bool
}

// NewKeyResolver creates a resolver with an empty assigned-key set.
// One resolver serves exactly one ingestion run.
func NewKeyResolver() *KeyResolver {
	return &KeyResolver{assigned: make(map[string]bool)}
}

// Resolve returns the index key for a record, recording it as assigned.
// Never fails.
func (r *KeyResolver) Resolve(mitreID, nativeID string) string {
	key := mitreID
	if r.assigned[key] {
		key = mitreID + "_" + nativeID
	}
	r.assigned[key] = true
	return key
}
