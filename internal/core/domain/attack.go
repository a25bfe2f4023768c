package domain

// MitreSourceName is the external-reference source that carries ATT&CK
// catalogue identifiers (T-codes, S-codes, G-codes and so on).
const MitreSourceName = "mitre-attack"

// STIX object types eligible for indexing.
const (
	TypeAttackPattern  = "attack-pattern"
	TypeMalware        = "malware"
	TypeTool           = "tool"
	TypeIntrusionSet   = "intrusion-set"
	TypeCourseOfAction = "course-of-action"
	TypeCampaign       = "campaign"
)

// indexableTypes is the fixed allow-set of semantic categories.
// Relationship, identity and marking objects carry no prose worth embedding.
var indexableTypes = map[string]bool{
	TypeAttackPattern:  true,
	TypeMalware:        true,
	TypeTool:           true,
	TypeIntrusionSet:   true,
	TypeCourseOfAction: true,
	TypeCampaign:       true,
}

// ExternalReference is one entry in a STIX object's external_references list.
type ExternalReference struct {
	// SourceName identifies the referencing authority (e.g., "mitre-attack").
	SourceName string `json:"source_name"`

	// ExternalID is the authority's catalogue code (e.g., "T1055").
	ExternalID string `json:"external_id"`

	// URL is the authority's page for this object.
	URL string `json:"url"`
}

// AttackObject is one raw STIX object from the knowledge base bundle.
// It is immutable for the lifetime of an ingestion run; the bundle file
// owns it and the pipeline only reads it.
type AttackObject struct {
	// ID is the native STIX identifier (e.g., "attack-pattern--fb8d023d-...").
	ID string `json:"id"`

	// Type is the STIX object category tag.
	Type string `json:"type"`

	// Name is the human-readable object name.
	Name string `json:"name"`

	// Description is the free-form prose describing the object.
	Description string `json:"description"`

	// Revoked marks objects withdrawn by the corpus maintainers.
	Revoked bool `json:"revoked"`

	// Deprecated marks objects superseded but kept for reference.
	Deprecated bool `json:"x_mitre_deprecated"`

	// Platforms lists the operating systems or environments the object applies to.
	Platforms []string `json:"x_mitre_platforms"`

	// Permissions lists the privilege levels required to execute the technique.
	Permissions []string `json:"x_mitre_permissions_required"`

	// Detection is the corpus's detection guidance prose.
	Detection string `json:"x_mitre_detection"`

	// ExternalReferences carries the catalogue identifiers and URLs.
	ExternalReferences []ExternalReference `json:"external_references"`
}

// Indexable reports whether the object's type is in the allow-set.
func (o *AttackObject) Indexable() bool {
	return indexableTypes[o.Type]
}

// Active reports whether the object is neither revoked nor deprecated.
func (o *AttackObject) Active() bool {
	return !o.Revoked && !o.Deprecated
}

// MitreID returns the ATT&CK catalogue id from the object's external
// references. The first reference whose source is mitre-attack decides;
// when it carries no id, or no such reference exists, the native STIX id
// is returned so the object stays addressable.
func (o *AttackObject) MitreID() string {
	for _, ref := range o.ExternalReferences {
		if ref.SourceName == MitreSourceName {
			if ref.ExternalID != "" {
				return ref.ExternalID
			}
			break
		}
	}
	return o.ID
}

// MitreURL returns the catalogue URL from the first mitre-attack reference,
// or an empty string when none exists.
func (o *AttackObject) MitreURL() string {
	for _, ref := range o.ExternalReferences {
		if ref.SourceName == MitreSourceName {
			return ref.URL
		}
	}
	return ""
}

// FilterResult is the outcome of selecting eligible objects from a bundle.
// Invariant: Total() == len(Included) + SkippedByType + SkippedByLifecycle.
type FilterResult struct {
	// Included holds the eligible objects in original bundle order.
	Included []AttackObject

	// SkippedByType counts objects whose type is outside the allow-set.
	SkippedByType int

	// SkippedByLifecycle counts allow-set objects that are revoked or deprecated.
	SkippedByLifecycle int
}

// Total returns the number of objects the filter examined.
func (r *FilterResult) Total() int {
	return len(r.Included) + r.SkippedByType + r.SkippedByLifecycle
}

// FilterObjects selects the objects eligible for indexing. An object is
// included iff its type is in the allow-set and it is neither revoked nor
// deprecated. Input order is preserved; collision tie-breaking in the
// identity resolver depends on it being stable.
func FilterObjects(objects []AttackObject) FilterResult {
	result := FilterResult{Included: make([]AttackObject, 0, len(objects))}
	for _, obj := range objects {
		if !obj.Indexable() {
			result.SkippedByType++
			continue
		}
		if !obj.Active() {
			result.SkippedByLifecycle++
			continue
		}
		result.Included = append(result.Included, obj)
	}
	return result
}
