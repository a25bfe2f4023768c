// Package attack loads and validates the MITRE ATT&CK knowledge base.
//
// The knowledge base is a STIX 2.1 bundle: a single JSON document with an
// "objects" array. This package implements driven.KnowledgeBase by reading
// the bundle from disk, checking its structure against an embedded JSON
// schema and decoding the objects into domain types. Semantic filtering
// (allow-set, lifecycle flags) stays in the domain layer.
package attack

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
)

// Ensure Bundle implements the interface.
var _ driven.KnowledgeBase = (*Bundle)(nil)

// bundleSchema is the structural contract a knowledge base file must meet.
//
//go:embed bundle_schema.json
var bundleSchema string

// Bundle is a file-backed knowledge base. The file is re-read on every
// Load so repeated ingest runs observe corpus updates.
type Bundle struct {
	path string
}

// bundleFile mirrors the STIX bundle envelope.
type bundleFile struct {
	Objects []domain.AttackObject `json:"objects"`
}

// NewBundle creates a knowledge base backed by the STIX bundle at path.
// The constructor does not touch the file; existence is checked on Load.
func NewBundle(path string) *Bundle {
	return &Bundle{path: path}
}

// Path returns the bundle file path.
func (b *Bundle) Path() string {
	return b.path
}

// Load reads, validates and decodes the bundle.
func (b *Bundle) Load(_ context.Context) ([]domain.AttackObject, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrKnowledgeBaseMissing, b.path)
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	if err := validateBundle(data); err != nil {
		return nil, err
	}

	var bundle bundleFile
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: decode objects: %v", domain.ErrInvalidBundle, err)
	}

	return bundle.Objects, nil
}

// validateBundle checks the raw document against the embedded schema.
// Violations are joined into the error so the operator sees every problem
// in one pass instead of fixing them one run at a time.
func validateBundle(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(bundleSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBundle, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidBundle, strings.Join(violations, "; "))
}
