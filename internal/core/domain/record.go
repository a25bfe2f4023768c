package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RecordMeta is the fixed-shape metadata stored alongside each indexed
// document. Absent source values normalise to empty strings so the shape
// is identical for every record.
type RecordMeta struct {
	// MitreID is the catalogue id (or native STIX id fallback).
	MitreID string `json:"mitre_id"`

	// Name is the object name ("Unknown" when the source omits it).
	Name string `json:"name"`

	// Type is the STIX object category.
	Type string `json:"type"`

	// URL is the catalogue page, empty when no mitre-attack reference exists.
	URL string `json:"url"`

	// Platforms is the comma-joined platform list.
	Platforms string `json:"platforms"`

	// Deprecated is the stringified lifecycle flag ("true"/"false").
	Deprecated string `json:"deprecated"`
}

// Record is the canonical unit derived from one eligible AttackObject.
// Created once per object, never mutated afterwards, discarded after
// indexing.
type Record struct {
	// MitreID is the extracted catalogue id, used for reporting and as the
	// proposed index key.
	MitreID string

	// NativeID is the object's STIX id, the collision tie-break suffix.
	NativeID string

	// Document is the synthesized prose handed to the embedding service.
	Document string

	// Meta is the structured metadata persisted with the document.
	Meta RecordMeta
}

// IndexEntry is the keyed unit persisted in the vector store. Entries are
// created or overwritten by upsert and read by similarity search; this
// system never deletes them.
type IndexEntry struct {
	// Key is the resolved unique index key for this run.
	Key string

	// Vector is the embedding bound to the document.
	Vector []float32

	// Meta is the record metadata.
	Meta RecordMeta

	// Document is the synthesized prose.
	Document string
}

// joinList normalises a list-valued source field to a comma-joined string.
func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// Synthesize converts an eligible object into its canonical record.
// The document text is a deterministic concatenation: identical input
// yields byte-identical output, so re-ingestion is idempotent modulo
// embedding nondeterminism.
func Synthesize(obj AttackObject) Record {
	mitreID := obj.MitreID()

	name := obj.Name
	if name == "" {
		name = "Unknown"
	}

	header := fmt.Sprintf("%s: %s (%s)", mitreID, name, obj.Type)
	parts := []string{
		header,
		strings.Repeat("=", utf8.RuneCountInString(header)),
		"Description: " + obj.Description,
	}

	if platforms := joinList(obj.Platforms); platforms != "" {
		parts = append(parts, "Platforms: "+platforms)
	}
	if permissions := joinList(obj.Permissions); permissions != "" {
		parts = append(parts, "Permissions Required: "+permissions)
	}
	if obj.Detection != "" {
		parts = append(parts, "Detection: "+obj.Detection)
	}

	return Record{
		MitreID:  mitreID,
		NativeID: obj.ID,
		Document: strings.Join(parts, "\n\n"),
		Meta: RecordMeta{
			MitreID:    mitreID,
			Name:       name,
			Type:       obj.Type,
			URL:        obj.MitreURL(),
			Platforms:  joinList(obj.Platforms),
			Deprecated: strconv.FormatBool(obj.Deprecated),
		},
	}
}
