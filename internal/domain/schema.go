package domain

import (
	"encoding/json"
	"time"
)

// FieldDefinition describes one form field configured for an entity in the
// Freshservice organisation.
type FieldDefinition struct {
	// Name is the API name of the field (e.g. "priority", "cf_region").
	Name string `json:"name"`
	// Label is the human readable label shown in the Freshservice UI.
	Label string `json:"label,omitempty"`
	// Type is the upstream data type tag (e.g. "dropdown", "text", "number").
	Type string `json:"type,omitempty"`
	// Required reports whether the field is mandatory for agents.
	Required bool `json:"required"`
	// Choices lists the allowed values for enumerated fields.
	Choices []FieldChoice `json:"choices,omitempty"`
	// Raw keeps the upstream definition verbatim for callers that need
	// attributes this type does not model.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// FieldChoice is one allowed value of an enumerated field. Freshservice
// identifies choices either by a numeric ID, by their display value, or both.
type FieldChoice struct {
	ID    any    `json:"id,omitempty"`
	Value string `json:"value"`
}

// FieldSchema is the set of field definitions for one entity as returned by
// the upstream API at FetchedAt. It is replaced wholesale on refresh.
type FieldSchema struct {
	Entity    string            `json:"entity"`
	FetchedAt time.Time         `json:"fetched_at"`
	Fields    []FieldDefinition `json:"fields"`
}

// Field returns the definition with the given name.
func (s FieldSchema) Field(name string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Names returns the field names in upstream order.
func (s FieldSchema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// CacheEntry wraps a FieldSchema with the moment it was stored and how long
// it stays valid.
type CacheEntry struct {
	Schema    FieldSchema   `json:"schema"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// ValidAt reports whether the entry is still fresh at now.
// An entry is valid iff now - CreatedAt < TTL.
func (e CacheEntry) ValidAt(now time.Time) bool {
	return now.Sub(e.CreatedAt) < e.TTL
}

// FieldEndpoint tells discovery where the field definitions of an entity
// live. Paginated endpoints are read page by page until an empty page.
type FieldEndpoint struct {
	Path      string
	Paginated bool
}
