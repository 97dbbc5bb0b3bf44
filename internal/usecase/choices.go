package usecase

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// validateChoices checks the supplied values of the rule's choice fields
// against the allowed values in the live schema. Fields that are absent from
// the request, unknown to the schema or not enumerated are skipped.
func validateChoices(schema domain.FieldSchema, fields []string, params domain.Params) error {
	var problems []string
	for _, name := range fields {
		v, ok := params[name]
		if !ok || isEmpty(v) {
			continue
		}
		def, ok := schema.Field(name)
		if !ok || len(def.Choices) == 0 {
			continue
		}
		s := choiceSchema(def)
		if err := s.VisitJSON(formatScalar(v)); err != nil {
			problems = append(problems, fmt.Sprintf("%s=%s (allowed: %s)", name, formatScalar(v), describeChoices(def.Choices)))
		}
	}
	if len(problems) > 0 {
		return &domain.ValidationError{Message: "invalid value(s): " + strings.Join(problems, "; ")}
	}
	return nil
}

// choiceSchema builds a string enum accepting either the ID or the display
// value of every choice.
func choiceSchema(def domain.FieldDefinition) *openapi3.Schema {
	enum := make([]any, 0, 2*len(def.Choices))
	for _, c := range def.Choices {
		if c.ID != nil {
			enum = append(enum, formatScalar(c.ID))
		}
		if c.Value != "" {
			enum = append(enum, c.Value)
		}
	}
	return openapi3.NewStringSchema().WithEnum(enum...)
}

func describeChoices(choices []domain.FieldChoice) string {
	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		if c.ID != nil {
			parts = append(parts, fmt.Sprintf("%s=%s", formatScalar(c.ID), c.Value))
			continue
		}
		parts = append(parts, c.Value)
	}
	return strings.Join(parts, ", ")
}
