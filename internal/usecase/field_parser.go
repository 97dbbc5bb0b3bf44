package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var errNoFieldList = errors.New("response contains no field list")

// parseFieldSchema converts an upstream field payload into a FieldSchema.
// The payload is either the field list itself or an object holding it.
func parseFieldSchema(entity string, payload any, fetchedAt time.Time) (domain.FieldSchema, error) {
	list, ok := findList(payload)
	if !ok {
		return domain.FieldSchema{}, errNoFieldList
	}
	return domain.FieldSchema{
		Entity:    entity,
		FetchedAt: fetchedAt,
		Fields:    parseFields(list),
	}, nil
}

func findList(payload any) ([]any, bool) {
	switch v := payload.(type) {
	case []any:
		return v, true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if list, ok := v[k].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

func parseFields(list []any) []domain.FieldDefinition {
	fields := make([]domain.FieldDefinition, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := firstString(m, "name")
		if name == "" {
			continue
		}
		raw, _ := json.Marshal(m)
		fields = append(fields, domain.FieldDefinition{
			Name:     name,
			Label:    firstString(m, "label", "label_for_agents"),
			Type:     firstString(m, "field_type", "type"),
			Required: truthy(m["required"]) || truthy(m["required_for_agents"]),
			Choices:  parseChoices(m["choices"]),
			Raw:      raw,
		})
		if nested, ok := m["nested_fields"].([]any); ok {
			fields = append(fields, parseFields(nested)...)
		}
	}
	return fields
}

func parseChoices(v any) []domain.FieldChoice {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	choices := make([]domain.FieldChoice, 0, len(list))
	for _, c := range list {
		switch c := c.(type) {
		case map[string]any:
			choices = append(choices, domain.FieldChoice{
				ID:    c["id"],
				Value: firstString(c, "value", "name", "label"),
			})
		case []any:
			// [label, id] pairs
			if len(c) == 2 {
				choices = append(choices, domain.FieldChoice{ID: c[1], Value: formatScalar(c[0])})
			}
		case nil:
		default:
			choices = append(choices, domain.FieldChoice{Value: formatScalar(c)})
		}
	}
	return choices
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}

// formatScalar renders a loosely typed value the way the upstream API
// expects it in paths and query strings.
func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}
	return fmt.Sprint(v)
}
