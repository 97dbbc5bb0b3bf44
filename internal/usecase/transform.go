package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const (
	defaultPage    = 1
	defaultPerPage = 30
	maxPerPage     = 100
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// plan is the ordered sequence of upstream calls for one dispatch.
type plan struct {
	first   domain.Call
	steps   []plannedStep
	page    int
	perPage int
	dropped []string
}

type plannedStep struct {
	method string
	path   string
	body   map[string]any
}

// pathParams returns the placeholder names of a path template.
func pathParams(path string) []string {
	matches := placeholderRe.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// missingParams lists the mandatory parameters of rule that are absent or
// empty, including path placeholders and unsatisfied AnyOf groups.
func missingParams(rule domain.Rule, params domain.Params) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range append(pathParams(rule.Path), rule.Required...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if isEmpty(params[name]) {
			missing = append(missing, name)
		}
	}
	for _, group := range rule.AnyOf {
		found := false
		for _, name := range group {
			if !isEmpty(params[name]) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, strings.Join(group, " or "))
		}
	}
	return missing
}

// buildPlan applies the rule's transformations to params, which it consumes.
func buildPlan(rule domain.Rule, params domain.Params) (*plan, error) {
	p := &plan{}

	// 1. Integer coercion and defaults
	for _, name := range rule.Integers {
		v, ok := params[name]
		if !ok || isEmpty(v) {
			continue
		}
		n, err := toInteger(v)
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid value for %s: %v", name, v)}
		}
		params[name] = n
	}
	for k, v := range rule.Defaults {
		if isEmpty(params[k]) {
			params[k] = v
		}
	}

	// 2. Pagination
	queryNames := rule.Query
	if rule.Paginated {
		page, perPage, err := pagination(params)
		if err != nil {
			return nil, err
		}
		p.page, p.perPage = page, perPage
		params["page"], params["per_page"] = page, perPage
		queryNames = append(append([]string{}, rule.Query...), "page", "per_page")
	}

	// 3. Path placeholders
	path := rule.Path
	for _, name := range pathParams(rule.Path) {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(formatScalar(params[name])))
		delete(params, name)
	}

	// 4. Query string
	query := url.Values{}
	quoted := toSet(rule.QuotedQuery)
	for _, name := range queryNames {
		v, ok := params[name]
		delete(params, name)
		if !ok || isEmpty(v) {
			continue
		}
		s := formatQueryValue(v)
		if quoted[name] {
			s = `"` + s + `"`
		}
		query.Set(renamed(rule, name), s)
	}

	// 5. Body with renames
	body := make(map[string]any)
	spread := make(map[string]bool)
	if rule.Spread != "" {
		if m, ok := params[rule.Spread].(map[string]any); ok {
			for k, v := range m {
				body[k] = v
				spread[k] = true
			}
		}
		delete(params, rule.Spread)
	}
	for k, v := range params {
		if v == nil {
			continue
		}
		name := renamed(rule, k)
		body[name] = v
		delete(spread, name)
	}

	// 6. Nested placement
	for _, n := range rule.Nestings {
		v, ok := body[n.Param]
		if !ok || len(n.Into) == 0 {
			continue
		}
		delete(body, n.Param)
		setNested(body, n.Into, v)
	}

	// 7. Envelope wrapping
	for _, env := range rule.Envelopes {
		wrapEnvelope(body, env)
	}

	// 8. Fixed values
	for k, v := range rule.Fixed {
		body[k] = v
	}

	// 9. Removal of unrecognized parameters
	allowed := allowedKeys(rule)
	for k := range body {
		if !allowed[k] && !spread[k] {
			delete(body, k)
			p.dropped = append(p.dropped, k)
		}
	}

	// 10. Follow-up steps claim their keys
	for _, st := range rule.Steps {
		stepBody := make(map[string]any)
		for _, key := range st.Claims {
			if v, ok := body[key]; ok {
				stepBody[key] = v
				delete(body, key)
			}
		}
		if len(stepBody) > 0 {
			p.steps = append(p.steps, plannedStep{method: st.Method, path: st.Path, body: stepBody})
		}
	}

	p.first = domain.Call{Method: rule.Method, Path: path, Query: query}
	switch {
	case len(body) > 0:
		p.first.Body = body
	case carriesBody(rule.Method) && len(rule.Params) > 0 && len(rule.Fixed) == 0:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("no fields provided for %s", rule.Action)}
	}
	return p, nil
}

func pagination(params domain.Params) (int, int, error) {
	page, perPage := defaultPage, defaultPerPage
	if v := params["page"]; !isEmpty(v) {
		n, err := toInteger(v)
		if err != nil {
			return 0, 0, &domain.ValidationError{Message: fmt.Sprintf("invalid value for page: %v", v)}
		}
		page = n
	}
	if v := params["per_page"]; !isEmpty(v) {
		n, err := toInteger(v)
		if err != nil {
			return 0, 0, &domain.ValidationError{Message: fmt.Sprintf("invalid value for per_page: %v", v)}
		}
		perPage = n
	}
	if page < 1 {
		return 0, 0, &domain.ValidationError{Message: "page number must be greater than 0"}
	}
	if perPage < 1 || perPage > maxPerPage {
		return 0, 0, &domain.ValidationError{Message: fmt.Sprintf("page size must be between 1 and %d", maxPerPage)}
	}
	return page, perPage, nil
}

func renamed(rule domain.Rule, name string) string {
	if to, ok := rule.Renames[name]; ok {
		return to
	}
	return name
}

func allowedKeys(rule domain.Rule) map[string]bool {
	allowed := make(map[string]bool)
	for _, p := range rule.Params {
		allowed[renamed(rule, p)] = true
	}
	for _, n := range rule.Nestings {
		if len(n.Into) > 0 {
			allowed[n.Into[0]] = true
		}
	}
	for _, env := range rule.Envelopes {
		allowed[env.Container] = true
	}
	for k := range rule.Fixed {
		allowed[k] = true
	}
	return allowed
}

// setNested stores v at path inside m, copying intermediate maps so values
// owned by the caller are never modified.
func setNested(m map[string]any, path []string, v any) {
	if len(path) == 1 {
		m[path[0]] = v
		return
	}
	child, _ := m[path[0]].(map[string]any)
	next := make(map[string]any, len(child)+1)
	for k, x := range child {
		next[k] = x
	}
	m[path[0]] = next
	setNested(next, path[1:], v)
}

// wrapEnvelope moves env.Fields from the top level of body into
// env.Container and wraps every member as {env.Inner: value}.
func wrapEnvelope(body map[string]any, env domain.Envelope) {
	container := make(map[string]any)
	if existing, ok := body[env.Container].(map[string]any); ok {
		for k, v := range existing {
			container[k] = v
		}
	}
	for _, f := range env.Fields {
		if v, ok := body[f]; ok {
			delete(body, f)
			container[f] = v
		}
	}
	if len(container) == 0 {
		return
	}
	for k, v := range container {
		if m, ok := v.(map[string]any); ok {
			if _, wrapped := m[env.Inner]; wrapped {
				continue
			}
		}
		container[k] = map[string]any{env.Inner: v}
	}
	body[env.Container] = container
}

func carriesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// isEmpty treats nil, blank strings and empty collections as absent.
// Numbers and booleans are never empty.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	}
	return false
}

func toInteger(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	}
	return 0, fmt.Errorf("%v is not an integer", v)
}

func formatQueryValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, formatScalar(item))
		}
		return strings.Join(parts, ",")
	}
	return formatScalar(v)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
