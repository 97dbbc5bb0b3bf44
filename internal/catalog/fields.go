package catalog

import "github.com/i2y/freshservice-mcp/internal/domain"

// FieldEndpoints maps every entity with discoverable form fields to the
// endpoint that lists them.
func FieldEndpoints() map[string]domain.FieldEndpoint {
	return map[string]domain.FieldEndpoint{
		"ticket":     {Path: "ticket_form_fields"},
		"change":     {Path: "change_form_fields"},
		"problem":    {Path: "problem_form_fields"},
		"release":    {Path: "release_form_fields"},
		"agent":      {Path: "agent_fields"},
		"requester":  {Path: "requester_fields"},
		"department": {Path: "department_fields"},
		"asset_type": {Path: "asset_types", Paginated: true},
	}
}

// ParamKind is the JSON type a tool parameter is advertised with.
type ParamKind int

const (
	KindString ParamKind = iota
	KindNumber
	KindBoolean
	KindObject
	KindArray
)

var paramKinds = map[string]ParamKind{
	// objects
	"custom_fields":    KindObject,
	"ticket_fields":    KindObject,
	"asset_fields":     KindObject,
	"type_fields":      KindObject,
	"task_fields":      KindObject,
	"group_fields":     KindObject,
	"planning_fields":  KindObject,
	"analysis_fields":  KindObject,
	"requester_fields": KindObject,
	"notification":     KindObject,

	// arrays
	"assets":            KindArray,
	"impacted_services": KindArray,
	"affected_services": KindArray,
	"cc_emails":         KindArray,
	"bcc_emails":        KindArray,
	"approver_ids":      KindArray,
	"department_ids":    KindArray,
	"agent_ids":         KindArray,
	"relationships":     KindArray,
	"relationship_ids":  KindArray,
	"secondary_emails":  KindArray,
	"domains":           KindArray,
	"tags":              KindArray,
	"keywords":          KindArray,

	// booleans
	"occasional":         KindBoolean,
	"known_error":        KindBoolean,
	"billable":           KindBoolean,
	"auto_ticket_assign": KindBoolean,
	"default_category":   KindBoolean,
	"trashed":            KindBoolean,
	"is_private":         KindBoolean,
	"can_see_all_tickets_from_associated_departments": KindBoolean,
}

// KindOf returns the advertised type of a parameter of rule.
func KindOf(rule domain.Rule, param string) ParamKind {
	if k, ok := paramKinds[param]; ok {
		return k
	}
	for _, name := range rule.Integers {
		if name == param {
			return KindNumber
		}
	}
	if rule.Paginated && (param == "page" || param == "per_page") {
		return KindNumber
	}
	return KindString
}

// ParamsOf lists every caller-facing parameter of rule in a stable order:
// path placeholders, then required, body and query parameters.
func ParamsOf(rule domain.Rule) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	for _, m := range placeholderRe.FindAllStringSubmatch(rule.Path, -1) {
		add(m[1])
	}
	add(rule.Required...)
	for _, group := range rule.AnyOf {
		add(group...)
	}
	add(rule.Params...)
	add(rule.Spread)
	add(rule.Query...)
	if rule.Paginated {
		add("page", "per_page")
	}
	return out
}
