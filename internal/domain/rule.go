package domain

// Nesting places a flat caller parameter at a nested location of the
// upstream request body, merging with whatever is already there.
// For example {Param: "maintenance_window_id", Into: ["maintenance_window", "id"]}.
type Nesting struct {
	Param string
	Into  []string
}

// Envelope groups several flat parameters under a container object and wraps
// each value in a single-key object. With Container "planning_fields" and
// Inner "description", a flat rollout_plan="x" becomes
// {"planning_fields": {"rollout_plan": {"description": "x"}}}.
//
// Callers may also pass the container itself as a mapping; its members are
// wrapped the same way unless already wrapped.
type Envelope struct {
	Container string
	Fields    []string
	Inner     string
}

// Step is a follow-up upstream call of a multi-step write. It is addressed at
// the identifier returned by the first call and carries the body keys listed
// in Claims. A step with nothing to send is skipped.
type Step struct {
	Method string
	// Path may reference the created identifier as {id}.
	Path   string
	Claims []string
}

// Rule is the declarative description of how one (resource, action) pair
// maps onto upstream calls. Parameter names are caller-facing names unless
// stated otherwise. Rules are built once at start up and never mutated.
type Rule struct {
	Resource    string
	Action      string
	Description string

	Method string
	// Path is relative to the API root. Placeholders like {change_id} are
	// filled from parameters and are implicitly mandatory.
	Path string

	// Required parameters must be present and non-empty.
	Required []string
	// AnyOf lists groups where at least one member must be present.
	AnyOf [][]string
	// Params are recognized body parameters. Anything else is dropped.
	Params []string
	// Query parameters are sent in the query string instead of the body.
	Query []string
	// QuotedQuery parameters are wrapped in double quotes exactly once
	// before being sent. They must also be listed in Query.
	QuotedQuery []string
	// Paginated actions accept page/per_page and return flattened
	// pagination metadata.
	Paginated bool

	// Integers are coerced to integers before sending.
	Integers []string
	// Defaults apply to absent parameters.
	Defaults map[string]any
	// Renames maps caller names to upstream names.
	Renames map[string]string
	// Nestings use upstream (post rename) names.
	Nestings []Nesting
	// Envelopes use upstream (post rename) names.
	Envelopes []Envelope
	// Fixed values are always present in the body and win over input.
	Fixed map[string]any
	// Spread names a mapping parameter whose members are merged into the
	// body. Explicit top-level parameters win over spread members.
	Spread string

	// ValidateChoices lists fields whose values are checked against the
	// live field schema of FieldEntity.
	ValidateChoices []string
	FieldEntity     string

	// Steps are follow-up calls of a multi-step write.
	Steps []Step

	// SuccessMessage is returned when the upstream answers without content.
	SuccessMessage string
}

// Key identifies the rule in a rule table.
func (r Rule) Key() RuleKey {
	return RuleKey{Resource: r.Resource, Action: r.Action}
}

// UsesDynamicFields reports whether dispatching the rule needs the live
// field schema.
func (r Rule) UsesDynamicFields() bool {
	return len(r.ValidateChoices) > 0
}

// RuleKey is the (resource, action) pair a Rule is registered under.
type RuleKey struct {
	Resource string
	Action   string
}
