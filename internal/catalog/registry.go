// Package catalog holds the static resource catalog: the transformation rule
// of every (resource, action) pair and the scopes that group resources.
package catalog

import (
	"sort"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// Scope names.
const (
	ScopeTickets     = "tickets"
	ScopeChanges     = "changes"
	ScopeProblems    = "problems"
	ScopeReleases    = "releases"
	ScopeAssets      = "assets"
	ScopeAgents      = "agents"
	ScopeRequesters  = "requesters"
	ScopeDepartments = "departments"
	ScopeProducts    = "products"
	ScopeSolutions   = "solutions"
	ScopeMisc        = "misc"
	ScopeStatusPage  = "status_page"
)

// Registry maps scope names to the rules of the resources they enable.
// It is immutable after construction.
type Registry struct {
	scopes map[string][]domain.Rule
}

// NewRegistry returns the registry of every built-in scope.
func NewRegistry() *Registry {
	return &Registry{scopes: map[string][]domain.Rule{
		ScopeTickets:     ticketRules(),
		ScopeChanges:     changeRules(),
		ScopeProblems:    problemRules(),
		ScopeReleases:    releaseRules(),
		ScopeAssets:      assetRules(),
		ScopeAgents:      agentRules(),
		ScopeRequesters:  requesterRules(),
		ScopeDepartments: departmentRules(),
		ScopeProducts:    productRules(),
		ScopeSolutions:   solutionRules(),
		ScopeMisc:        miscRules(),
		ScopeStatusPage:  statusPageRules(),
	}}
}

// Scopes lists the registered scope names, sorted.
func (r *Registry) Scopes() []string {
	out := make([]string, 0, len(r.scopes))
	for name := range r.scopes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ResourcesFor returns the sorted union of the resources registered under
// scopes. An empty selection means every scope. Unknown names fail with
// *domain.UnknownScopeError naming all of them.
func (r *Registry) ResourcesFor(scopes []string) ([]string, error) {
	if len(scopes) == 0 {
		scopes = r.Scopes()
	}
	var unknown []string
	seen := make(map[string]bool)
	for _, name := range scopes {
		rules, ok := r.scopes[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		for _, rule := range rules {
			seen[rule.Resource] = true
		}
	}
	if len(unknown) > 0 {
		return nil, &domain.UnknownScopeError{Scopes: unknown, Valid: r.Scopes()}
	}
	out := make([]string, 0, len(seen))
	for res := range seen {
		out = append(out, res)
	}
	sort.Strings(out)
	return out, nil
}

// Table builds the rule table holding only the given resources. Resources
// that are not selected are absent, not hidden.
func (r *Registry) Table(resources []string) *Table {
	active := make(map[string]bool, len(resources))
	for _, res := range resources {
		active[res] = true
	}
	t := &Table{
		rules:   make(map[domain.RuleKey]domain.Rule),
		actions: make(map[string][]string),
	}
	for _, scope := range r.Scopes() {
		for _, rule := range r.scopes[scope] {
			if !active[rule.Resource] {
				continue
			}
			if _, dup := t.rules[rule.Key()]; !dup {
				t.actions[rule.Resource] = append(t.actions[rule.Resource], rule.Action)
			}
			t.rules[rule.Key()] = rule
		}
	}
	for _, actions := range t.actions {
		sort.Strings(actions)
	}
	return t
}

// Table is the rule lookup used by the dispatcher. It implements
// usecase.RuleSet.
type Table struct {
	rules   map[domain.RuleKey]domain.Rule
	actions map[string][]string
}

// Rule returns the rule registered for (resource, action).
func (t *Table) Rule(resource, action string) (domain.Rule, bool) {
	rule, ok := t.rules[domain.RuleKey{Resource: resource, Action: action}]
	return rule, ok
}

// Actions lists the actions of resource, sorted.
func (t *Table) Actions(resource string) []string {
	return append([]string(nil), t.actions[resource]...)
}

// Resources lists the active resources, sorted.
func (t *Table) Resources() []string {
	out := make([]string, 0, len(t.actions))
	for res := range t.actions {
		out = append(out, res)
	}
	sort.Strings(out)
	return out
}

// Rules returns the rules of resource ordered by action.
func (t *Table) Rules(resource string) []domain.Rule {
	actions := t.actions[resource]
	out := make([]domain.Rule, 0, len(actions))
	for _, a := range actions {
		out = append(out, t.rules[domain.RuleKey{Resource: resource, Action: a}])
	}
	return out
}
