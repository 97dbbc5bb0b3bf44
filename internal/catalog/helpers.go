package catalog

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// planningFields are the change planning sections the API stores as
// {"description": ...} objects under planning_fields.
var planningFields = []string{"reason_for_change", "change_impact", "rollout_plan", "backout_plan"}

func list(resource, path string, query ...string) domain.Rule {
	return domain.Rule{
		Resource:    resource,
		Action:      "list",
		Description: "List " + resource + " records",
		Method:      http.MethodGet,
		Path:        path,
		Query:       query,
		Paginated:   true,
	}
}

func get(resource, action, path string) domain.Rule {
	return domain.Rule{
		Resource:    resource,
		Action:      action,
		Description: strings.ReplaceAll(action, "_", " ") + " (" + resource + ")",
		Method:      http.MethodGet,
		Path:        path,
	}
}

// filter builds a paginated query search. The query is sent quoted.
func filter(resource, path string, extra ...string) domain.Rule {
	return domain.Rule{
		Resource:    resource,
		Action:      "filter",
		Description: `Filter ` + resource + ` records with a query such as priority:3 AND status:2 (do not add quotes)`,
		Method:      http.MethodGet,
		Path:        path,
		Required:    []string{"query"},
		Query:       append([]string{"query"}, extra...),
		QuotedQuery: []string{"query"},
		Paginated:   true,
	}
}

func remove(resource, path, message string) domain.Rule {
	return domain.Rule{
		Resource:       resource,
		Action:         "delete",
		Description:    "Delete a " + resource,
		Method:         http.MethodDelete,
		Path:           path,
		SuccessMessage: message,
	}
}

func fields(resource, path string) domain.Rule {
	return domain.Rule{
		Resource:    resource,
		Action:      "get_fields",
		Description: "List the form fields configured for " + resource + " records",
		Method:      http.MethodGet,
		Path:        path,
	}
}

// put builds a body-less PUT such as restore or cancel.
func put(resource, action, path, description string) domain.Rule {
	return domain.Rule{
		Resource:    resource,
		Action:      action,
		Description: description,
		Method:      http.MethodPut,
		Path:        path,
	}
}

// notes builds the CRUD rules of a note sub-resource. viewAction names the
// single-note read, which differs between parents.
func notes(resource, base, viewAction string) []domain.Rule {
	item := base + "/{note_id}"
	return []domain.Rule{
		{Resource: resource, Action: "list", Description: "List notes", Method: http.MethodGet, Path: base},
		{Resource: resource, Action: viewAction, Description: "View a note", Method: http.MethodGet, Path: item},
		{Resource: resource, Action: "create", Description: "Add a note", Method: http.MethodPost, Path: base,
			Required: []string{"body"}, Params: []string{"body"}},
		{Resource: resource, Action: "update", Description: "Update a note", Method: http.MethodPut, Path: item,
			Required: []string{"body"}, Params: []string{"body"}},
		remove(resource, item, "Note deleted"),
	}
}

func with(rule domain.Rule, mutate func(*domain.Rule)) domain.Rule {
	mutate(&rule)
	return rule
}
