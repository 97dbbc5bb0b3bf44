package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var problemParams = []string{
	"requester_id", "subject", "description", "priority", "status", "impact", "due_by",
	"agent_id", "group_id", "department_id", "known_error", "category", "sub_category",
	"item_category", "assets", "analysis_fields", "custom_fields",
}

var problemIntegers = []string{"requester_id", "priority", "status", "impact", "agent_id", "group_id", "department_id"}

func problemRules() []domain.Rule {
	rules := []domain.Rule{
		fields("problem", "problem_form_fields"),
		list("problem", "problems"),
		filter("problem", "problems"),
		get("problem", "get", "problems/{problem_id}"),
		{
			Resource:        "problem",
			Action:          "create",
			Description:     "Create a problem",
			Method:          http.MethodPost,
			Path:            "problems",
			Required:        []string{"requester_id", "subject", "description", "priority", "status", "impact", "due_by"},
			Params:          problemParams,
			Integers:        problemIntegers,
			ValidateChoices: []string{"priority", "status", "impact"},
		},
		{
			Resource:        "problem",
			Action:          "update",
			Description:     "Update a problem",
			Method:          http.MethodPut,
			Path:            "problems/{problem_id}",
			Params:          problemParams,
			Integers:        problemIntegers,
			ValidateChoices: []string{"priority", "status", "impact"},
		},
		{
			Resource:    "problem",
			Action:      "close",
			Description: "Close a problem",
			Method:      http.MethodPut,
			Path:        "problems/{problem_id}",
			Fixed:       map[string]any{"status": 3},
		},
		put("problem", "restore", "problems/{problem_id}/restore", "Restore a deleted problem"),
		remove("problem", "problems/{problem_id}", "Problem deleted"),
	}
	rules = append(rules, notes("problem_note", "problems/{problem_id}/notes", "get")...)
	rules = append(rules, tasks("problem_task", "problems/{problem_id}/tasks")...)
	rules = append(rules, timeEntries("problem_time_entry", "problems/{problem_id}/time_entries")...)
	return rules
}

// tasks builds the task rules shared by problems and releases.
func tasks(resource, base string) []domain.Rule {
	item := base + "/{task_id}"
	params := []string{"title", "description", "status", "due_date", "notify_before", "group_id"}
	integers := []string{"status", "notify_before", "group_id"}
	return []domain.Rule{
		get(resource, "list", base),
		get(resource, "get", item),
		{Resource: resource, Action: "create", Description: "Create a task", Method: http.MethodPost, Path: base,
			Required: []string{"title"}, Params: params, Integers: integers},
		{Resource: resource, Action: "update", Description: "Update a task", Method: http.MethodPut, Path: item,
			Params: params, Integers: integers},
		remove(resource, item, "Task deleted"),
	}
}

// timeEntries builds the time entry rules shared by problems and releases.
func timeEntries(resource, base string) []domain.Rule {
	item := base + "/{time_entry_id}"
	params := []string{"agent_id", "note", "time_spent", "executed_at", "task_id", "billable"}
	integers := []string{"agent_id", "task_id"}
	return []domain.Rule{
		get(resource, "list", base),
		get(resource, "get", item),
		{Resource: resource, Action: "create", Description: `Log time, time_spent in "hh:mm" format`,
			Method: http.MethodPost, Path: base,
			Required: []string{"time_spent"}, Params: params, Integers: integers},
		{Resource: resource, Action: "update", Description: "Update a time entry", Method: http.MethodPut, Path: item,
			Params: params, Integers: integers},
		remove(resource, item, "Time entry deleted"),
	}
}
