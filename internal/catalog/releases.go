package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var releaseParams = []string{
	"subject", "description", "priority", "status", "release_type",
	"planned_start_date", "planned_end_date", "work_start_date", "work_end_date",
	"agent_id", "group_id", "department_id", "category", "sub_category", "item_category",
	"assets", "planning_fields", "custom_fields",
}

var releaseIntegers = []string{"priority", "status", "release_type", "agent_id", "group_id", "department_id"}

func releaseRules() []domain.Rule {
	planning := domain.Envelope{
		Container: "planning_fields",
		Fields:    []string{"build_plan", "test_plan"},
		Inner:     "description",
	}
	rules := []domain.Rule{
		fields("release", "release_form_fields"),
		list("release", "releases"),
		filter("release", "releases"),
		get("release", "get", "releases/{release_id}"),
		{
			Resource:    "release",
			Action:      "create",
			Description: "Create a release. Planning fields are applied by a follow-up update",
			Method:      http.MethodPost,
			Path:        "releases",
			Required: []string{
				"subject", "description", "priority", "status", "release_type",
				"planned_start_date", "planned_end_date",
			},
			Params:          append(append([]string{}, releaseParams...), "build_plan", "test_plan"),
			Integers:        releaseIntegers,
			Envelopes:       []domain.Envelope{planning},
			ValidateChoices: []string{"priority", "status", "release_type"},
			Steps: []domain.Step{
				{Method: http.MethodPut, Path: "releases/{id}", Claims: []string{"planning_fields"}},
			},
		},
		{
			Resource:        "release",
			Action:          "update",
			Description:     "Update a release",
			Method:          http.MethodPut,
			Path:            "releases/{release_id}",
			Params:          append(append([]string{}, releaseParams...), "build_plan", "test_plan"),
			Integers:        releaseIntegers,
			Envelopes:       []domain.Envelope{planning},
			ValidateChoices: []string{"priority", "status", "release_type"},
		},
		put("release", "restore", "releases/{release_id}/restore", "Restore a deleted release"),
		remove("release", "releases/{release_id}", "Release deleted"),
	}
	rules = append(rules, notes("release_note", "releases/{release_id}/notes", "get")...)
	rules = append(rules, tasks("release_task", "releases/{release_id}/tasks")...)
	rules = append(rules, timeEntries("release_time_entry", "releases/{release_id}/time_entries")...)
	return rules
}
