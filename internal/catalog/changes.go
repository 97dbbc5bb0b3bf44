package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var changeParams = append([]string{
	"requester_id", "subject", "description", "priority", "impact", "status", "risk",
	"change_type", "group_id", "agent_id", "department_id", "category", "sub_category",
	"item_category", "planned_start_date", "planned_end_date", "custom_fields", "assets",
	"impacted_services", "maintenance_window_id", "planning_fields",
}, planningFields...)

var changeIntegers = []string{
	"requester_id", "priority", "impact", "status", "risk", "change_type",
	"group_id", "agent_id", "department_id", "maintenance_window_id",
}

var changeQuery = []string{"view", "sort", "order_by", "updated_since", "workspace_id"}

func changeRules() []domain.Rule {
	planning := domain.Envelope{Container: "planning_fields", Fields: planningFields, Inner: "description"}
	window := domain.Nesting{Param: "maintenance_window_id", Into: []string{"maintenance_window", "id"}}

	rules := []domain.Rule{
		fields("change", "change_form_fields"),
		list("change", "changes", append([]string{"query"}, changeQuery...)...),
		filter("change", "changes", changeQuery...),
		get("change", "get", "changes/{change_id}"),
		{
			Resource: "change",
			Action:   "create",
			Description: "Create a change. Planning fields and the maintenance window are " +
				"applied by follow-up updates once the change exists",
			Method:          http.MethodPost,
			Path:            "changes",
			Required:        []string{"subject"},
			Params:          changeParams,
			Integers:        changeIntegers,
			Defaults:        map[string]any{"priority": 1, "impact": 1, "status": 1, "risk": 1, "change_type": 2},
			Nestings:        []domain.Nesting{window},
			Envelopes:       []domain.Envelope{planning},
			ValidateChoices: []string{"priority", "impact", "status", "risk", "change_type"},
			Steps: []domain.Step{
				{Method: http.MethodPut, Path: "changes/{id}", Claims: []string{"planning_fields"}},
				{Method: http.MethodPut, Path: "changes/{id}", Claims: []string{"maintenance_window"}},
			},
		},
		{
			Resource:        "change",
			Action:          "update",
			Description:     "Update a change",
			Method:          http.MethodPut,
			Path:            "changes/{change_id}",
			Params:          changeParams,
			Integers:        changeIntegers,
			Nestings:        []domain.Nesting{window},
			Envelopes:       []domain.Envelope{planning},
			ValidateChoices: []string{"priority", "impact", "status", "risk", "change_type"},
		},
		{
			Resource:    "change",
			Action:      "close",
			Description: "Close a change, recording the result explanation",
			Method:      http.MethodPut,
			Path:        "changes/{change_id}",
			Params:      []string{"custom_fields", "change_result_explanation"},
			Nestings: []domain.Nesting{
				{Param: "change_result_explanation", Into: []string{"custom_fields", "change_result_explanation"}},
			},
			Fixed: map[string]any{"status": 6},
		},
		{
			Resource:    "change",
			Action:      "move",
			Description: "Move a change to another workspace",
			Method:      http.MethodPut,
			Path:        "changes/{change_id}/move_workspace",
			Required:    []string{"workspace_id"},
			Params:      []string{"workspace_id"},
			Integers:    []string{"workspace_id"},
		},
		remove("change", "changes/{change_id}", "Change deleted"),
	}

	rules = append(rules, notes("change_note", "changes/{change_id}/notes", "view")...)

	taskBase, taskItem := "changes/{change_id}/tasks", "changes/{change_id}/tasks/{task_id}"
	taskRenames := map[string]string{"task_status": "status", "task_priority": "priority", "task_group_id": "group_id"}
	taskParams := []string{"title", "description", "task_status", "task_priority", "assigned_to_id", "task_group_id", "due_date"}
	rules = append(rules,
		get("change_task", "list", taskBase),
		get("change_task", "view", taskItem),
		domain.Rule{
			Resource: "change_task", Action: "create", Description: "Create a change task",
			Method: http.MethodPost, Path: taskBase,
			Required: []string{"title", "description"},
			Params:   taskParams, Renames: taskRenames,
			Integers: []string{"task_status", "task_priority", "assigned_to_id", "task_group_id"},
		},
		domain.Rule{
			Resource: "change_task", Action: "update", Description: "Update a change task",
			Method: http.MethodPut, Path: taskItem,
			Params: taskParams, Renames: taskRenames, Spread: "task_fields",
			Integers: []string{"task_status", "task_priority", "assigned_to_id", "task_group_id"},
		},
		remove("change_task", taskItem, "Change task deleted"),
	)

	teBase, teItem := "changes/{change_id}/time_entries", "changes/{change_id}/time_entries/{time_entry_id}"
	rules = append(rules,
		get("change_time_entry", "list", teBase),
		get("change_time_entry", "view", teItem),
		domain.Rule{
			Resource: "change_time_entry", Action: "create", Description: "Log time on a change",
			Method: http.MethodPost, Path: teBase,
			Required: []string{"time_spent", "note", "te_agent_id"},
			Params:   []string{"time_spent", "note", "te_agent_id", "executed_at"},
			Renames:  map[string]string{"te_agent_id": "agent_id"},
			Integers: []string{"te_agent_id"},
		},
		domain.Rule{
			Resource: "change_time_entry", Action: "update", Description: "Update a time entry",
			Method: http.MethodPut, Path: teItem,
			Params: []string{"time_spent", "note"},
		},
		remove("change_time_entry", teItem, "Time entry deleted"),
	)

	groups := "changes/{change_id}/approval_groups"
	group := groups + "/{approval_group_id}"
	approval := "changes/{change_id}/approvals/{approval_id}"
	rules = append(rules,
		get("change_approval", "list_groups", groups),
		domain.Rule{
			Resource: "change_approval", Action: "create_group", Description: "Create an approval group",
			Method: http.MethodPost, Path: groups,
			Required: []string{"name", "approver_ids"},
			Params:   []string{"name", "approver_ids", "approval_type"},
			Defaults: map[string]any{"approval_type": "everyone"},
		},
		domain.Rule{
			Resource: "change_approval", Action: "update_group", Description: "Update an approval group",
			Method: http.MethodPut, Path: group,
			Params: []string{"name", "approver_ids", "approval_type"},
		},
		put("change_approval", "cancel_group", group+"/cancel", "Cancel an approval group"),
		get("change_approval", "list", "changes/{change_id}/approvals"),
		get("change_approval", "view", approval),
		put("change_approval", "remind", approval+"/resend_approval", "Resend an approval reminder"),
		put("change_approval", "cancel", approval+"/cancel", "Cancel an approval"),
		domain.Rule{
			Resource: "change_approval", Action: "set_chain_rule", Description: "Set the approval chain rule",
			Method: http.MethodPut, Path: "changes/{change_id}/approval_chain",
			Required: []string{"approval_chain_type"},
			Params:   []string{"approval_chain_type"},
		},
	)
	return rules
}
