package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var agentParams = []string{
	"first_name", "last_name", "email", "occasional", "job_title", "work_phone_number",
	"mobile_phone_number", "department_ids", "can_see_all_tickets_from_associated_departments",
	"reporting_manager_id", "address", "time_zone", "time_format", "language", "location_id",
	"background_information", "scoreboard_level_id",
}

var requesterParams = []string{
	"first_name", "last_name", "job_title", "primary_email", "secondary_emails",
	"work_phone_number", "mobile_phone_number", "department_ids",
	"can_see_all_tickets_from_associated_departments", "reporting_manager_id", "address",
	"time_zone", "time_format", "language", "location_id", "background_information",
	"custom_fields",
}

func agentRules() []domain.Rule {
	groupParams := []string{"name", "description", "agent_ids", "auto_ticket_assign", "escalate_to", "unassigned_for"}
	return []domain.Rule{
		fields("agent", "agent_fields"),
		list("agent", "agents"),
		filter("agent", "agents"),
		get("agent", "get", "agents/{agent_id}"),
		{
			Resource: "agent", Action: "create", Description: "Create an agent",
			Method: http.MethodPost, Path: "agents",
			Required: []string{"first_name", "email"},
			Params:   agentParams,
			Integers: []string{"reporting_manager_id", "location_id", "scoreboard_level_id"},
		},
		{
			Resource: "agent", Action: "update", Description: "Update an agent",
			Method: http.MethodPut, Path: "agents/{agent_id}",
			Params:   agentParams,
			Integers: []string{"reporting_manager_id", "location_id", "scoreboard_level_id"},
		},

		get("agent_group", "list", "groups"),
		get("agent_group", "get", "groups/{group_id}"),
		{
			Resource: "agent_group", Action: "create", Description: "Create an agent group",
			Method: http.MethodPost, Path: "groups",
			Required: []string{"name"}, Params: groupParams, Integers: []string{"escalate_to"},
		},
		{
			Resource: "agent_group", Action: "update", Description: "Update an agent group",
			Method: http.MethodPut, Path: "groups/{group_id}",
			Params: groupParams, Spread: "group_fields", Integers: []string{"escalate_to"},
		},
	}
}

func requesterRules() []domain.Rule {
	return []domain.Rule{
		fields("requester", "requester_fields"),
		list("requester", "requesters"),
		filter("requester", "requesters", "include_agents"),
		get("requester", "get", "requesters/{requester_id}"),
		{
			Resource: "requester", Action: "create", Description: "Create a requester",
			Method: http.MethodPost, Path: "requesters",
			Required: []string{"first_name"},
			AnyOf:    [][]string{{"primary_email", "work_phone_number", "mobile_phone_number"}},
			Params:   requesterParams,
			Integers: []string{"reporting_manager_id", "location_id"},
		},
		{
			Resource: "requester", Action: "update", Description: "Update a requester",
			Method: http.MethodPut, Path: "requesters/{requester_id}",
			Params:   requesterParams,
			Integers: []string{"reporting_manager_id", "location_id"},
		},
		{
			Resource: "requester", Action: "add_to_group", Description: "Add a requester to a requester group",
			Method: http.MethodPost, Path: "requester_groups/{group_id}/members/{requester_id}",
			SuccessMessage: "Requester added to group",
		},

		list("requester_group", "requester_groups"),
		get("requester_group", "get", "requester_groups/{group_id}"),
		{
			Resource: "requester_group", Action: "create", Description: "Create a requester group",
			Method: http.MethodPost, Path: "requester_groups",
			Required: []string{"name"}, Params: []string{"name", "description"},
		},
		{
			Resource: "requester_group", Action: "update", Description: "Update a requester group",
			Method: http.MethodPut, Path: "requester_groups/{group_id}",
			Params: []string{"name", "description"},
		},
		get("requester_group", "list_members", "requester_groups/{group_id}/members"),
	}
}
