package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var ticketParams = []string{
	"subject", "description", "source", "priority", "status", "email", "requester_id",
	"type", "group_id", "responder_id", "department_id", "category", "sub_category",
	"item_category", "due_by", "fr_due_by", "tags", "cc_emails", "custom_fields",
}

func ticketRules() []domain.Rule {
	return []domain.Rule{
		fields("ticket", "ticket_form_fields"),
		list("ticket", "tickets"),
		with(filter("ticket", "tickets/filter", "workspace_id"), func(r *domain.Rule) {
			r.Integers = []string{"workspace_id"}
		}),
		get("ticket", "get", "tickets/{ticket_id}"),
		{
			Resource:        "ticket",
			Action:          "create",
			Description:     "Create a ticket. Either email or requester_id identifies the requester",
			Method:          http.MethodPost,
			Path:            "tickets",
			Required:        []string{"subject", "description"},
			AnyOf:           [][]string{{"email", "requester_id"}},
			Params:          ticketParams,
			Integers:        []string{"source", "priority", "status", "requester_id", "group_id", "responder_id", "department_id"},
			Defaults:        map[string]any{"source": 2, "priority": 1, "status": 2},
			ValidateChoices: []string{"priority", "status", "source"},
		},
		{
			Resource:        "ticket",
			Action:          "update",
			Description:     "Update a ticket. ticket_fields may carry any other upstream field",
			Method:          http.MethodPut,
			Path:            "tickets/{ticket_id}",
			Params:          ticketParams,
			Spread:          "ticket_fields",
			Integers:        []string{"source", "priority", "status", "requester_id", "group_id", "responder_id", "department_id"},
			ValidateChoices: []string{"priority", "status"},
		},
		remove("ticket", "tickets/{ticket_id}", "Ticket deleted successfully"),

		get("ticket_conversation", "list", "tickets/{ticket_id}/conversations"),
		{
			Resource:    "ticket_conversation",
			Action:      "reply",
			Description: "Reply to the requester of a ticket",
			Method:      http.MethodPost,
			Path:        "tickets/{ticket_id}/reply",
			Required:    []string{"body"},
			Params:      []string{"body", "from_email", "user_id", "cc_emails", "bcc_emails"},
			Integers:    []string{"user_id"},
		},
		{
			Resource:    "ticket_conversation",
			Action:      "add_note",
			Description: "Add a note to a ticket",
			Method:      http.MethodPost,
			Path:        "tickets/{ticket_id}/notes",
			Required:    []string{"body"},
			Params:      []string{"body", "private", "notify_emails"},
		},
		{
			Resource:    "ticket_conversation",
			Action:      "update",
			Description: "Update a conversation",
			Method:      http.MethodPut,
			Path:        "conversations/{conversation_id}",
			Required:    []string{"body"},
			Params:      []string{"body"},
		},

		with(list("service_catalog", "service_catalog/items"), func(r *domain.Rule) { r.Action = "list_items" }),
		get("service_catalog", "get_requested_items", "tickets/{ticket_id}/requested_items"),
		{
			Resource:    "service_catalog",
			Action:      "place_request",
			Description: "Place a service request for a catalog item",
			Method:      http.MethodPost,
			Path:        "service_catalog/items/{display_id}/place_request",
			Required:    []string{"email"},
			Params:      []string{"email", "requested_for", "quantity", "custom_fields"},
			Integers:    []string{"quantity"},
			Defaults:    map[string]any{"quantity": 1},
		},
	}
}
