package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var assetParams = []string{
	"name", "asset_type_id", "asset_tag", "impact", "usage_type", "description", "user_id",
	"location_id", "department_id", "agent_id", "group_id", "assigned_on", "workspace_id",
	"type_fields",
}

var assetIntegers = []string{"asset_type_id", "user_id", "location_id", "department_id", "agent_id", "group_id", "workspace_id"}

func assetRules() []domain.Rule {
	return []domain.Rule{
		list("asset", "assets", "include", "order_by", "order_type", "trashed", "workspace_id"),
		with(get("asset", "get", "assets/{display_id}"), func(r *domain.Rule) { r.Query = []string{"include"} }),
		{
			Resource:    "asset",
			Action:      "search",
			Description: "Search assets by name, asset_tag or serial number, e.g. name:'dell' (do not add quotes)",
			Method:      http.MethodGet,
			Path:        "assets",
			Required:    []string{"search_query"},
			Query:       []string{"search_query", "trashed"},
			QuotedQuery: []string{"search_query"},
			Renames:     map[string]string{"search_query": "search"},
			Paginated:   true,
		},
		{
			Resource:    "asset",
			Action:      "filter",
			Description: "Filter assets, e.g. asset_state:'IN USE' AND department_id:5 (do not add quotes)",
			Method:      http.MethodGet,
			Path:        "assets",
			Required:    []string{"filter_query"},
			Query:       []string{"filter_query", "include"},
			QuotedQuery: []string{"filter_query"},
			Renames:     map[string]string{"filter_query": "filter"},
			Paginated:   true,
		},
		{
			Resource:    "asset",
			Action:      "create",
			Description: "Create an asset",
			Method:      http.MethodPost,
			Path:        "assets",
			Required:    []string{"name", "asset_type_id"},
			Params:      assetParams,
			Integers:    assetIntegers,
			Defaults:    map[string]any{"impact": "low", "usage_type": "permanent"},
		},
		{
			Resource:    "asset",
			Action:      "update",
			Description: "Update an asset. asset_fields may carry any other upstream field",
			Method:      http.MethodPut,
			Path:        "assets/{display_id}",
			Params:      assetParams,
			Spread:      "asset_fields",
			Integers:    assetIntegers,
		},
		remove("asset", "assets/{display_id}", "Asset moved to trash"),
		put("asset", "delete_permanently", "assets/{display_id}/delete_forever", "Permanently delete a trashed asset"),
		put("asset", "restore", "assets/{display_id}/restore", "Restore a trashed asset"),
		{
			Resource:    "asset",
			Action:      "move",
			Description: "Move an asset to another workspace",
			Method:      http.MethodPut,
			Path:        "assets/{display_id}/move_workspace",
			Required:    []string{"workspace_id"},
			Params:      []string{"workspace_id", "agent_id", "group_id"},
			Integers:    []string{"workspace_id", "agent_id", "group_id"},
		},
		with(list("asset", "asset_types"), func(r *domain.Rule) { r.Action = "get_types" }),
		get("asset", "get_type", "asset_types/{asset_type_id}"),
		get("asset", "components", "assets/{display_id}/components"),
		get("asset", "assignment_history", "assets/{display_id}/assignment-history"),
		get("asset", "requests", "assets/{display_id}/requests"),
		get("asset", "contracts", "assets/{display_id}/contracts"),

		get("asset_relationship", "list_for_asset", "assets/{display_id}/relationships"),
		with(list("asset_relationship", "relationships"), func(r *domain.Rule) { r.Action = "list_all" }),
		get("asset_relationship", "get", "relationships/{relationship_id}"),
		{
			Resource:    "asset_relationship",
			Action:      "create",
			Description: "Create relationships in bulk. Returns a job to poll with job_status",
			Method:      http.MethodPost,
			Path:        "relationships/bulk-create",
			Required:    []string{"relationships"},
			Params:      []string{"relationships"},
		},
		{
			Resource:       "asset_relationship",
			Action:         "delete",
			Description:    "Delete relationships by id",
			Method:         http.MethodDelete,
			Path:           "relationships",
			Required:       []string{"relationship_ids"},
			Query:          []string{"relationship_ids"},
			Renames:        map[string]string{"relationship_ids": "ids"},
			SuccessMessage: "Relationships deleted",
		},
		get("asset_relationship", "get_types", "relationship_types"),
		get("asset_relationship", "job_status", "jobs/{job_id}"),
	}
}
