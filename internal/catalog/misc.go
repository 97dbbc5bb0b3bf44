package catalog

import "github.com/i2y/freshservice-mcp/internal/domain"

func miscRules() []domain.Rule {
	return []domain.Rule{
		get("canned_response", "list", "canned_responses"),
		get("canned_response", "get", "canned_responses/{response_id}"),
		get("canned_response", "list_folders", "canned_response_folders"),
		get("canned_response", "get_folder", "canned_response_folders/{folder_id}"),
		get("workspace", "list", "workspaces"),
		get("workspace", "get", "workspaces/{workspace_id}"),
	}
}
