package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

func solutionRules() []domain.Rule {
	articleParams := []string{"title", "description", "folder_id", "article_type", "status", "tags", "keywords", "review_date"}
	articleIntegers := []string{"folder_id", "article_type", "status"}
	return []domain.Rule{
		get("solution", "list_categories", "solutions/categories"),
		get("solution", "get_category", "solutions/categories/{category_id}"),
		{
			Resource: "solution", Action: "create_category", Description: "Create a solution category",
			Method: http.MethodPost, Path: "solutions/categories",
			Required: []string{"name"}, Params: []string{"name", "description", "workspace_id"},
			Integers: []string{"workspace_id"},
		},
		{
			Resource: "solution", Action: "update_category", Description: "Update a solution category",
			Method: http.MethodPut, Path: "solutions/categories/{category_id}",
			Params:   []string{"name", "description", "workspace_id", "default_category"},
			Integers: []string{"workspace_id"},
		},
		{
			Resource: "solution", Action: "list_folders", Description: "List the folders of a category",
			Method: http.MethodGet, Path: "solutions/folders",
			Required: []string{"category_id"}, Query: []string{"category_id"},
		},
		get("solution", "get_folder", "solutions/folders/{folder_id}"),
		{
			Resource: "solution", Action: "create_folder", Description: "Create a solution folder",
			Method: http.MethodPost, Path: "solutions/folders",
			Required: []string{"name", "category_id", "department_ids"},
			Params:   []string{"name", "category_id", "department_ids", "visibility", "description"},
			Integers: []string{"category_id", "visibility"},
			Defaults: map[string]any{"visibility": 4},
		},
		{
			Resource: "solution", Action: "update_folder", Description: "Update a solution folder",
			Method: http.MethodPut, Path: "solutions/folders/{folder_id}",
			Params:   []string{"name", "description", "department_ids", "visibility"},
			Integers: []string{"visibility"},
		},
		{
			Resource: "solution", Action: "list_articles", Description: "List the articles of a folder",
			Method: http.MethodGet, Path: "solutions/articles",
			Required: []string{"folder_id"}, Query: []string{"folder_id"},
		},
		get("solution", "get_article", "solutions/articles/{article_id}"),
		{
			Resource: "solution", Action: "create_article", Description: "Create a solution article",
			Method: http.MethodPost, Path: "solutions/articles",
			Required: []string{"title", "description", "folder_id"},
			Params:   articleParams, Integers: articleIntegers,
			Defaults: map[string]any{"article_type": 1, "status": 1},
		},
		{
			Resource: "solution", Action: "update_article", Description: "Update a solution article",
			Method: http.MethodPut, Path: "solutions/articles/{article_id}",
			Params: articleParams, Integers: articleIntegers,
		},
		{
			Resource: "solution", Action: "publish_article", Description: "Publish a solution article",
			Method: http.MethodPut, Path: "solutions/articles/{article_id}",
			Fixed: map[string]any{"status": 2},
		},
	}
}
