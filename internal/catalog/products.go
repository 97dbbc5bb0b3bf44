package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

func productRules() []domain.Rule {
	params := []string{
		"name", "asset_type_id", "manufacturer", "status", "mode_of_procurement",
		"depreciation_type_id", "description", "description_text",
	}
	return []domain.Rule{
		list("product", "products"),
		get("product", "get", "products/{product_id}"),
		{
			Resource: "product", Action: "create", Description: "Create a product",
			Method: http.MethodPost, Path: "products",
			Required: []string{"name", "asset_type_id"}, Params: params,
			Integers: []string{"asset_type_id", "depreciation_type_id"},
		},
		{
			Resource: "product", Action: "update", Description: "Update a product",
			Method: http.MethodPut, Path: "products/{product_id}",
			Params: params, Integers: []string{"asset_type_id", "depreciation_type_id"},
		},
	}
}
