package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

var addressParts = []string{"line1", "line2", "city", "state", "country", "zipcode"}

func departmentRules() []domain.Rule {
	deptParams := []string{"name", "description", "head_user_id", "prime_user_id", "domains", "custom_fields"}

	locParams := append([]string{"name", "contact_name", "email", "phone", "parent_location_id"}, addressParts...)
	address := make([]domain.Nesting, 0, len(addressParts))
	for _, part := range addressParts {
		address = append(address, domain.Nesting{Param: part, Into: []string{"address", part}})
	}

	return []domain.Rule{
		fields("department", "department_fields"),
		list("department", "departments"),
		filter("department", "departments"),
		get("department", "get", "departments/{department_id}"),
		{
			Resource: "department", Action: "create", Description: "Create a department",
			Method: http.MethodPost, Path: "departments",
			Required: []string{"name"}, Params: deptParams,
			Integers: []string{"head_user_id", "prime_user_id"},
		},
		{
			Resource: "department", Action: "update", Description: "Update a department",
			Method: http.MethodPut, Path: "departments/{department_id}",
			Params: deptParams, Integers: []string{"head_user_id", "prime_user_id"},
		},
		remove("department", "departments/{department_id}", "Department deleted"),

		list("location", "locations"),
		filter("location", "locations"),
		get("location", "get", "locations/{location_id}"),
		{
			Resource: "location", Action: "create", Description: "Create a location",
			Method: http.MethodPost, Path: "locations",
			Required: []string{"name"}, Params: locParams, Nestings: address,
			Integers: []string{"parent_location_id"},
		},
		{
			Resource: "location", Action: "update", Description: "Update a location",
			Method: http.MethodPut, Path: "locations/{location_id}",
			Params: locParams, Nestings: address,
			Integers: []string{"parent_location_id"},
		},
		remove("location", "locations/{location_id}", "Location deleted"),
	}
}
