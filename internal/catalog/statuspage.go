package catalog

import (
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const (
	statusPage        = "status_pages/{status_page_id}"
	statusMaintenance = statusPage + "/maintenances/changes/{change_id}"
	statusIncident    = statusPage + "/incidents/{incident_id}"
)

var (
	maintenanceParams = []string{
		"title", "description", "scheduled_start_time", "scheduled_end_time",
		"impacted_services", "notification", "is_private",
	}
	incidentParams = []string{
		"title", "description", "start_time", "end_time",
		"affected_services", "notification", "is_private",
	}
	statusUpdateParams = []string{"body", "update_status"}
)

// statusWrite builds a status page POST or PUT carrying params in the body.
func statusWrite(action, method, path, description string, params []string) domain.Rule {
	return domain.Rule{
		Resource:    "status_page",
		Action:      action,
		Description: description,
		Method:      method,
		Path:        path,
		Params:      params,
	}
}

// statusUpdate builds the write rules of a maintenance or incident update.
// The API calls the update state "status".
func statusUpdate(action, method, path, description string, required bool) domain.Rule {
	return with(statusWrite(action, method, path, description, statusUpdateParams), func(r *domain.Rule) {
		r.Renames = map[string]string{"update_status": "status"}
		if required {
			r.Required = []string{"body"}
		}
	})
}

func renamed(rule domain.Rule, action string) domain.Rule {
	return with(rule, func(r *domain.Rule) { r.Action = action })
}

func statusPageRules() []domain.Rule {
	maintenance := statusMaintenance + "/{maintenance_id}"
	return []domain.Rule{
		get("status_page", "list_pages", "status_pages"),
		renamed(list("status_page", statusPage+"/components"), "list_components"),
		get("status_page", "get_component", statusPage+"/components/{component_id}"),

		renamed(list("status_page", statusPage+"/maintenances"), "list_maintenance"),
		statusWrite("create_maintenance", http.MethodPost, statusMaintenance,
			"Schedule a status page maintenance for a change", maintenanceParams),
		get("status_page", "get_maintenance", maintenance),
		statusWrite("update_maintenance", http.MethodPut, maintenance,
			"Update a status page maintenance", maintenanceParams),
		renamed(remove("status_page", maintenance, "Maintenance deleted"), "delete_maintenance"),

		get("status_page", "list_maintenance_updates", maintenance+"/updates"),
		statusUpdate("create_maintenance_update", http.MethodPost, maintenance+"/updates",
			"Post an update on a maintenance", true),
		statusUpdate("update_maintenance_update", http.MethodPut, maintenance+"/updates/{update_id}",
			"Edit a maintenance update", false),
		renamed(remove("status_page", maintenance+"/updates/{update_id}", "Maintenance update deleted"),
			"delete_maintenance_update"),
		get("status_page", "list_maintenance_statuses", statusPage+"/maintenance_statuses"),

		renamed(list("status_page", statusPage+"/incidents"), "list_incidents"),
		with(statusWrite("create_incident", http.MethodPost, statusPage+"/incidents",
			"Publish an incident on a status page", incidentParams),
			func(r *domain.Rule) { r.Required = []string{"title"} }),
		get("status_page", "get_incident", statusIncident),
		statusWrite("update_incident", http.MethodPut, statusIncident,
			"Update a status page incident", incidentParams),
		renamed(remove("status_page", statusIncident, "Incident deleted"), "delete_incident"),

		get("status_page", "list_incident_updates", statusIncident+"/updates"),
		statusUpdate("create_incident_update", http.MethodPost, statusIncident+"/updates",
			"Post an update on an incident", true),
		statusUpdate("update_incident_update", http.MethodPut, statusIncident+"/updates/{update_id}",
			"Edit an incident update", false),
		renamed(remove("status_page", statusIncident+"/updates/{update_id}", "Incident update deleted"),
			"delete_incident_update"),
		get("status_page", "list_incident_statuses", statusPage+"/incident_statuses"),
	}
}
