package catalog_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/freshservice-mcp/internal/catalog"
	"github.com/i2y/freshservice-mcp/internal/domain"
)

func TestRegistry_ResourcesFor(t *testing.T) {
	reg := catalog.NewRegistry()

	tests := []struct {
		name    string
		scopes  []string
		want    []string
		wantErr []string
	}{
		{
			name:   "tickets and changes",
			scopes: []string{"tickets", "changes"},
			want: []string{
				"change", "change_approval", "change_note", "change_task", "change_time_entry",
				"service_catalog", "ticket", "ticket_conversation",
			},
		},
		{
			name:   "duplicates collapse",
			scopes: []string{"misc", "misc"},
			want:   []string{"canned_response", "workspace"},
		},
		{
			name:   "status page",
			scopes: []string{"status_page"},
			want:   []string{"status_page"},
		},
		{
			name:    "unknown scopes are all reported",
			scopes:  []string{"tickets", "bogus", "nope"},
			wantErr: []string{"bogus", "nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ResourcesFor(tt.scopes)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, domain.ErrUnknownScope)
				var use *domain.UnknownScopeError
				require.ErrorAs(t, err, &use)
				assert.Equal(t, tt.wantErr, use.Scopes)
				assert.Equal(t, reg.Scopes(), use.Valid)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_EmptySelectionMeansAll(t *testing.T) {
	reg := catalog.NewRegistry()

	all, err := reg.ResourcesFor(nil)
	require.NoError(t, err)

	explicit, err := reg.ResourcesFor(reg.Scopes())
	require.NoError(t, err)
	assert.Equal(t, explicit, all)
	assert.Contains(t, all, "asset_relationship")
	assert.Contains(t, all, "solution")
	assert.Contains(t, all, "status_page")
	assert.Len(t, reg.Scopes(), 12)
}

func TestTable_OnlySelectedResources(t *testing.T) {
	reg := catalog.NewRegistry()
	resources, err := reg.ResourcesFor([]string{catalog.ScopeTickets})
	require.NoError(t, err)
	table := reg.Table(resources)

	assert.Equal(t, resources, table.Resources())

	_, ok := table.Rule("change", "create")
	assert.False(t, ok, "resources outside the selection are absent")
	assert.Empty(t, table.Actions("change"))

	rule, ok := table.Rule("ticket", "create")
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, rule.Method)
	assert.Equal(t, "tickets", rule.Path)

	actions := table.Actions("ticket")
	assert.Equal(t, []string{"create", "delete", "filter", "get", "get_fields", "list", "update"}, actions)
	actions[0] = "mutated"
	assert.Equal(t, "create", table.Actions("ticket")[0], "Actions returns a copy")

	rules := table.Rules("ticket")
	require.Len(t, rules, 7)
	assert.Equal(t, "create", rules[0].Action)
}

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Every rule in the catalog must be internally consistent.
func TestCatalog_RulesAreWellFormed(t *testing.T) {
	reg := catalog.NewRegistry()
	resources, err := reg.ResourcesFor(nil)
	require.NoError(t, err)
	table := reg.Table(resources)
	require.Contains(t, table.Resources(), "status_page")

	for _, res := range table.Resources() {
		for _, rule := range table.Rules(res) {
			name := rule.Resource + "." + rule.Action
			t.Run(name, func(t *testing.T) {
				assert.NotEmpty(t, rule.Description)
				assert.Contains(t, []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, rule.Method)
				assert.NotContains(t, rule.Path, "//")
				assert.NotEqual(t, '/', rule.Path[0], "paths are relative to the API root")

				query := make(map[string]bool)
				for _, q := range rule.Query {
					query[q] = true
				}
				for _, q := range rule.QuotedQuery {
					assert.True(t, query[q], "quoted query %s must be a query parameter", q)
				}
				for _, m := range placeholder.FindAllStringSubmatch(rule.Path, -1) {
					assert.False(t, query[m[1]], "%s is both a placeholder and a query parameter", m[1])
				}

				claimed := make(map[string]bool)
				for _, st := range rule.Steps {
					assert.Contains(t, st.Path, "{id}")
					for _, c := range st.Claims {
						assert.False(t, claimed[c], "%s is claimed twice", c)
						claimed[c] = true
					}
				}
				for _, env := range rule.Envelopes {
					assert.NotEmpty(t, env.Inner)
				}
				if rule.UsesDynamicFields() {
					entity := rule.FieldEntity
					if entity == "" {
						entity = rule.Resource
					}
					_, ok := catalog.FieldEndpoints()[entity]
					assert.True(t, ok, "%s has no field endpoint", entity)
				}
			})
		}
	}
}

func TestTable_StatusPageRules(t *testing.T) {
	reg := catalog.NewRegistry()
	resources, err := reg.ResourcesFor([]string{catalog.ScopeStatusPage})
	require.NoError(t, err)
	table := reg.Table(resources)

	assert.Len(t, table.Actions("status_page"), 23)

	incident, ok := table.Rule("status_page", "create_incident")
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, incident.Method)
	assert.Equal(t, "status_pages/{status_page_id}/incidents", incident.Path)
	assert.Equal(t, []string{"title"}, incident.Required)
	assert.Equal(t, catalog.KindArray, catalog.KindOf(incident, "affected_services"))
	assert.Equal(t, catalog.KindObject, catalog.KindOf(incident, "notification"))
	assert.Equal(t, catalog.KindBoolean, catalog.KindOf(incident, "is_private"))

	update, ok := table.Rule("status_page", "create_maintenance_update")
	require.True(t, ok)
	assert.Equal(t, "status_pages/{status_page_id}/maintenances/changes/{change_id}/{maintenance_id}/updates", update.Path)
	assert.Equal(t, []string{"body"}, update.Required)
	assert.Equal(t, "status", update.Renames["update_status"])

	list, ok := table.Rule("status_page", "list_incidents")
	require.True(t, ok)
	assert.True(t, list.Paginated)

	del, ok := table.Rule("status_page", "delete_incident_update")
	require.True(t, ok)
	assert.Equal(t, http.MethodDelete, del.Method)
	assert.Equal(t, "Incident update deleted", del.SuccessMessage)

	_, ok = table.Rule("status_page", "list")
	assert.False(t, ok, "list helpers are renamed per collection")
}

func TestParamsOf(t *testing.T) {
	reg := catalog.NewRegistry()
	table := reg.Table([]string{"ticket"})

	create, ok := table.Rule("ticket", "create")
	require.True(t, ok)
	params := catalog.ParamsOf(create)
	assert.Equal(t, []string{"subject", "description", "email", "requester_id"}, params[:4])
	assert.Equal(t, catalog.KindNumber, catalog.KindOf(create, "priority"))
	assert.Equal(t, catalog.KindArray, catalog.KindOf(create, "cc_emails"))
	assert.Equal(t, catalog.KindString, catalog.KindOf(create, "subject"))

	update, _ := table.Rule("ticket", "update")
	assert.Equal(t, "ticket_id", catalog.ParamsOf(update)[0])
	assert.Contains(t, catalog.ParamsOf(update), "ticket_fields")
	assert.Equal(t, catalog.KindObject, catalog.KindOf(update, "ticket_fields"))

	list, _ := table.Rule("ticket", "list")
	assert.Equal(t, []string{"page", "per_page"}, catalog.ParamsOf(list))
	assert.Equal(t, catalog.KindNumber, catalog.KindOf(list, "per_page"))
}
