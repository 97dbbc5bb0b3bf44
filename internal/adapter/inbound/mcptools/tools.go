// Package mcptools exposes the dispatcher and field discovery as MCP tools
// served by mark3labs/mcp-go.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/i2y/freshservice-mcp/internal/catalog"
	"github.com/i2y/freshservice-mcp/internal/domain"
)

const (
	discoverToolName = "discover_form_fields"
	clearToolName    = "clear_field_cache"
)

// Registrar is the part of the MCP server the tools are registered with.
type Registrar interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// Dispatcher executes one resource action.
type Dispatcher interface {
	Execute(ctx context.Context, req domain.DispatchRequest) (*domain.DispatchResult, error)
}

// FieldService is the field discovery surface used by the discovery tools.
type FieldService interface {
	Entities() []string
	Discover(ctx context.Context, entity string) (domain.FieldSchema, error)
	ForceRefresh(ctx context.Context, entity string) (domain.FieldSchema, error)
	Clear(ctx context.Context, entity string) error
	ClearAll(ctx context.Context) error
}

// Tools builds and serves the tool set of the active resources.
type Tools struct {
	table      *catalog.Table
	dispatcher Dispatcher
	fields     FieldService
	logger     *slog.Logger
}

// New creates the tool set for the resources held by table.
func New(table *catalog.Table, dispatcher Dispatcher, fields FieldService, logger *slog.Logger) *Tools {
	return &Tools{
		table:      table,
		dispatcher: dispatcher,
		fields:     fields,
		logger:     logger.With("component", "mcptools"),
	}
}

// Register adds every tool to s and returns how many were registered.
func (t *Tools) Register(s Registrar) int {
	n := 0
	for _, resource := range t.table.Resources() {
		s.AddTool(t.ManageTool(resource), t.handleManage(resource))
		n++
	}
	s.AddTool(t.discoverTool(), t.handleDiscover)
	s.AddTool(t.clearTool(), t.handleClear)
	n += 2
	t.logger.Info("Registered MCP tools", slog.Int("tool_count", n))
	return n
}

// ToolName returns the name of the tool that manages resource.
func ToolName(resource string) string {
	return "manage_" + resource
}

// ManageTool builds the manage_<resource> tool definition: an action enum
// plus one flat property per parameter recognized by any of its actions.
func (t *Tools) ManageTool(resource string) mcp.Tool {
	rules := t.table.Rules(resource)
	actions := make([]string, 0, len(rules))
	var lines []string
	usedBy := make(map[string][]string)
	kinds := make(map[string]catalog.ParamKind)
	var order []string

	for _, rule := range rules {
		actions = append(actions, rule.Action)
		lines = append(lines, fmt.Sprintf("- %s: %s", rule.Action, rule.Description))
		for _, p := range catalog.ParamsOf(rule) {
			if _, seen := usedBy[p]; !seen {
				order = append(order, p)
				kinds[p] = catalog.KindOf(rule, p)
			}
			usedBy[p] = append(usedBy[p], rule.Action)
		}
	}
	sort.Strings(order)

	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("Manage Freshservice %s records.\nActions:\n%s",
			strings.ReplaceAll(resource, "_", " "), strings.Join(lines, "\n"))),
		mcp.WithString("action", mcp.Required(), mcp.Enum(actions...), mcp.Description("Operation to perform")),
	}
	for _, p := range order {
		desc := mcp.Description("Used by: " + strings.Join(usedBy[p], ", "))
		switch kinds[p] {
		case catalog.KindNumber:
			opts = append(opts, mcp.WithNumber(p, desc))
		case catalog.KindBoolean:
			opts = append(opts, mcp.WithBoolean(p, desc))
		case catalog.KindObject:
			opts = append(opts, mcp.WithObject(p, desc))
		case catalog.KindArray:
			opts = append(opts, mcp.WithArray(p, desc))
		default:
			opts = append(opts, mcp.WithString(p, desc))
		}
	}
	return mcp.NewTool(ToolName(resource), opts...)
}

func (t *Tools) handleManage(resource string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		action, _ := args["action"].(string)
		if strings.TrimSpace(action) == "" {
			return errorResult(&domain.ValidationError{Missing: []string{"action"}}), nil
		}

		params := make(domain.Params, len(args))
		for k, v := range args {
			if k != "action" {
				params[k] = v
			}
		}

		result, err := t.dispatcher.Execute(ctx, domain.DispatchRequest{
			Resource: resource,
			Action:   action,
			Params:   params,
		})
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			Success bool `json:"success"`
			*domain.DispatchResult
		}{true, result}), nil
	}
}

func (t *Tools) discoverTool() mcp.Tool {
	return mcp.NewTool(discoverToolName,
		mcp.WithDescription("Discover the form fields configured in this Freshservice organisation, "+
			"including custom fields and allowed dropdown values. Results are cached."),
		mcp.WithString("entity_type", mcp.Required(), mcp.Enum(t.fields.Entities()...),
			mcp.Description("Entity whose fields to discover")),
		mcp.WithBoolean("force_refresh", mcp.Description("Bypass the cache and fetch fresh definitions")),
		mcp.WithBoolean("include_raw", mcp.Description("Include each field's full Freshservice definition as returned by the API")),
	)
}

func (t *Tools) clearTool() mcp.Tool {
	return mcp.NewTool(clearToolName,
		mcp.WithDescription("Clear cached field definitions. Without entity_type every entity is cleared."),
		mcp.WithString("entity_type", mcp.Enum(t.fields.Entities()...),
			mcp.Description("Entity whose cache entry to clear")),
	)
}

func (t *Tools) handleDiscover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entity, _ := args["entity_type"].(string)
	if entity == "" {
		return errorResult(&domain.ValidationError{Missing: []string{"entity_type"}}), nil
	}
	force, _ := args["force_refresh"].(bool)
	includeRaw, _ := args["include_raw"].(bool)

	var (
		schema domain.FieldSchema
		err    error
	)
	if force {
		schema, err = t.fields.ForceRefresh(ctx, entity)
	} else {
		schema, err = t.fields.Discover(ctx, entity)
	}
	if err != nil {
		return errorResult(err), nil
	}

	fields := make([]domain.FieldDefinition, len(schema.Fields))
	for i, f := range schema.Fields {
		if !includeRaw {
			f.Raw = nil
		}
		fields[i] = f
	}
	return jsonResult(map[string]any{
		"success":     true,
		"entity_type": entity,
		"fetched_at":  schema.FetchedAt,
		"field_count": len(fields),
		"fields":      fields,
	}), nil
}

func (t *Tools) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entity, _ := request.GetArguments()["entity_type"].(string)
	if entity == "" {
		if err := t.fields.ClearAll(ctx); err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{"success": true, "message": "Cleared field cache for all entities"}), nil
	}
	if err := t.fields.Clear(ctx, entity); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"success": true, "message": fmt.Sprintf("Cleared field cache for %s", entity)}), nil
}
