package mcptools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// Failure is the JSON document carried by an error tool result.
type Failure struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error"`
	Kind       string   `json:"kind"`
	StatusCode int      `json:"status_code,omitempty"`
	Details    any      `json:"details,omitempty"`
	ID         any      `json:"id,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	Valid      []string `json:"valid,omitempty"`
}

// FailureOf classifies err into a Failure.
func FailureOf(err error) Failure {
	f := Failure{Error: err.Error(), Kind: "internal"}

	var (
		validation *domain.ValidationError
		upstream   *domain.UpstreamError
		partial    *domain.PartialWriteError
		action     *domain.UnknownActionError
		scope      *domain.UnknownScopeError
	)
	switch {
	// Partial writes wrap the upstream failure of the follow-up step.
	case errors.As(err, &partial):
		f.Kind = "partial_write"
		f.ID = partial.ID
		if errors.As(partial.Err, &upstream) {
			f.StatusCode = upstream.StatusCode
			f.Details = upstreamDetails(upstream.Body)
		}
	case errors.As(err, &validation):
		f.Kind = "validation"
		f.Missing = validation.Missing
	case errors.As(err, &upstream):
		f.Kind = "upstream_" + string(upstream.Kind)
		f.StatusCode = upstream.StatusCode
		f.Details = upstreamDetails(upstream.Body)
	case errors.As(err, &action):
		f.Kind = "unknown_action"
		f.Valid = action.Valid
	case errors.As(err, &scope):
		f.Kind = "unknown_scope"
		f.Valid = scope.Valid
	}
	return f
}

// upstreamDetails returns the upstream error body, decoded when it is JSON.
func upstreamDetails(body string) any {
	if body == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err == nil {
		return decoded
	}
	return body
}

func errorResult(err error) *mcp.CallToolResult {
	data, mErr := json.MarshalIndent(FailureOf(err), "", "  ")
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}
