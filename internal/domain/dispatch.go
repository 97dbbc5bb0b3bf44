package domain

import "net/url"

// Params is the loosely typed parameter bundle of a tool call. Values are
// strings, numbers, booleans, nested maps or slices as decoded from JSON.
type Params map[string]any

// Clone returns a shallow copy so transformations never touch the caller's map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DispatchRequest is one inbound (resource, action, parameters) triple.
type DispatchRequest struct {
	Resource string
	Action   string
	Params   Params
}

// DispatchResult is the normalized outcome of a successful dispatch.
type DispatchResult struct {
	Resource   string      `json:"resource"`
	Action     string      `json:"action"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Pagination is the uniform shape of upstream paging metadata.
// Zero page numbers mean "none".
type Pagination struct {
	CurrentPage int `json:"current_page,omitempty"`
	PerPage     int `json:"per_page,omitempty"`
	NextPage    int `json:"next_page,omitempty"`
	PrevPage    int `json:"prev_page,omitempty"`
	Total       int `json:"total,omitempty"`
}

// Call is a single request to the upstream API.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful upstream response with its envelope removed.
type Response struct {
	StatusCode int
	// Envelope is the wrapper key the payload was found under, if any.
	Envelope   string
	Payload    any
	Pagination Pagination
}
