package core

import (
	"strings"

	"github.com/google/uuid"
)

// HTTPMethod is the verb of a saved request.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// Methods lists the supported methods in cycling order.
var Methods = []HTTPMethod{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// Next returns the method after m, wrapping around.
func (m HTTPMethod) Next() HTTPMethod {
	for i, candidate := range Methods {
		if candidate == m {
			return Methods[(i+1)%len(Methods)]
		}
	}
	return MethodGet
}

// Prev returns the method before m, wrapping around.
func (m HTTPMethod) Prev() HTTPMethod {
	for i, candidate := range Methods {
		if candidate == m {
			return Methods[(i+len(Methods)-1)%len(Methods)]
		}
	}
	return MethodGet
}

func (m HTTPMethod) String() string { return string(m) }

// ParseMethod normalizes a method name, falling back to GET.
func ParseMethod(s string) HTTPMethod {
	m := HTTPMethod(strings.ToUpper(strings.TrimSpace(s)))
	for _, candidate := range Methods {
		if candidate == m {
			return m
		}
	}
	return MethodGet
}

// KeyValue is a header or query parameter row. Disabled rows are kept but not sent.
type KeyValue struct {
	Key     string
	Value   string
	Enabled bool
}

// NewKeyValue returns an enabled row.
func NewKeyValue(key, value string) KeyValue {
	return KeyValue{Key: key, Value: value, Enabled: true}
}

// RequestDefinition represents a saved request definition.
type RequestDefinition struct {
	id          string
	name        string
	method      HTTPMethod
	url         string
	headers     []KeyValue
	queryParams []KeyValue
	body        string
	auth        AuthConfig
}

// NewRequestDefinition creates a new request definition.
func NewRequestDefinition(name string, method HTTPMethod, url string) *RequestDefinition {
	return NewRequestDefinitionWithID(uuid.New().String(), name, method, url)
}

// NewRequestDefinitionWithID creates a request definition with a specific ID (for loading from storage).
func NewRequestDefinitionWithID(id, name string, method HTTPMethod, url string) *RequestDefinition {
	return &RequestDefinition{
		id:     id,
		name:   name,
		method: method,
		url:    url,
		auth:   AuthConfig{Type: AuthNone},
	}
}

// NewDefaultRequest creates the request a user gets from "new request":
// a GET with a JSON content type header.
func NewDefaultRequest(name string) *RequestDefinition {
	r := NewRequestDefinition(name, MethodGet, "")
	r.headers = []KeyValue{NewKeyValue("Content-Type", "application/json")}
	return r
}

func (r *RequestDefinition) ID() string         { return r.id }
func (r *RequestDefinition) Name() string       { return r.name }
func (r *RequestDefinition) IsFolder() bool     { return false }
func (r *RequestDefinition) Method() HTTPMethod { return r.method }
func (r *RequestDefinition) URL() string        { return r.url }
func (r *RequestDefinition) Body() string       { return r.body }
func (r *RequestDefinition) Auth() AuthConfig   { return r.auth }

func (r *RequestDefinition) setName(name string) { r.name = name }

func (r *RequestDefinition) SetName(name string)         { r.name = name }
func (r *RequestDefinition) SetMethod(method HTTPMethod) { r.method = method }
func (r *RequestDefinition) SetURL(url string)           { r.url = url }
func (r *RequestDefinition) SetBody(body string)         { r.body = body }
func (r *RequestDefinition) SetAuth(auth AuthConfig)     { r.auth = auth }

// Headers returns a copy of the header rows.
func (r *RequestDefinition) Headers() []KeyValue {
	return append([]KeyValue(nil), r.headers...)
}

// SetHeaders replaces all header rows.
func (r *RequestDefinition) SetHeaders(headers []KeyValue) {
	r.headers = append([]KeyValue(nil), headers...)
}

// AddHeader appends an enabled header row.
func (r *RequestDefinition) AddHeader(key, value string) {
	r.headers = append(r.headers, NewKeyValue(key, value))
}

// QueryParams returns a copy of the query parameter rows.
func (r *RequestDefinition) QueryParams() []KeyValue {
	return append([]KeyValue(nil), r.queryParams...)
}

// SetQueryParams replaces all query parameter rows.
func (r *RequestDefinition) SetQueryParams(params []KeyValue) {
	r.queryParams = append([]KeyValue(nil), params...)
}

// AddQueryParam appends an enabled query parameter row.
func (r *RequestDefinition) AddQueryParam(key, value string) {
	r.queryParams = append(r.queryParams, NewKeyValue(key, value))
}

// DisplayName returns "METHOD /first-path-segment", or "METHOD name" when no URL is set.
func (r *RequestDefinition) DisplayName() string {
	if r.url == "" {
		return string(r.method) + " " + r.name
	}
	_, rest, found := strings.Cut(r.url, "://")
	if !found {
		return string(r.method) + " " + r.url
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return string(r.method) + " " + r.url
	}
	return string(r.method) + " /" + parts[1]
}

// CopyFields overwrites everything except the ID with the values from other.
func (r *RequestDefinition) CopyFields(other *RequestDefinition) {
	r.name = other.name
	r.method = other.method
	r.url = other.url
	r.headers = other.Headers()
	r.queryParams = other.QueryParams()
	r.body = other.body
	r.auth = other.auth
}

// Copy returns a deep copy that keeps the same ID, for editing outside the tree.
func (r *RequestDefinition) Copy() *RequestDefinition {
	cp := NewRequestDefinitionWithID(r.id, r.name, r.method, r.url)
	cp.CopyFields(r)
	return cp
}

// Clone returns a deep copy with a fresh ID.
func (r *RequestDefinition) Clone() *RequestDefinition {
	clone := NewRequestDefinition(r.name, r.method, r.url)
	clone.CopyFields(r)
	return clone
}
