package exporter

import (
	"context"
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
)

const postmanSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// PostmanExporter exports collections to Postman format (v2.1).
type PostmanExporter struct{}

// NewPostmanExporter creates a new Postman exporter.
func NewPostmanExporter() *PostmanExporter {
	return &PostmanExporter{}
}

func (p *PostmanExporter) Name() string {
	return "Postman Collection"
}

func (p *PostmanExporter) Format() Format {
	return FormatPostman
}

func (p *PostmanExporter) FileExtension() string {
	return ".postman_collection.json"
}

// Export keeps IDs so a re-import maps onto the same items.
func (p *PostmanExporter) Export(ctx context.Context, coll *core.Collection) ([]byte, error) {
	if coll == nil {
		return nil, ErrInvalidCollection
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pm := postmanCollection{
		Info: postmanInfo{
			PostmanID: coll.ID(),
			Name:      coll.Name(),
			Schema:    postmanSchema,
		},
		Item: p.convertItems(coll.Items()),
	}

	return json.MarshalIndent(pm, "", "  ")
}

func (p *PostmanExporter) convertItems(items []core.Item) []postmanItem {
	out := make([]postmanItem, 0, len(items))
	for _, item := range items {
		if f, ok := core.AsFolder(item); ok {
			out = append(out, postmanItem{
				ID:   f.ID(),
				Name: f.Name(),
				Item: p.convertItems(f.Items()),
			})
			continue
		}
		if req, ok := core.AsRequest(item); ok {
			out = append(out, p.convertRequest(req))
		}
	}
	return out
}

func (p *PostmanExporter) convertRequest(req *core.RequestDefinition) postmanItem {
	item := postmanItem{
		ID:   req.ID(),
		Name: req.Name(),
		Request: &postmanRequest{
			Method: string(req.Method()),
			Header: make([]postmanKeyValue, 0),
			URL:    p.convertURL(req),
		},
	}

	for _, h := range req.Headers() {
		item.Request.Header = append(item.Request.Header, postmanKeyValue{
			Key:      h.Key,
			Value:    h.Value,
			Disabled: !h.Enabled,
		})
	}

	if body := req.Body(); body != "" {
		item.Request.Body = &postmanBody{Mode: "raw", Raw: body}
		trimmed := strings.TrimSpace(body)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			item.Request.Body.Options = &postmanBodyOptions{Raw: postmanRawOptions{Language: "json"}}
		}
	}

	if req.Auth().IsConfigured() {
		item.Request.Auth = p.convertAuth(req.Auth())
	}

	return item
}

// convertURL returns a plain string when there are no query rows.
func (p *PostmanExporter) convertURL(req *core.RequestDefinition) any {
	params := req.QueryParams()
	if len(params) == 0 {
		return req.URL()
	}

	urlObj := postmanURLObject{
		Raw:   req.URL(),
		Query: make([]postmanKeyValue, 0, len(params)),
	}
	var enabled []string
	for _, kv := range params {
		urlObj.Query = append(urlObj.Query, postmanKeyValue{
			Key:      kv.Key,
			Value:    kv.Value,
			Disabled: !kv.Enabled,
		})
		if kv.Enabled && kv.Key != "" {
			enabled = append(enabled, kv.Key+"="+kv.Value)
		}
	}
	if len(enabled) > 0 {
		sep := "?"
		if strings.Contains(req.URL(), "?") {
			sep = "&"
		}
		urlObj.Raw = req.URL() + sep + strings.Join(enabled, "&")
	}
	return urlObj
}

func (p *PostmanExporter) convertAuth(auth core.AuthConfig) *postmanAuth {
	switch auth.Type {
	case core.AuthBearer:
		return &postmanAuth{
			Type:   "bearer",
			Bearer: []postmanAuthItem{{Key: "token", Value: auth.BearerToken, Type: "string"}},
		}
	case core.AuthBasic:
		return &postmanAuth{
			Type: "basic",
			Basic: []postmanAuthItem{
				{Key: "username", Value: auth.BasicUsername, Type: "string"},
				{Key: "password", Value: auth.BasicPassword, Type: "string"},
			},
		}
	case core.AuthAPIKey:
		in := core.APIKeyInHeader
		if auth.InQuery() {
			in = core.APIKeyInQuery
		}
		return &postmanAuth{
			Type: "apikey",
			APIKey: []postmanAuthItem{
				{Key: "key", Value: auth.APIKeyName, Type: "string"},
				{Key: "value", Value: auth.APIKeyValue, Type: "string"},
				{Key: "in", Value: in, Type: "string"},
			},
		}
	}
	return nil
}

// Postman format structures for export

type postmanCollection struct {
	Info postmanInfo   `json:"info"`
	Item []postmanItem `json:"item"`
}

type postmanInfo struct {
	PostmanID string `json:"_postman_id"`
	Name      string `json:"name"`
	Schema    string `json:"schema"`
}

type postmanItem struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Item    []postmanItem   `json:"item,omitempty"`
	Request *postmanRequest `json:"request,omitempty"`
}

type postmanRequest struct {
	Method string            `json:"method"`
	Header []postmanKeyValue `json:"header"`
	Body   *postmanBody      `json:"body,omitempty"`
	URL    any               `json:"url"` // string or postmanURLObject
	Auth   *postmanAuth      `json:"auth,omitempty"`
}

type postmanURLObject struct {
	Raw   string            `json:"raw"`
	Query []postmanKeyValue `json:"query,omitempty"`
}

type postmanKeyValue struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

type postmanBody struct {
	Mode    string              `json:"mode"`
	Raw     string              `json:"raw,omitempty"`
	Options *postmanBodyOptions `json:"options,omitempty"`
}

type postmanBodyOptions struct {
	Raw postmanRawOptions `json:"raw"`
}

type postmanRawOptions struct {
	Language string `json:"language,omitempty"`
}

type postmanAuth struct {
	Type   string            `json:"type"`
	Bearer []postmanAuthItem `json:"bearer,omitempty"`
	Basic  []postmanAuthItem `json:"basic,omitempty"`
	APIKey []postmanAuthItem `json:"apikey,omitempty"`
}

type postmanAuthItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

var _ Exporter = (*PostmanExporter)(nil)
