package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
)

// PostmanImporter imports Postman collections (v2.0 and v2.1). Item IDs are
// kept when present so a collection exported from here comes back unchanged.
type PostmanImporter struct{}

// NewPostmanImporter creates a new Postman importer.
func NewPostmanImporter() *PostmanImporter {
	return &PostmanImporter{}
}

func (p *PostmanImporter) Name() string {
	return "Postman Collection"
}

func (p *PostmanImporter) Format() Format {
	return FormatPostman
}

func (p *PostmanImporter) DetectFormat(content []byte) bool {
	var check struct {
		Info struct {
			Schema string `json:"schema"`
		} `json:"info"`
	}
	if err := json.Unmarshal(content, &check); err != nil {
		return false
	}
	return strings.Contains(check.Info.Schema, "schema.getpostman.com/json/collection")
}

func (p *PostmanImporter) Import(ctx context.Context, content []byte) (*ImportResult, error) {
	var pm postmanCollection
	if err := json.Unmarshal(content, &pm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if strings.TrimSpace(pm.Info.Name) == "" {
		return nil, fmt.Errorf("%w: collection has no name", ErrParseError)
	}

	imp := &postmanImport{ctx: ctx, seen: make(map[string]bool)}

	var coll *core.Collection
	if pm.Info.PostmanID != "" {
		coll = core.NewCollectionWithID(pm.Info.PostmanID, pm.Info.Name)
	} else {
		coll = core.NewCollection(pm.Info.Name)
	}

	items, err := imp.convertItems(pm.Item)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		coll.AddExistingItem(item)
	}

	return newResult(coll, FormatPostman, imp.warnings), nil
}

type postmanImport struct {
	ctx      context.Context
	seen     map[string]bool
	warnings []string
}

// id returns candidate if it is set and unused, or "" to request a fresh one.
func (imp *postmanImport) id(candidate string) string {
	if candidate == "" || imp.seen[candidate] {
		return ""
	}
	imp.seen[candidate] = true
	return candidate
}

func (imp *postmanImport) convertItems(items []postmanItem) ([]core.Item, error) {
	out := make([]core.Item, 0, len(items))
	for _, item := range items {
		if err := imp.ctx.Err(); err != nil {
			return nil, err
		}

		// Anything without a request is a folder, including empty ones.
		if item.Request == nil {
			var f *core.Folder
			if id := imp.id(item.ID); id != "" {
				f = core.NewFolderWithID(id, item.Name, true)
			} else {
				f = core.NewFolder(item.Name)
			}
			children, err := imp.convertItems(item.Item)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				f.AddExistingItem(child)
			}
			out = append(out, f)
			continue
		}

		out = append(out, imp.convertRequest(item))
	}
	return out, nil
}

func (imp *postmanImport) convertRequest(item postmanItem) *core.RequestDefinition {
	pm := item.Request
	method := parseMethod(pm.Method, item.Name, &imp.warnings)
	url, query := pm.URL.split()

	var req *core.RequestDefinition
	if id := imp.id(item.ID); id != "" {
		req = core.NewRequestDefinitionWithID(id, item.Name, method, url)
	} else {
		req = core.NewRequestDefinition(item.Name, method, url)
	}

	headers := make([]core.KeyValue, 0, len(pm.Header))
	for _, h := range pm.Header {
		headers = append(headers, core.KeyValue{Key: h.Key, Value: h.Value, Enabled: !h.Disabled})
	}
	req.SetHeaders(headers)
	req.SetQueryParams(query)

	if pm.Body != nil {
		switch pm.Body.Mode {
		case "raw":
			req.SetBody(pm.Body.Raw)
		case "urlencoded":
			var pairs []string
			for _, kv := range pm.Body.URLEncoded {
				if !kv.Disabled {
					pairs = append(pairs, kv.Key+"="+kv.Value)
				}
			}
			req.SetBody(strings.Join(pairs, "&"))
		case "graphql":
			if pm.Body.GraphQL != nil {
				body := map[string]any{"query": pm.Body.GraphQL.Query}
				var vars any
				if err := json.Unmarshal([]byte(pm.Body.GraphQL.Variables), &vars); err == nil {
					body["variables"] = vars
				}
				data, _ := json.Marshal(body)
				req.SetBody(string(data))
			}
		case "":
		default:
			imp.warnings = append(imp.warnings, fmt.Sprintf("%s: %s body dropped", item.Name, pm.Body.Mode))
		}
	}

	if pm.Auth != nil {
		auth, ok := pm.Auth.convert()
		if !ok {
			imp.warnings = append(imp.warnings, fmt.Sprintf("%s: %s auth dropped", item.Name, pm.Auth.Type))
		}
		req.SetAuth(auth)
	}

	return req
}

func (a *postmanAuth) convert() (core.AuthConfig, bool) {
	get := func(items []postmanAuthItem, key string) string {
		for _, item := range items {
			if item.Key == key {
				return item.Value
			}
		}
		return ""
	}

	switch a.Type {
	case "bearer":
		return core.NewBearerAuth(get(a.Bearer, "token")), true
	case "basic":
		return core.NewBasicAuth(get(a.Basic, "username"), get(a.Basic, "password")), true
	case "apikey":
		return core.NewAPIKeyAuth(get(a.APIKey, "key"), get(a.APIKey, "value"), get(a.APIKey, "in")), true
	case "noauth", "":
		return core.AuthConfig{Type: core.AuthNone}, true
	}
	return core.AuthConfig{Type: core.AuthNone}, false
}

// postmanURL is either a plain string or a structured URL object.
type postmanURL struct {
	raw    string
	object *postmanURLObject
}

func (u *postmanURL) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &u.raw); err == nil {
		return nil
	}
	u.object = &postmanURLObject{}
	return json.Unmarshal(data, u.object)
}

// split returns the base URL and its query rows. When the object lists query
// rows explicitly, the query string in raw is dropped in favor of them.
func (u postmanURL) split() (string, []core.KeyValue) {
	if u.object == nil {
		return u.raw, nil
	}

	obj := u.object
	base := obj.Raw
	if base == "" {
		base = obj.build()
	}
	if len(obj.Query) == 0 {
		return base, nil
	}

	base, _, _ = strings.Cut(base, "?")
	query := make([]core.KeyValue, 0, len(obj.Query))
	for _, kv := range obj.Query {
		query = append(query, core.KeyValue{Key: kv.Key, Value: kv.Value, Enabled: !kv.Disabled})
	}
	return base, query
}

func (o *postmanURLObject) build() string {
	var sb strings.Builder
	if o.Protocol != "" {
		sb.WriteString(o.Protocol + "://")
	}
	sb.WriteString(joinParts(o.Host, "."))
	if o.Port != "" {
		sb.WriteString(":" + o.Port)
	}
	if path := joinParts(o.Path, "/"); path != "" {
		sb.WriteString("/" + path)
	}
	return sb.String()
}

// joinParts accepts Postman's string-or-array encoding of host and path.
func joinParts(v any, sep string) string {
	switch parts := v.(type) {
	case string:
		return strings.TrimPrefix(parts, sep)
	case []any:
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s, ok := part.(string); ok {
				out = append(out, s)
			}
		}
		return strings.Join(out, sep)
	}
	return ""
}

// Postman format structures for import

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
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Item    []postmanItem   `json:"item"`
	Request *postmanRequest `json:"request"`
}

type postmanRequest struct {
	Method string            `json:"method"`
	Header []postmanKeyValue `json:"header"`
	Body   *postmanBody      `json:"body"`
	URL    postmanURL        `json:"url"`
	Auth   *postmanAuth      `json:"auth"`
}

type postmanURLObject struct {
	Raw      string            `json:"raw"`
	Protocol string            `json:"protocol"`
	Host     any               `json:"host"`
	Port     string            `json:"port"`
	Path     any               `json:"path"`
	Query    []postmanKeyValue `json:"query"`
}

type postmanKeyValue struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type postmanBody struct {
	Mode       string            `json:"mode"`
	Raw        string            `json:"raw"`
	URLEncoded []postmanKeyValue `json:"urlencoded"`
	GraphQL    *postmanGraphQL   `json:"graphql"`
}

type postmanGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

type postmanAuth struct {
	Type   string            `json:"type"`
	Bearer []postmanAuthItem `json:"bearer"`
	Basic  []postmanAuthItem `json:"basic"`
	APIKey []postmanAuthItem `json:"apikey"`
}

type postmanAuthItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var _ Importer = (*PostmanImporter)(nil)
