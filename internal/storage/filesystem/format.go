package filesystem

import (
	"fmt"

	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
)

// Storage format types. Items are tagged by a "type" field so folders and
// requests can share one array.

const (
	itemTypeRequest = "request"
	itemTypeFolder  = "folder"
)

type collectionData struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []itemData `json:"items"`
}

type itemData struct {
	request *requestData
	folder  *folderData
}

type folderData struct {
	Type     string     `json:"type"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Items    []itemData `json:"items"`
	Expanded bool       `json:"expanded"`
}

type requestData struct {
	Type        string         `json:"type"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Method      string         `json:"method"`
	URL         string         `json:"url"`
	Headers     []keyValueData `json:"headers"`
	QueryParams []keyValueData `json:"query_params"`
	Body        string         `json:"body"`
	Auth        authData       `json:"auth"`
}

type keyValueData struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

type authData struct {
	AuthType       string `json:"auth_type"`
	BearerToken    string `json:"bearer_token"`
	BasicUsername  string `json:"basic_username"`
	BasicPassword  string `json:"basic_password"`
	APIKeyName     string `json:"api_key_name"`
	APIKeyValue    string `json:"api_key_value"`
	APIKeyLocation string `json:"api_key_location"`
}

func (d itemData) MarshalJSON() ([]byte, error) {
	if d.folder != nil {
		return json.Marshal(d.folder)
	}
	return json.Marshal(d.request)
}

func (d *itemData) UnmarshalJSON(b []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}

	switch probe.Type {
	case itemTypeFolder:
		d.folder = &folderData{}
		return json.Unmarshal(b, d.folder)
	case itemTypeRequest:
		d.request = &requestData{}
		return json.Unmarshal(b, d.request)
	default:
		return fmt.Errorf("unknown item type %q", probe.Type)
	}
}

// Conversion functions

func toCollectionData(c *core.Collection) *collectionData {
	return &collectionData{
		ID:    c.ID(),
		Name:  c.Name(),
		Items: toItemsData(c.Items()),
	}
}

func toItemsData(items []core.Item) []itemData {
	result := make([]itemData, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case *core.Folder:
			result = append(result, itemData{folder: &folderData{
				Type:     itemTypeFolder,
				ID:       v.ID(),
				Name:     v.Name(),
				Items:    toItemsData(v.Items()),
				Expanded: v.Expanded(),
			}})
		case *core.RequestDefinition:
			result = append(result, itemData{request: toRequestData(v)})
		}
	}
	return result
}

func toRequestData(r *core.RequestDefinition) *requestData {
	auth := r.Auth()
	authType := auth.Type
	if authType == "" {
		authType = core.AuthNone
	}
	return &requestData{
		Type:        itemTypeRequest,
		ID:          r.ID(),
		Name:        r.Name(),
		Method:      string(r.Method()),
		URL:         r.URL(),
		Headers:     toKeyValueData(r.Headers()),
		QueryParams: toKeyValueData(r.QueryParams()),
		Body:        r.Body(),
		Auth: authData{
			AuthType:       string(authType),
			BearerToken:    auth.BearerToken,
			BasicUsername:  auth.BasicUsername,
			BasicPassword:  auth.BasicPassword,
			APIKeyName:     auth.APIKeyName,
			APIKeyValue:    auth.APIKeyValue,
			APIKeyLocation: auth.APIKeyLocation,
		},
	}
}

func toKeyValueData(kvs []core.KeyValue) []keyValueData {
	result := make([]keyValueData, 0, len(kvs))
	for _, kv := range kvs {
		result = append(result, keyValueData{Key: kv.Key, Value: kv.Value, Enabled: kv.Enabled})
	}
	return result
}

func fromCollectionData(data *collectionData) *core.Collection {
	c := core.NewCollectionWithID(data.ID, data.Name)
	for _, item := range fromItemsData(data.Items) {
		c.AddExistingItem(item)
	}
	return c
}

func fromItemsData(items []itemData) []core.Item {
	result := make([]core.Item, 0, len(items))
	for _, d := range items {
		switch {
		case d.folder != nil:
			f := core.NewFolderWithID(d.folder.ID, d.folder.Name, d.folder.Expanded)
			for _, child := range fromItemsData(d.folder.Items) {
				f.AddExistingItem(child)
			}
			result = append(result, f)
		case d.request != nil:
			result = append(result, fromRequestData(d.request))
		}
	}
	return result
}

func fromRequestData(data *requestData) *core.RequestDefinition {
	r := core.NewRequestDefinitionWithID(data.ID, data.Name, core.ParseMethod(data.Method), data.URL)
	r.SetHeaders(fromKeyValueData(data.Headers))
	r.SetQueryParams(fromKeyValueData(data.QueryParams))
	r.SetBody(data.Body)

	authType := core.AuthType(data.Auth.AuthType)
	if authType == "" {
		authType = core.AuthNone
	}
	r.SetAuth(core.AuthConfig{
		Type:           authType,
		BearerToken:    data.Auth.BearerToken,
		BasicUsername:  data.Auth.BasicUsername,
		BasicPassword:  data.Auth.BasicPassword,
		APIKeyName:     data.Auth.APIKeyName,
		APIKeyValue:    data.Auth.APIKeyValue,
		APIKeyLocation: data.Auth.APIKeyLocation,
	})
	return r
}

func fromKeyValueData(kvs []keyValueData) []core.KeyValue {
	if len(kvs) == 0 {
		return nil
	}
	result := make([]core.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		result = append(result, core.KeyValue{Key: kv.Key, Value: kv.Value, Enabled: kv.Enabled})
	}
	return result
}
