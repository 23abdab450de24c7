package core

import "fmt"

// AuthType identifies how a request authenticates.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "api_key"
)

// AuthTypeNames returns display names for auth types.
var AuthTypeNames = map[AuthType]string{
	AuthNone:   "No Auth",
	AuthBasic:  "Basic Auth",
	AuthBearer: "Bearer Token",
	AuthAPIKey: "API Key",
}

// API key locations. Anything other than query is sent as a header.
const (
	APIKeyInHeader = "header"
	APIKeyInQuery  = "query"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Type           AuthType
	BearerToken    string
	BasicUsername  string
	BasicPassword  string
	APIKeyName     string
	APIKeyValue    string
	APIKeyLocation string
}

// NewBearerAuth creates a bearer token configuration.
func NewBearerAuth(token string) AuthConfig {
	return AuthConfig{Type: AuthBearer, BearerToken: token}
}

// NewBasicAuth creates a basic auth configuration.
func NewBasicAuth(username, password string) AuthConfig {
	return AuthConfig{Type: AuthBasic, BasicUsername: username, BasicPassword: password}
}

// NewAPIKeyAuth creates an API key configuration.
func NewAPIKeyAuth(name, value, location string) AuthConfig {
	return AuthConfig{Type: AuthAPIKey, APIKeyName: name, APIKeyValue: value, APIKeyLocation: location}
}

// IsConfigured reports whether the auth config would add anything to a request.
func (a AuthConfig) IsConfigured() bool {
	switch a.Type {
	case AuthBearer:
		return a.BearerToken != ""
	case AuthBasic:
		return a.BasicUsername != ""
	case AuthAPIKey:
		return a.APIKeyName != ""
	default:
		return false
	}
}

// InQuery reports whether an API key goes into the query string.
func (a AuthConfig) InQuery() bool {
	return a.Type == AuthAPIKey && a.APIKeyLocation == APIKeyInQuery
}

// DisplayName returns a human-readable name for the auth type.
func (a AuthConfig) DisplayName() string {
	if name, ok := AuthTypeNames[a.Type]; ok {
		return name
	}
	if a.Type == "" {
		return AuthTypeNames[AuthNone]
	}
	return string(a.Type)
}

// Summary returns a brief description without revealing secrets.
func (a AuthConfig) Summary() string {
	if !a.IsConfigured() {
		return "No authentication"
	}
	switch a.Type {
	case AuthBasic:
		return fmt.Sprintf("Basic: %s", a.BasicUsername)
	case AuthBearer:
		if len(a.BearerToken) > 20 {
			return fmt.Sprintf("Bearer: %s...%s", a.BearerToken[:8], a.BearerToken[len(a.BearerToken)-4:])
		}
		return "Bearer: ****"
	case AuthAPIKey:
		loc := APIKeyInHeader
		if a.InQuery() {
			loc = APIKeyInQuery
		}
		return fmt.Sprintf("API Key: %s (in %s)", a.APIKeyName, loc)
	}
	return a.DisplayName()
}
