package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthConfig_IsConfigured(t *testing.T) {
	t.Run("none returns false", func(t *testing.T) {
		assert.False(t, AuthConfig{Type: AuthNone}.IsConfigured())
		assert.False(t, AuthConfig{}.IsConfigured())
	})

	t.Run("requires the identifying field", func(t *testing.T) {
		assert.False(t, AuthConfig{Type: AuthBearer}.IsConfigured())
		assert.True(t, NewBearerAuth("x").IsConfigured())
		assert.True(t, NewBasicAuth("u", "").IsConfigured())
		assert.True(t, NewAPIKeyAuth("k", "", APIKeyInHeader).IsConfigured())
	})
}

func TestAuthConfig_InQuery(t *testing.T) {
	assert.True(t, NewAPIKeyAuth("k", "v", APIKeyInQuery).InQuery())
	assert.False(t, NewAPIKeyAuth("k", "v", APIKeyInHeader).InQuery())
	assert.False(t, NewAPIKeyAuth("k", "v", "").InQuery())
	assert.False(t, NewBearerAuth("t").InQuery())
}

func TestAuthConfig_DisplayName(t *testing.T) {
	assert.Equal(t, "No Auth", AuthConfig{}.DisplayName())
	assert.Equal(t, "Bearer Token", NewBearerAuth("t").DisplayName())
	assert.Equal(t, "digest", AuthConfig{Type: "digest"}.DisplayName())
}

func TestAuthConfig_Summary(t *testing.T) {
	tests := []struct {
		name string
		auth AuthConfig
		want string
	}{
		{"none", AuthConfig{Type: AuthNone}, "No authentication"},
		{"basic", NewBasicAuth("alice", "secret"), "Basic: alice"},
		{"short bearer", NewBearerAuth("abc"), "Bearer: ****"},
		{"long bearer", NewBearerAuth("abcdefghijklmnopqrstuvwxyz"), "Bearer: abcdefgh...wxyz"},
		{"api key header", NewAPIKeyAuth("X-Key", "v", ""), "API Key: X-Key (in header)"},
		{"api key query", NewAPIKeyAuth("key", "v", APIKeyInQuery), "API Key: key (in query)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.auth.Summary())
		})
	}
}
