package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	b, err := ParseBasic("admin:se:cret")
	require.NoError(t, err)
	assert.Equal(t, Basic{Username: "admin", Password: "se:cret"}, b)

	header, err := b.Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic YWRtaW46c2U6Y3JldA==", header)

	_, err = ParseBasic("nopassword")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = ParseBasic(":secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestBearer(t *testing.T) {
	header, err := Bearer{Token: "abc123"}.Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", header)

	_, err = Bearer{}.Authorization(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		token := "cc-token"
		if r.PostForm.Get("grant_type") == "password" {
			if r.PostForm.Get("username") != "neo" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			token = "pw-token"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOAuth2(t *testing.T) {
	server := tokenServer(t)
	ctx := context.Background()

	t.Run("client credentials", func(t *testing.T) {
		header, err := OAuth2{TokenURL: server.URL, ClientID: "id", ClientSecret: "secret"}.Authorization(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Bearer cc-token", header)
	})

	t.Run("password", func(t *testing.T) {
		o := OAuth2{Flow: FlowPassword, TokenURL: server.URL, ClientID: "id", ClientSecret: "secret", Username: "neo", Password: "matrix"}
		header, err := o.Authorization(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Bearer pw-token", header)
	})

	t.Run("rejected", func(t *testing.T) {
		o := OAuth2{Flow: FlowPassword, TokenURL: server.URL, ClientID: "id", Username: "smith"}
		_, err := o.Authorization(ctx)
		assert.Error(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := OAuth2{ClientID: "id"}.Authorization(ctx)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		_, err = OAuth2{TokenURL: server.URL, ClientID: "id", Flow: "implicit"}.Authorization(ctx)
		assert.Error(t, err)
	})
}
