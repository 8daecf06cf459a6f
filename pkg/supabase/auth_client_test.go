package supabase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthorizeURL(t *testing.T) {
	c := NewAuthClient("https://abc.supabase.co/", "anon")

	raw, verifier := c.AuthorizeURL("google", "http://localhost:3000/")
	require.NotEmpty(t, verifier)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc.supabase.co", u.Host)
	assert.Equal(t, "/auth/v1/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "google", q.Get("provider"))
	assert.Equal(t, "http://localhost:3000/", q.Get("redirect_to"))
	assert.Equal(t, "s256", q.Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), q.Get("code_challenge"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "pkce", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "the-code", body["auth_code"])
		assert.Equal(t, "the-verifier", body["code_verifier"])

		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer","expires_in":3600,"refresh_token":"rt",
			"user":{"id":"u1","email":"a@b.com","user_metadata":{"full_name":"Ali"}}}`))
	}))
	defer srv.Close()

	c := NewAuthClient(srv.URL, "anon")
	s, err := c.ExchangeCode(t.Context(), "the-code", "the-verifier")
	require.NoError(t, err)

	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "Ali", s.User.UserMetadata["full_name"])
}

func TestExchangeCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code verifier mismatch"}`))
	}))
	defer srv.Close()

	c := NewAuthClient(srv.URL, "anon")
	_, err := c.ExchangeCode(t.Context(), "c", "v")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "code verifier mismatch", apiErr.Message)
}

func TestSignOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewAuthClient(srv.URL, "anon").SignOut(t.Context(), "at"))
}
