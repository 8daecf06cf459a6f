// Package supabase talks to the Supabase Auth REST API (GoTrue) for the
// Google OAuth PKCE flow.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// APIError is a non-2xx answer from Supabase Auth.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase auth: status %d: %s", e.Status, e.Message)
}

// AuthUser is the user object embedded in a Supabase session.
type AuthUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// Session is the token response of /auth/v1/token.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

type AuthClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewAuthClient(supabaseURL, apiKey string) *AuthClient {
	return NewAuthClientWithHTTP(supabaseURL, apiKey, &http.Client{Timeout: 15 * time.Second})
}

func NewAuthClientWithHTTP(supabaseURL, apiKey string, client *http.Client) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(supabaseURL, "/"),
		apiKey:  apiKey,
		http:    client,
	}
}

// AuthorizeURL returns the provider sign-in URL and the PKCE verifier that
// must be presented again in ExchangeCode.
func (c *AuthClient) AuthorizeURL(provider, redirectTo string) (string, string) {
	verifier := oauth2.GenerateVerifier()

	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	q.Set("code_challenge", oauth2.S256ChallengeFromVerifier(verifier))
	q.Set("code_challenge_method", "s256")

	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), verifier
}

// ExchangeCode trades the ?code= returned to redirect_to for a session.
func (c *AuthClient) ExchangeCode(ctx context.Context, code, verifier string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=pkce", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	var session Session
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the refresh tokens behind accessToken.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.do(req, nil)
}

func (c *AuthClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// errorMessage picks the human readable field out of a GoTrue error body.
func errorMessage(raw []byte) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, s := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
