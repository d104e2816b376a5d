package appclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"success": status < 300,
		"message": message,
		"data":    data,
	})
}

func TestClient_SignInStoresTokensAndSendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/sign-in":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body["email"])
			writeEnvelope(w, http.StatusOK, "signed in", map[string]any{
				"user":   map[string]any{"id": "u1", "name": "Ada", "email": "ada@example.com"},
				"tokens": map[string]any{"access_token": "acc", "refresh_token": "ref"},
			})
		case "/api/account":
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, "account", map[string]any{"id": "u1", "name": "Ada", "avatar_url": "https://a/u1.png"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", srv.Client())
	u, err := c.SignIn(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ref", c.Tokens().RefreshToken)

	me, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer acc", gotAuth)
	assert.Equal(t, "https://a/u1.png", me.AvatarURL)
}

func TestClient_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "invalid email or password", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.SignIn(context.Background(), "ada@example.com", "nope")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid email or password", UserMessage(err))
	assert.Empty(t, c.Tokens().AccessToken)
}

func TestClient_MenuEncodesParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu", r.URL.Path)
		assert.Equal(t, "burgers", r.URL.Query().Get("category"))
		assert.Equal(t, "bacon cheese", r.URL.Query().Get("query"))
		assert.Equal(t, "6", r.URL.Query().Get("limit"))
		writeEnvelope(w, http.StatusOK, "menu", []map[string]any{{"id": "m1", "name": "Bacon Burger", "price": 27.5}})
	}))
	defer srv.Close()

	items, err := New(srv.URL, srv.Client()).Menu(context.Background(), MenuParams{Category: "burgers", Query: "bacon cheese", Limit: 6})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 27.5, items[0].Price)
}

func TestClient_MenuWithoutParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeEnvelope(w, http.StatusOK, "menu", []any{})
	}))
	defer srv.Close()

	items, err := New(srv.URL, srv.Client()).Menu(context.Background(), MenuParams{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_SignOutForgetsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/account/session", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "signed out", map[string]bool{"signed_out": true})
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	c.setTokens(Tokens{AccessToken: "acc"})
	require.NoError(t, c.SignOut(context.Background()))
	assert.Empty(t, c.Tokens().AccessToken)
}

func TestClient_RefreshRotatesTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref1", body["refresh_token"])
		writeEnvelope(w, http.StatusOK, "token refreshed", map[string]string{"access_token": "acc2", "refresh_token": "ref2"})
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	c.setTokens(Tokens{AccessToken: "acc1", RefreshToken: "ref1"})
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, Tokens{AccessToken: "acc2", RefreshToken: "ref2"}, c.Tokens())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "email already registered", UserMessage(&APIError{Status: 409, Message: "email already registered"}))
	assert.Equal(t, GenericMessage, UserMessage(&APIError{Status: 500}))
	assert.Equal(t, GenericMessage, UserMessage(errors.New("dial tcp: connection refused")))
	assert.Equal(t, "Something went wrong.", UserMessage(nil))
}
