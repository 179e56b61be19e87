package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsBearerWhenTokenSet(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ChatResponse{Text: "hi there", VideoJobID: "job-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.SetToken("tok-123")

	resp, err := c.Chat(context.Background(), "hello", true)
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
	assert.Equal(t, "job-1", resp.VideoJobID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, ChatRequest{Message: "hello", WantVideo: true}, gotReq)
}

func TestChatOmitsBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(ChatResponse{Text: "hi"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.SetToken("tok")
	c.ClearToken()

	_, err := c.Chat(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not authenticated"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.SetToken("stale")
	hookFired := false
	c.SetUnauthorizedHook(func() { hookFired = true })

	_, err := c.Chat(context.Background(), "hello", false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, hookFired)

	// The stale token is gone from subsequent requests.
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	assert.Empty(t, token)
}

func TestErrorDetailSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(ErrorResponse{Detail: "Email already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.Signup(context.Background(), "dup@b.com", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Email already registered", apiErr.Error())
}

func TestErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Chat(context.Background(), "hello", false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 500", apiErr.Error())
}

func TestTransportErrorNamesEndpoint(t *testing.T) {
	// A server that is already gone.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	_, err := c.Chat(context.Background(), "hello", false)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, transportErr.Error(), url)
	assert.Contains(t, transportErr.Error(), "is the backend running?")
}

func TestVideoJobEscapesJobID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(VideoJobResponse{Status: "ready", VideoURL: "https://cdn.example/v.mp4"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	resp, err := c.VideoJob(context.Background(), "job/../../etc")
	require.NoError(t, err)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "/video/job%2F..%2F..%2Fetc", gotPath)
}

func TestLoginReturnsAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	resp, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.AccessToken)
}

func TestDefaultBaseURL(t *testing.T) {
	c := New("", nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
