package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the Maya backend listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is the typed HTTP client for the Maya backend. A bearer token is
// attached to every request while one is set; token lifecycle is owned by the
// auth package, which installs an unauthorized hook so a 401 anywhere
// invalidates stored credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// New returns a Client for baseURL. Pass an empty string for DefaultBaseURL.
func New(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken installs the bearer token sent with subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.SetToken("") }

// SetUnauthorizedHook registers fn to run whenever any request comes back 401.
// The client clears its own token before invoking fn.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Chat sends one user turn. wantVideo asks the server to also start a video
// generation job; when accepted the response carries the job id.
func (c *Client) Chat(ctx context.Context, message string, wantVideo bool) (*ChatResponse, error) {
	resp, err := c.postJSON(ctx, "/chat", ChatRequest{Message: message, WantVideo: wantVideo})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chat: %w", err)
	}
	return &result, nil
}

// VideoJob fetches the current status of a video generation job.
func (c *Client) VideoJob(ctx context.Context, jobID string) (*VideoJobResponse, error) {
	resp, err := c.get(ctx, "/video/"+url.PathEscape(jobID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	var result VideoJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode video job: %w", err)
	}
	return &result, nil
}

// Login exchanges credentials for an access token. It does not install the
// token; the caller decides whether and where to keep it.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.postJSON(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	var result LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	return &result, nil
}

// Signup creates an account. Any 2xx status is success.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, "/auth/signup", SignupRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.do(req, path)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("path", path), zap.Error(err))
		return nil, &TransportError{Endpoint: c.baseURL, Err: err}
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// checkStatus converts non-2xx responses into the error taxonomy. A 401
// clears the local token and fires the unauthorized hook so cached
// credentials are dropped exactly as on explicit logout.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.Lock()
		c.token = ""
		hook := c.onUnauthorized
		c.mu.Unlock()
		if hook != nil {
			hook()
		}
		return &APIError{Status: resp.StatusCode, Detail: "Unauthorized. Please log in again."}
	}
	return c.parseError(resp)
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
		return &APIError{Status: resp.StatusCode, Detail: apiErr.Detail}
	}
	return &APIError{Status: resp.StatusCode}
}
