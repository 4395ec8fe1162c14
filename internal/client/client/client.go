package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/todoapi/internal/client/models"
	"github.com/dmitrijs2005/todoapi/internal/common"
)

// maxErrorBody caps how much of an error response is decoded.
const maxErrorBody = 64 << 10

// Client is the API surface used by the CLI.
type Client interface {
	// Register creates an account. It does not log in.
	Register(ctx context.Context, email, password string) (*models.User, error)

	// Login authenticates and keeps the issued token for later calls.
	Login(ctx context.Context, email, password string) (*models.User, error)

	// Logout revokes the current token on the server and forgets it locally.
	Logout(ctx context.Context) error

	ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error)
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	CreateTodo(ctx context.Context, description string, completed bool) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	// Ping checks that the server answers its health endpoint.
	Ping(ctx context.Context) error

	Token() string
	SetToken(token string)
}

// HTTPClient implements Client against the JSON API. It is safe for
// concurrent use.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL and builds a client whose requests time out
// after timeout (zero means no limit). Outgoing requests carry trace context.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("server url: missing host")
	}

	return &HTTPClient{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	if _, err := c.do(ctx, http.MethodPost, "/users", nil, credentials{email, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	h, err := c.do(ctx, http.MethodPost, "/users/login", nil, credentials{email, password}, &u)
	if err != nil {
		return nil, err
	}
	token := h.Get(common.AuthHeaderName)
	if token == "" {
		return nil, errors.New("login response carried no token")
	}
	c.SetToken(token)
	return &u, nil
}

// Logout forgets the token even when the server already considers it
// invalid; in that case ErrUnauthorized is still returned.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/login", nil, nil, nil)
	if err == nil || errors.Is(err, ErrUnauthorized) {
		c.SetToken("")
	}
	return err
}

func (c *HTTPClient) ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error) {
	q := url.Values{}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}

	items := []models.Todo{}
	if _, err := c.do(ctx, http.MethodGet, "/todos", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	var t models.Todo
	if _, err := c.do(ctx, http.MethodGet, "/todos/"+url.PathEscape(id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) CreateTodo(ctx context.Context, description string, completed bool) (*models.Todo, error) {
	body := struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}{description, completed}

	var t models.Todo
	if _, err := c.do(ctx, http.MethodPost, "/todos", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	var t models.Todo
	if _, err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), nil, patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteTodo(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil, nil)
	return err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
	return err
}

// do sends one request and decodes a 2xx body into out. It returns the
// response headers so callers can read the Auth header.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthHeaderName, t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	}

	apiErr := &APIError{Status: resp.StatusCode}
	// A body that is not JSON still yields a usable error.
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(apiErr)
	return apiErr
}
