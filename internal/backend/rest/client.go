// Package rest talks to a PostgREST data API and a GoTrue auth API mounted
// under one base URL, authenticated with a project API key.
package rest

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

	"github.com/edvin/backupdash/internal/backend"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewBackend returns a backend.Client whose store and authenticator both use c.
func NewBackend(c *Client) *backend.Client {
	return &backend.Client{Name: "rest", Store: c, Auth: c}
}

type call struct {
	op      string
	table   string
	method  string
	path    string
	params  url.Values
	headers map[string]string
	body    any
	// bearer overrides the API key in the Authorization header.
	bearer string
}

// do sends the request and returns the response for 2xx statuses. Any other
// outcome is reported as a *backend.Error and the body is closed.
func (c *Client) do(ctx context.Context, cl call) (*http.Response, error) {
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, &backend.Error{Op: cl.op, Table: cl.table, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + cl.path
	if len(cl.params) > 0 {
		u += "?" + cl.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, &backend.Error{Op: cl.op, Table: cl.table, Err: fmt.Errorf("create request: %w", err)}
	}
	bearer := c.apiKey
	if cl.bearer != "" {
		bearer = cl.bearer
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &backend.Error{Op: cl.op, Table: cl.table, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		code, msg := parseErrorBody(raw)
		return nil, &backend.Error{
			Op:         cl.op,
			Table:      cl.table,
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    msg,
		}
	}
	return resp, nil
}

// decode reads a JSON response body into dest and closes it.
func decode(resp *http.Response, op, table string, dest any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &backend.Error{Op: op, Table: table, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorBody covers the error shapes of PostgREST ({code, message}) and of
// both GoTrue generations ({error, error_description} and {error_code, msg}).
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
}

func parseErrorBody(raw []byte) (code, message string) {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return "", strings.TrimSpace(string(raw))
	}

	switch {
	case eb.ErrorCode != "":
		code = eb.ErrorCode
	case eb.Error != "":
		code = eb.Error
	default:
		if s, ok := eb.Code.(string); ok {
			code = s
		}
	}

	for _, m := range []string{eb.Message, eb.Msg, eb.ErrorDescription} {
		if m != "" {
			return code, m
		}
	}
	return code, eb.Error
}
