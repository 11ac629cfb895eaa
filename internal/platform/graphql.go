package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "devstreaks/0.1"

// GraphQLError carries the messages of a GraphQL "errors" array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.Endpoint)
}

// ClientOptions configures a GraphQLClient.
type ClientOptions struct {
	Endpoint string
	Token    string
	Timeout  time.Duration

	// RateLimit is the sustained request rate per second; 0 disables limiting.
	RateLimit float64
	Burst     int

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client

	// Headers are added to every request.
	Headers map[string]string
}

// GraphQLClient posts GraphQL queries to a single endpoint.
type GraphQLClient struct {
	http     *http.Client
	endpoint string
	token    string
	headers  map[string]string
	limiter  *rate.Limiter
}

// NewGraphQLClient builds a client from opts.
func NewGraphQLClient(opts ClientOptions) *GraphQLClient {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &GraphQLClient{
		http:     hc,
		endpoint: opts.Endpoint,
		token:    opts.Token,
		headers:  opts.Headers,
		limiter:  limiter,
	}
}

// Endpoint returns the URL queries are posted to.
func (c *GraphQLClient) Endpoint() string { return c.endpoint }

// HasToken reports whether requests carry a bearer token.
func (c *GraphQLClient) HasToken() bool { return c.token != "" }

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do posts query with variables and decodes the "data" member into out.
func (c *GraphQLClient) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: c.endpoint, StatusCode: resp.StatusCode}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	// Partial data is decoded even when errors are present.
	if out != nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return &GraphQLError{Messages: msgs}
	}
	return nil
}

// IsMissingUser reports whether a query found no such user: the user field
// came back null, either cleanly or alongside GraphQL errors such as
// GitHub's "Could not resolve to a User".
func IsMissingUser(err error, userIsNull bool) bool {
	if !userIsNull {
		return false
	}
	if err == nil {
		return true
	}
	var gqlErr *GraphQLError
	return errors.As(err, &gqlErr)
}
