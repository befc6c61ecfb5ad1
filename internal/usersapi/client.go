package usersapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the deployment serving the users resource.
const DefaultBaseURL = "https://ub5izr40ze.execute-api.us-east-1.amazonaws.com"

const usersPath = "/Prod/users"

var (
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("users api: transport failure")
	// ErrDecode matches any *DecodeError.
	ErrDecode = errors.New("users api: response is not valid JSON")
)

// TransportError reports that no usable response was received.
// Retrying may succeed.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("users api: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError reports a response whose body could not be parsed as JSON.
// Retrying the same request will not help.
type DecodeError struct {
	Status int
	Body   []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("users api: status %d: body is not valid JSON (%d bytes)", e.Status, len(e.Body))
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Response is a users endpoint reply. Body holds the JSON exactly as received.
type Response struct {
	Status int
	Body   json.RawMessage
}

// OK reports whether Status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Client issues lookups against the users endpoint.
// It sets no headers, no body and no timeout of its own.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New returns a Client. A nil httpClient means http.DefaultClient and an
// empty baseURL means DefaultBaseURL.
func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// URL returns the request URL for id.
func (c *Client) URL(id string) string {
	q := url.Values{}
	q.Set("userId", id)
	return c.baseURL + usersPath + "?" + q.Encode()
}

// FetchUser performs one GET for id. The body is parsed as JSON whatever the
// status; non-2xx replies are returned as a Response, not as an error.
func (c *Client) FetchUser(ctx context.Context, id string) (*Response, error) {
	u := c.URL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: fmt.Errorf("read response: %w", err)}
	}

	if !json.Valid(body) {
		return nil, &DecodeError{Status: resp.StatusCode, Body: body}
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}
