package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "taskchat/agent/contract"
)

const (
	// Transport-level failures surface in-band with this kind; the
	// orchestrator treats them like any other tool failure.
	KindTransportError = "tool_transport_error"

	maxToolResponseBytes = 2 << 20
)

type ClientConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client reaches the tool server over HTTP. Each tool is addressed by its
// fixed name at POST {base}/tools/{name}; non-2xx responses are decoded the
// same way as 2xx bodies, so an in-body error and a transport-status error
// are indistinguishable to callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ contractx.ToolGateway = (*Client)(nil)

func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("tool server url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tool server url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func (c *Client) Dispatch(ctx context.Context, intent contractx.ToolIntent) contractx.ToolResult {
	args := intent.Args
	if args == nil {
		args = map[string]any{}
	}

	body, err := json.Marshal(args)
	if err != nil {
		return contractx.FailureResult(KindTransportError, fmt.Sprintf("marshal args for tool %s: %v", intent.Name, err))
	}

	reqURL := c.baseURL + "/tools/" + url.PathEscape(intent.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return contractx.FailureResult(KindTransportError, fmt.Sprintf("build request for tool %s: %v", intent.Name, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return contractx.FailureResult(KindTransportError, fmt.Sprintf("call tool %s: %v", intent.Name, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxToolResponseBytes))
	if err != nil {
		return contractx.FailureResult(KindTransportError, fmt.Sprintf("read tool %s response: %v", intent.Name, err))
	}

	var result contractx.ToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return contractx.FailureResult(KindTransportError,
			fmt.Sprintf("tool %s returned status=%d with undecodable body", intent.Name, resp.StatusCode))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if !result.IsFailure() {
			// Non-2xx without an error body still counts as a failure.
			return contractx.FailureResult(KindTransportError,
				fmt.Sprintf("tool %s returned status=%d", intent.Name, resp.StatusCode))
		}
	}

	return result
}
