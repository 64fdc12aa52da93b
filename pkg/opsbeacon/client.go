// Package opsbeacon is a client library for the OpsBeacon workspace
// automation API. It covers commands, connections, users, groups, files,
// execution policies, and triggers, including management helpers for
// mcp-kind triggers.
//
// A note on success signaling: the remote API sometimes reports operation
// failure inside a 200 response, as an "error" key or a "success": false
// field in the body. The client deliberately does not turn those into
// errors — transport success and operation success are distinct at this
// API, and collapsing them would hide information callers need. Methods
// that return a raw map (Run, UpdateMCPTrigger, and friends) hand the body
// back exactly as received; inspecting it is the caller's job.
package opsbeacon

import (
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "OpsBeacon-Go-SDK/" + Version
)

// Config holds client configuration. APIDomain and APIToken are required.
type Config struct {
	// APIDomain is the OpsBeacon API domain, e.g. "api.console.opsbeacon.com".
	// Trailing slashes are stripped; the scheme is always https.
	APIDomain string

	// APIToken is the workspace API token, sent as a bearer token.
	APIToken string

	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration

	// Debug enables request/response logging when no Logger is supplied.
	Debug bool

	// Logger receives request/response diagnostics. The Authorization header
	// value is always masked. Nil means no diagnostics (or a Debug-level
	// logger when Debug is set).
	Logger hclog.Logger

	// HTTPClient overrides the pooled HTTP client, e.g. for custom TLS.
	HTTPClient *http.Client
}

// Client is an OpsBeacon API client. Its configuration is immutable after
// construction; the pooled HTTP connection is safe for reuse across
// sequential calls.
type Client struct {
	apiDomain string
	apiToken  string
	timeout   time.Duration
	logger    hclog.Logger
	httpc     *http.Client
}

// New creates a client from cfg. It returns a ValidationError when the
// domain or token is missing; no network call is made.
func New(cfg Config) (*Client, error) {
	if cfg.APIDomain == "" {
		return nil, &ValidationError{Field: "APIDomain", Message: "api domain is required"}
	}
	if cfg.APIToken == "" {
		return nil, &ValidationError{Field: "APIToken", Message: "api token is required"}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = hclog.New(&hclog.LoggerOptions{Name: "opsbeacon", Level: hclog.Debug})
		} else {
			logger = hclog.NewNullLogger()
		}
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		apiDomain: strings.TrimRight(cfg.APIDomain, "/"),
		apiToken:  cfg.APIToken,
		timeout:   timeout,
		logger:    logger,
		httpc:     httpc,
	}, nil
}

// BaseURL returns the https base URL all requests are issued against.
func (c *Client) BaseURL() string {
	return "https://" + c.apiDomain
}

// Close releases idle connections held by the underlying HTTP client.
// The client must not be used after Close.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}
