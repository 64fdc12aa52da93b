package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// HTTPTransport communicates with an MCP server via Streamable HTTP.
// Each JSON-RPC request is sent as an HTTP POST; the response may be
// immediate JSON or an SSE stream.
type HTTPTransport struct {
	url       string
	headers   map[string]string
	client    *http.Client
	sessionID string // Mcp-Session-Id from server
	mu        sync.Mutex
}

// NewHTTPTransport creates an HTTP transport for the given URL with optional custom headers.
func NewHTTPTransport(url string, headers map[string]string) *HTTPTransport {
	return &HTTPTransport{
		url:     url,
		headers: headers,
		client:  &http.Client{},
	}
}

// NewBearerTransport creates an HTTP transport authenticated with a bearer token.
func NewBearerTransport(url, token string) *HTTPTransport {
	return NewHTTPTransport(url, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// SetClient replaces the underlying HTTP client. Useful for custom timeouts.
func (t *HTTPTransport) SetClient(c *http.Client) {
	if c != nil {
		t.client = c
	}
}

// setHeaders applies the custom headers and the tracked session ID to req.
func (t *HTTPTransport) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	t.mu.Lock()
	if t.sessionID != "" {
		req.Header.Set("Mcp-Session-Id", t.sessionID)
	}
	t.mu.Unlock()
}

// Send sends a JSON-RPC request via HTTP POST and returns the response.
// The response may come as immediate JSON or via an SSE stream.
func (t *HTTPTransport) Send(ctx context.Context, req JSONRPCRequest) (JSONRPCResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return JSONRPCResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return JSONRPCResponse{}, fmt.Errorf("create request: %w", err)
	}
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return JSONRPCResponse{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	// Track session ID
	if sid := resp.Header.Get("Mcp-Session-Id"); sid != "" {
		t.mu.Lock()
		t.sessionID = sid
		t.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return JSONRPCResponse{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(bodyBytes))
	}

	ct := resp.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "text/event-stream") {
		return t.parseSSEResponse(ctx, resp.Body, req.ID)
	}

	// Default: JSON response
	var rpcResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return JSONRPCResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return rpcResp, nil
}

// parseSSEResponse reads an SSE stream and extracts the JSON-RPC response matching the request ID.
func (t *HTTPTransport) parseSSEResponse(ctx context.Context, body io.Reader, reqID int) (JSONRPCResponse, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return JSONRPCResponse{}, ctx.Err()
		default:
		}

		line := scanner.Text()

		// Skip SSE comments and empty lines
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		var resp JSONRPCResponse
		if err := json.Unmarshal([]byte(data), &resp); err != nil {
			continue // skip unparseable
		}

		if resp.ID == reqID {
			return resp, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return JSONRPCResponse{}, fmt.Errorf("sse stream: %w", err)
	}

	return JSONRPCResponse{}, fmt.Errorf("sse stream ended without matching response")
}

// Close is a no-op for HTTP transport (stateless per-request).
func (t *HTTPTransport) Close() error {
	return nil
}
