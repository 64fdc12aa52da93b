package opsbeacon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
)

// do issues a single authenticated request and returns the raw response
// body. HTTP error statuses are classified into typed errors; transport
// failures surface as ConnectionError or TimeoutError before any response
// exists.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request body: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, reader)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	return c.send(req, encoded)
}

// doMultipart issues a single authenticated multipart/form-data POST. The
// JSON content type is omitted; the multipart writer supplies its own.
func (c *Client) doMultipart(ctx context.Context, path, fileName, mimeType string, content []byte, fields map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := createFormFile(w, "file", fileName, mimeType)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("build form file: %v", err)}
	}
	if _, err := part.Write(content); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("write form file: %v", err)}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("write form field: %v", err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("finalize form: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, &buf)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	return c.send(req, nil)
}

// createFormFile is multipart.Writer.CreateFormFile with a caller-chosen
// content type instead of the hardcoded application/octet-stream.
func createFormFile(w *multipart.Writer, fieldName, fileName, mimeType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fileName))
	h.Set("Content-Type", mimeType)
	return w.CreatePart(h)
}

// send executes an already-built request, classifies failures, and returns
// the response body.
func (c *Client) send(req *http.Request, reqBody []byte) ([]byte, error) {
	c.logRequest(req, reqBody)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(req.URL.String(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read response body: %v", err)}
	}

	c.logResponse(resp.StatusCode, respBody)

	if resp.StatusCode >= 400 {
		return nil, classifyResponse(resp.StatusCode, resp.Header, respBody)
	}
	return respBody, nil
}

// doJSON issues a request via do and decodes the JSON body into out when
// out is non-nil and the body is non-empty.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Message: fmt.Sprintf("decode response: %v", err), Body: string(respBody)}
	}
	return nil
}

// classifyTransportError maps a failed http.Client.Do into the taxonomy:
// timeouts carry the configured timeout, dial/DNS failures become
// connection errors, and anything else is a generic API error.
func (c *Client) classifyTransportError(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: c.timeout}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: c.timeout}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return &ConnectionError{URL: url, Err: err}
	}

	return &APIError{Message: fmt.Sprintf("request failed: %v", err)}
}

// logRequest emits request diagnostics with the bearer token masked. The
// unmasked token must never reach the logger.
func (c *Client) logRequest(req *http.Request, body []byte) {
	if !c.logger.IsDebug() {
		return
	}
	headers := make(map[string]string, len(req.Header))
	for k := range req.Header {
		if k == "Authorization" {
			headers[k] = "***"
			continue
		}
		headers[k] = req.Header.Get(k)
	}
	c.logger.Debug("http request", "method", req.Method, "url", req.URL.String(), "headers", headers)
	if len(body) > 0 {
		c.logger.Debug("http request body", "body", string(body))
	}
}

func (c *Client) logResponse(statusCode int, body []byte) {
	if !c.logger.IsDebug() {
		return
	}
	c.logger.Debug("http response", "status", statusCode, "body", truncate(string(body), 500))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
