package opsbeacon

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SendsAuthAndUserAgent(t *testing.T) {
	var gotAuth, gotUA, gotContentType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))

	_, err := c.do(context.Background(), http.MethodGet, "/workspace/v2/commands", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "OpsBeacon-Go-SDK/"+Version, gotUA)
	assert.Equal(t, "application/json", gotContentType)
}

func TestDo_ClassifiesErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", 401, "", func(t *testing.T, err error) {
			var e *AuthenticationError
			assert.ErrorAs(t, err, &e)
		}},
		{"forbidden", 403, "", func(t *testing.T, err error) {
			var e *AuthenticationError
			assert.ErrorAs(t, err, &e)
		}},
		{"not found", 404, "", func(t *testing.T, err error) {
			var e *APIError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 404, e.StatusCode)
		}},
		{"rate limited", 429, "", func(t *testing.T, err error) {
			var e *RateLimitError
			assert.ErrorAs(t, err, &e)
		}},
		{"server error", 500, `{"err":"exploded"}`, func(t *testing.T, err error) {
			var e *APIError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 500, e.StatusCode)
			assert.Contains(t, e.Message, "exploded")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, statusHandler(tt.status, tt.body))
			_, err := c.do(context.Background(), http.MethodGet, "/x", nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDo_ConnectionRefused(t *testing.T) {
	c, err := New(Config{
		APIDomain: "localhost:1", // nothing listens here
		APIToken:  "tok",
		HTTPClient: &http.Client{
			Transport: rewriteRT{host: "localhost:1"},
		},
	})
	require.NoError(t, err)

	_, err = c.do(context.Background(), http.MethodGet, "/x", nil)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestDo_Timeout(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.do(ctx, http.MethodGet, "/x", nil)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestDoJSON_DecodesBody(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{"commands":[{"name":"deploy"}]}`))

	var out struct {
		Commands []Command `json:"commands"`
	}
	err := c.doJSON(context.Background(), http.MethodGet, "/workspace/v2/commands", nil, &out)
	require.NoError(t, err)
	require.Len(t, out.Commands, 1)
	assert.Equal(t, "deploy", out.Commands[0].Name)
}

func TestDoJSON_MalformedBody(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{not json`))

	var out map[string]any
	err := c.doJSON(context.Background(), http.MethodGet, "/x", nil, &out)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "decode response")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}
