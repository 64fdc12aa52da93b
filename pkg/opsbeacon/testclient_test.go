package opsbeacon

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// rewriteRT redirects every request to the test server regardless of the
// host the client computed, so the client's https URL building stays intact
// under test.
type rewriteRT struct {
	host string
}

func (rt rewriteRT) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = rt.host
	return http.DefaultTransport.RoundTrip(req)
}

// newTestClient builds a client whose requests land on an httptest server
// running handler.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{
		APIDomain: "api.test.opsbeacon.com",
		APIToken:  "test-token",
		HTTPClient: &http.Client{
			Transport: rewriteRT{host: server.Listener.Addr().String()},
		},
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// jsonHandler responds 200 with the given body for every request.
func jsonHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

// statusHandler responds with a fixed status and body.
func statusHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}
