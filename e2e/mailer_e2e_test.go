//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const defaultHTTPBase = "http://localhost:8080"

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient() *httpClient {
	base := os.Getenv("MAILER_HTTP_URL")
	if base == "" {
		base = defaultHTTPBase
	}
	return &httpClient{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) getJSON(t *testing.T, path string) (int, map[string]any) {
	t.Helper()

	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, decodeBody(t, resp)
}

func (c *httpClient) postJSON(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON response %q: %v", data, err)
	}
	return parsed
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func TestMain(m *testing.M) {
	base := os.Getenv("MAILER_HTTP_URL")
	if base == "" {
		base = defaultHTTPBase
	}
	if err := waitForHTTP(base, 30*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestHealthEndpoint(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.getJSON(t, "/health")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["status"] != "healthy" {
		t.Fatalf("unexpected health payload: %v", resp)
	}
}

func TestAPIListing(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.getJSON(t, "/api")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if _, ok := resp["endpoints"].([]any); !ok {
		t.Fatalf("expected endpoints listing: %v", resp)
	}
}

func TestSendingStatusIdle(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.getJSON(t, "/sending-status")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["isSending"] != false {
		t.Fatalf("expected idle gate, got %v", resp)
	}
}

func TestStopSendingWithoutSend(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.postJSON(t, "/stop-sending", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp["success"] != false {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestSendValidation(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.postJSON(t, "/send-gmail", map[string]string{
		"user": "sender@gmail.com",
		// password, to, subject, text omitted
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp["success"] != false {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestUnknownRouteFallback(t *testing.T) {
	c := newHTTPClient()

	code, resp := c.getJSON(t, "/no-such-route")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if resp["message"] != "route not found" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}
