// Package e2e drives a running attesto server over plain HTTP. The suite
// assumes a dev-seeded server (no ATTESTO_PARTIES configured) reachable at
// ATTESTO_SERVER_URL; scenarios that need cryptographically valid proofs
// live in the root module's test package instead.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TestContext carries request state across the steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client

	status int
	body   map[string]any
	token  string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// POST sends a JSON body and records the response for later assertions.
func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

// GET records the response for later assertions.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body = nil
	// Error envelopes and resources are objects; anything else stays nil.
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil {
		tc.body = decoded
	}
	return nil
}

// LastStatus is the status code of the most recent response.
func (tc *TestContext) LastStatus() int {
	return tc.status
}

// ResponseField looks a field up in the most recent JSON response.
func (tc *TestContext) ResponseField(name string) (any, bool) {
	if tc.body == nil {
		return nil, false
	}
	v, ok := tc.body[name]
	return v, ok
}

// SetAccessToken stores the bearer token subsequent steps authenticate with.
func (tc *TestContext) SetAccessToken(token string) {
	tc.token = token
}

// AccessToken returns the stored bearer token.
func (tc *TestContext) AccessToken() string {
	return tc.token
}

// Describe summarizes the last response for failure messages.
func (tc *TestContext) Describe() string {
	return fmt.Sprintf("status=%d body=%v", tc.status, tc.body)
}
