package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var scenarioSeq atomic.Int64

// TestContext carries one scenario's HTTP state against a running server.
type TestContext struct {
	baseURL string
	client  *http.Client
	token   string
	scope   string

	lastStatus int
	lastBody   []byte
}

// Record is one entry of GET /users/{id}/records. Fields stay raw so they
// can be sent back to /proofs/verify byte for byte.
type Record struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Kind      string          `json:"kind"`
	Fields    json.RawMessage `json:"fields"`
	ProofHash string          `json:"proof_hash"`
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state and picks a fresh scope so user IDs and
// hashes from earlier runs against the same ledger never collide.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.scope = strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatInt(scenarioSeq.Add(1), 10)
}

// Scoped qualifies a name from a feature file with the scenario scope.
func (tc *TestContext) Scoped(name string) string {
	return name + "-" + tc.scope
}

func (tc *TestContext) SetAccessToken(token string) { tc.token = token }

func (tc *TestContext) POST(path string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(raw))
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) do(method, path string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) StatusCode() int { return tc.lastStatus }

func (tc *TestContext) ResponseBody() []byte { return tc.lastBody }

// GetResponseField returns a top-level field of the last JSON response.
// Present-but-null fields come back as (nil, nil).
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w (%s)", err, tc.lastBody)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) ResponseContains(field string) bool {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return false
	}
	_, ok := body[field]
	return ok
}

// LoadRecords decodes the last response as a records listing.
func (tc *TestContext) LoadRecords() ([]Record, error) {
	var body struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return body.Records, nil
}
