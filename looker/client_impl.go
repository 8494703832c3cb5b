package looker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIClient is the real Client implementation, talking to a Looker-compatible
// analytics API over HTTP.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient builds an APIClient authenticated per cfg.
func NewAPIClient(ctx context.Context, cfg APIConfig) *APIClient {
	return &APIClient{
		baseURL:    cfg.BaseURL,
		httpClient: NewAuthenticatedClient(ctx, cfg),
	}
}

var _ Client = (*APIClient)(nil)

// doRaw issues the request and returns the raw response body, for endpoints
// that don't return JSON.
func (c *APIClient) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("looker: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	detail, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("looker: %s %s: reading response: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("looker: %s %s: status %d: %s", method, path, resp.StatusCode, detail)
	}
	return detail, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	detail, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(detail, out); err != nil {
		return fmt.Errorf("looker: %s %s: decoding response: %w", method, path, err)
	}
	return nil
}

type createQueryRequest struct {
	Model   string   `json:"model"`
	Explore string   `json:"explore"`
	Fields  []string `json:"fields"`
}

func (c *APIClient) CreateQuery(ctx context.Context, model, explore string, dimensions []string, fields []string) (*CreateQueryResponse, error) {
	req := createQueryRequest{Model: model, Explore: explore, Fields: dimensions}
	path := "/queries?fields=" + joinFields(fields)

	var out CreateQueryResponse
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunQuery returns the plain-text SQL body the API generates for queryID; the
// run/sql endpoint responds with the SQL itself, not a JSON envelope, so this
// bypasses do's JSON decoding.
func (c *APIClient) RunQuery(ctx context.Context, queryID int) (string, error) {
	path := fmt.Sprintf("/queries/%d/run/sql", queryID)
	body, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *APIClient) CreateQueryTask(ctx context.Context, queryID int) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	req := struct {
		QueryID int `json:"query_id"`
	}{QueryID: queryID}
	if err := c.do(ctx, http.MethodPost, "/query_tasks", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *APIClient) GetQueryTaskMultiResults(ctx context.Context, taskIDs []string) (map[string]RawTaskResult, error) {
	path := "/query_tasks/multi_results?query_task_ids=" + joinFields(taskIDs)
	var out map[string]RawTaskResult
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) CancelQueryTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/running_queries/"+taskID, nil, nil)
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
