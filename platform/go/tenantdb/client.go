package tenantdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client speaks the tenant database's REST data API (PostgREST dialect).
// It is request-scoped when built by a Resolver: one operation sequence,
// then discarded. Mutations always request the affected rows back so
// callers can distinguish "changed nothing" from success.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient binds a client to one endpoint and service-role key. No network
// I/O happens until the first operation.
func NewClient(endpointURL, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(endpointURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

// QueryError is the decoded failure response of the data API.
type QueryError struct {
	StatusCode int
	Message    string
	Details    string
	Hint       string
	Code       string
}

func (e *QueryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tenant database error (status %d)", e.StatusCode)
	}
	return e.Message
}

// Filters maps columns to required values (equality semantics).
type Filters map[string]string

// SelectParams shapes a read query.
type SelectParams struct {
	Table string
	// Columns is a comma-separated projection; empty selects everything.
	Columns string
	Filters Filters
	Limit   int
}

// Row is a decoded result row.
type Row map[string]any

// String returns the named column as a string, or empty when absent or of
// another type.
func (r Row) String(column string) string {
	value, _ := r[column].(string)
	return value
}

// Select runs a filtered, projected read against a table.
func (c *Client) Select(ctx context.Context, params SelectParams) ([]Row, error) {
	query := url.Values{}
	columns := params.Columns
	if columns == "" {
		columns = "*"
	}
	query.Set("select", columns)
	for column, value := range params.Filters {
		query.Set(column, "eq."+value)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	return c.do(ctx, http.MethodGet, params.Table, query, nil)
}

// Insert adds rows and returns them as stored.
func (c *Client) Insert(ctx context.Context, table string, rows any) ([]Row, error) {
	return c.do(ctx, http.MethodPost, table, nil, rows)
}

// Update patches every row matching the filters and returns the rows that
// were actually changed; an empty result means nothing matched.
func (c *Client) Update(ctx context.Context, table string, patch map[string]any, filters Filters) ([]Row, error) {
	query := url.Values{}
	for column, value := range filters {
		query.Set(column, "eq."+value)
	}
	return c.do(ctx, http.MethodPatch, table, query, patch)
}

// Delete removes every row matching the filters and returns the rows that
// were removed; an empty result means nothing matched.
func (c *Client) Delete(ctx context.Context, table string, filters Filters) ([]Row, error) {
	query := url.Values{}
	for column, value := range filters {
		query.Set(column, "eq."+value)
	}
	return c.do(ctx, http.MethodDelete, table, query, nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any) ([]Row, error) {
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode tenant db request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build tenant db request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenant db request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tenant db response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeQueryError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var rows []Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		// Single-object responses come back for upserts with representation.
		var row Row
		if objErr := json.Unmarshal(raw, &row); objErr != nil {
			return nil, fmt.Errorf("decode tenant db response: %w", err)
		}
		rows = []Row{row}
	}
	return rows, nil
}

func decodeQueryError(statusCode int, raw []byte) error {
	queryErr := &QueryError{StatusCode: statusCode}

	var failure struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw, &failure); err == nil {
		queryErr.Message = failure.Message
		queryErr.Details = failure.Details
		queryErr.Hint = failure.Hint
		queryErr.Code = failure.Code
	}
	return queryErr
}
