package muxvideo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://api.mux.com"

// RTMPIngestURL is the global ingest endpoint for live streams; Mux does not
// return it in the API response, only the stream key.
const RTMPIngestURL = "rtmps://global-live.mux.com:443/app"

// ErrNotConfigured is returned by NewClient when the access token pair is absent.
var ErrNotConfigured = errors.New("mux access token is not configured")

// Config carries the access token pair and optional overrides for the Mux client.
type Config struct {
	TokenID     string
	TokenSecret string
	// BaseURL overrides the API host, used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin wrapper over the Mux Video REST API. It performs no
// retries or caching of its own; timeouts belong to the injected http.Client.
type Client struct {
	tokenID     string
	tokenSecret string
	baseURL     string
	httpClient  *http.Client
}

// NewClient builds a Mux client. Both token halves are required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.TokenID) == "" || strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, ErrNotConfigured
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		tokenID:     cfg.TokenID,
		tokenSecret: cfg.TokenSecret,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
	}, nil
}

// APIError is the decoded failure response of the Mux API. The HTTP status
// code stays visible in Error() because downstream classification matches on
// the message text.
type APIError struct {
	StatusCode int
	Type       string
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("mux: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("mux: %s (status %d)", strings.Join(e.Messages, "; "), e.StatusCode)
}

// PlaybackID is a stable public identifier issued once an asset is playable.
type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// Asset statuses as reported by Mux. The transitions are driven entirely by
// the vendor; "preparing" is a valid in-progress state, not a failure.
const (
	AssetStatusPreparing = "preparing"
	AssetStatusReady     = "ready"
	AssetStatusErrored   = "errored"
)

// Asset is the vendor's mutable media resource.
type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	Errors      *AssetErrors `json:"errors,omitempty"`
}

// AssetErrors surfaces ingest failures attached to an errored asset.
type AssetErrors struct {
	Type     string   `json:"type,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// FirstPlaybackID returns the first playback id or empty when none exist yet.
func (a Asset) FirstPlaybackID() string {
	if len(a.PlaybackIDs) == 0 {
		return ""
	}
	return a.PlaybackIDs[0].ID
}

// DirectUpload represents a resumable upload slot.
type DirectUpload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id,omitempty"`
	Timeout int64  `json:"timeout,omitempty"`
}

// LiveStream represents a live ingest endpoint.
type LiveStream struct {
	ID          string       `json:"id"`
	StreamKey   string       `json:"stream_key"`
	Status      string       `json:"status"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
}

// FirstPlaybackID returns the first playback id or empty when none exist yet.
func (l LiveStream) FirstPlaybackID() string {
	if len(l.PlaybackIDs) == 0 {
		return ""
	}
	return l.PlaybackIDs[0].ID
}

// CreateUploadParams configures a direct upload slot.
type CreateUploadParams struct {
	CORSOrigin     string
	PlaybackPolicy []string
	MP4Support     string
}

// CreateAssetParams configures ingestion of a remote file.
type CreateAssetParams struct {
	InputURL       string
	PlaybackPolicy []string
}

// CreateLiveStreamParams configures a new live stream.
type CreateLiveStreamParams struct {
	PlaybackPolicy []string
}

// ListAssetsParams pages through the asset collection.
type ListAssetsParams struct {
	Limit int
	Page  int
}

// CreateDirectUpload requests an upload slot and returns its id and URL.
func (c *Client) CreateDirectUpload(ctx context.Context, params CreateUploadParams) (DirectUpload, error) {
	corsOrigin := params.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	policy := params.PlaybackPolicy
	if len(policy) == 0 {
		policy = []string{"public"}
	}

	newAssetSettings := map[string]any{"playback_policy": policy}
	if params.MP4Support != "" {
		newAssetSettings["mp4_support"] = params.MP4Support
	}

	body := map[string]any{
		"cors_origin":        corsOrigin,
		"new_asset_settings": newAssetSettings,
	}

	var upload DirectUpload
	if err := c.do(ctx, http.MethodPost, "/video/v1/uploads", body, &upload); err != nil {
		return DirectUpload{}, err
	}
	return upload, nil
}

// GetUpload retrieves the current state of an upload slot. Once the file has
// landed the response carries the asset id created from it.
func (c *Client) GetUpload(ctx context.Context, uploadID string) (DirectUpload, error) {
	var upload DirectUpload
	if err := c.do(ctx, http.MethodGet, "/video/v1/uploads/"+url.PathEscape(uploadID), nil, &upload); err != nil {
		return DirectUpload{}, err
	}
	return upload, nil
}

// GetAsset retrieves an asset's status, playback ids and duration.
func (c *Client) GetAsset(ctx context.Context, assetID string) (Asset, error) {
	var asset Asset
	if err := c.do(ctx, http.MethodGet, "/video/v1/assets/"+url.PathEscape(assetID), nil, &asset); err != nil {
		return Asset{}, err
	}
	return asset, nil
}

// CreateAsset ingests a remote file by URL.
func (c *Client) CreateAsset(ctx context.Context, params CreateAssetParams) (Asset, error) {
	policy := params.PlaybackPolicy
	if len(policy) == 0 {
		policy = []string{"public"}
	}

	body := map[string]any{
		"input":           []map[string]any{{"url": params.InputURL}},
		"playback_policy": policy,
	}

	var asset Asset
	if err := c.do(ctx, http.MethodPost, "/video/v1/assets", body, &asset); err != nil {
		return Asset{}, err
	}
	return asset, nil
}

// DeleteAsset removes an asset and all its playback ids.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	return c.do(ctx, http.MethodDelete, "/video/v1/assets/"+url.PathEscape(assetID), nil, nil)
}

// CreateLiveStream provisions a live ingest endpoint.
func (c *Client) CreateLiveStream(ctx context.Context, params CreateLiveStreamParams) (LiveStream, error) {
	policy := params.PlaybackPolicy
	if len(policy) == 0 {
		policy = []string{"public"}
	}

	body := map[string]any{
		"playback_policy":    policy,
		"new_asset_settings": map[string]any{"playback_policy": policy},
	}

	var stream LiveStream
	if err := c.do(ctx, http.MethodPost, "/video/v1/live-streams", body, &stream); err != nil {
		return LiveStream{}, err
	}
	return stream, nil
}

// ListAssets returns a page of assets, newest first.
func (c *Client) ListAssets(ctx context.Context, params ListAssetsParams) ([]Asset, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}

	path := "/video/v1/assets"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var assets []Asset
	if err := c.do(ctx, http.MethodGet, path, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode mux request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build mux request: %w", err)
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mux request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read mux response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode mux response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode mux response data: %w", err)
	}
	return nil
}

func decodeAPIError(statusCode int, raw []byte) error {
	var failure struct {
		Error struct {
			Type     string   `json:"type"`
			Messages []string `json:"messages"`
		} `json:"error"`
	}
	_ = json.Unmarshal(raw, &failure)

	return &APIError{
		StatusCode: statusCode,
		Type:       failure.Error.Type,
		Messages:   failure.Error.Messages,
	}
}
