package muxvideo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresTokenPair(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{TokenID: "id"})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Config{TokenSecret: "secret"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateDirectUpload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/video/v1/uploads", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "token-id", user)
		require.Equal(t, "token-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"upload-1","url":"https://storage.mux.com/upload-1","status":"waiting"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		TokenID:     "token-id",
		TokenSecret: "token-secret",
		BaseURL:     server.URL,
		HTTPClient:  server.Client(),
	})
	require.NoError(t, err)

	upload, err := client.CreateDirectUpload(context.Background(), CreateUploadParams{})
	require.NoError(t, err)
	require.Equal(t, "upload-1", upload.ID)
	require.Equal(t, "https://storage.mux.com/upload-1", upload.URL)
	require.Equal(t, "waiting", upload.Status)
}

func TestGetAssetDecodesPlaybackIDs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video/v1/assets/asset-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"asset-1","status":"ready","duration":42.5,"playback_ids":[{"id":"pb-1","policy":"public"}]}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{TokenID: "a", TokenSecret: "b", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	asset, err := client.GetAsset(context.Background(), "asset-1")
	require.NoError(t, err)
	require.Equal(t, AssetStatusReady, asset.Status)
	require.Equal(t, 42.5, asset.Duration)
	require.Equal(t, "pb-1", asset.FirstPlaybackID())
}

func TestAPIErrorKeepsStatusVisible(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"not_found","messages":["No asset found"]}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{TokenID: "a", TokenSecret: "b", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.GetAsset(context.Background(), "missing")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Contains(t, apiErr.Error(), "404")
	require.Contains(t, apiErr.Error(), "No asset found")
}

func TestDeleteAsset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/video/v1/assets/asset-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient(Config{TokenID: "a", TokenSecret: "b", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	require.NoError(t, client.DeleteAsset(context.Background(), "asset-1"))
}

func TestListAssetsPaginates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"asset-1","status":"ready"},{"id":"asset-2","status":"preparing"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{TokenID: "a", TokenSecret: "b", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	assets, err := client.ListAssets(context.Background(), ListAssetsParams{Limit: 5, Page: 2})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	require.Equal(t, AssetStatusPreparing, assets[1].Status)
}

func TestCreateLiveStream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video/v1/live-streams", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"ls-1","stream_key":"sk-1","status":"idle","playback_ids":[{"id":"pb-live","policy":"public"}]}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{TokenID: "a", TokenSecret: "b", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	stream, err := client.CreateLiveStream(context.Background(), CreateLiveStreamParams{})
	require.NoError(t, err)
	require.Equal(t, "ls-1", stream.ID)
	require.Equal(t, "sk-1", stream.StreamKey)
	require.Equal(t, "pb-live", stream.FirstPlaybackID())
}
