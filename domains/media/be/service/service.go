package service

import (
	"context"
	"strings"

	"github.com/courseloop/classroom-media/platform/go/muxvideo"
	"github.com/courseloop/classroom-media/platform/go/respond"
)

// MuxAPI is the subset of the vendor media API this domain proxies.
type MuxAPI interface {
	CreateDirectUpload(ctx context.Context, params muxvideo.CreateUploadParams) (muxvideo.DirectUpload, error)
	GetUpload(ctx context.Context, uploadID string) (muxvideo.DirectUpload, error)
	GetAsset(ctx context.Context, assetID string) (muxvideo.Asset, error)
	CreateAsset(ctx context.Context, params muxvideo.CreateAssetParams) (muxvideo.Asset, error)
	CreateLiveStream(ctx context.Context, params muxvideo.CreateLiveStreamParams) (muxvideo.LiveStream, error)
	ListAssets(ctx context.Context, params muxvideo.ListAssetsParams) ([]muxvideo.Asset, error)
}

// Upload is the API view of a direct upload slot.
type Upload struct {
	ID      string `json:"uploadId"`
	URL     string `json:"uploadUrl,omitempty"`
	Status  string `json:"status"`
	AssetID string `json:"assetId,omitempty"`
}

// AssetStatus is the API view of an asset. Status moves through
// preparing -> ready | errored, driven entirely by the vendor; "preparing"
// is a valid in-progress answer, not a failure. Playback id and derived
// URLs appear once the asset is ready.
type AssetStatus struct {
	ID           string   `json:"assetId"`
	Status       string   `json:"status"`
	Ready        bool     `json:"ready"`
	PlaybackID   string   `json:"playbackId,omitempty"`
	Duration     float64  `json:"duration,omitempty"`
	StreamURL    string   `json:"streamUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// LiveStreamInfo is the API view of a newly created live stream.
type LiveStreamInfo struct {
	ID         string `json:"liveStreamId"`
	StreamKey  string `json:"streamKey"`
	RTMPURL    string `json:"rtmpUrl"`
	Status     string `json:"status"`
	PlaybackID string `json:"playbackId,omitempty"`
}

// CreateUploadInput configures a direct upload request.
type CreateUploadInput struct {
	CORSOrigin string
}

// ListInput pages through assets.
type ListInput struct {
	Limit int
	Page  int
}

// Service defines the media proxy operations.
type Service interface {
	CreateUpload(ctx context.Context, input CreateUploadInput) (Upload, error)
	GetUpload(ctx context.Context, uploadID string) (Upload, error)
	GetAsset(ctx context.Context, assetID string) (AssetStatus, error)
	CreateAssetFromURL(ctx context.Context, inputURL string) (AssetStatus, error)
	CreateLiveStream(ctx context.Context) (LiveStreamInfo, error)
	ListAssets(ctx context.Context, input ListInput) ([]AssetStatus, error)
}

type service struct {
	mux MuxAPI
}

// New constructs a media Service. A nil MuxAPI means the vendor credentials
// are absent; every operation then fails with a configuration error.
func New(mux MuxAPI) Service {
	return &service{mux: mux}
}

func (s *service) vendor() (MuxAPI, error) {
	if s.mux == nil {
		return nil, muxvideo.ErrNotConfigured
	}
	return s.mux, nil
}

func (s *service) CreateUpload(ctx context.Context, input CreateUploadInput) (Upload, error) {
	mux, err := s.vendor()
	if err != nil {
		return Upload{}, err
	}

	upload, err := mux.CreateDirectUpload(ctx, muxvideo.CreateUploadParams{
		CORSOrigin: input.CORSOrigin,
	})
	if err != nil {
		return Upload{}, err
	}

	return toUpload(upload), nil
}

func (s *service) GetUpload(ctx context.Context, uploadID string) (Upload, error) {
	mux, err := s.vendor()
	if err != nil {
		return Upload{}, err
	}
	if strings.TrimSpace(uploadID) == "" {
		return Upload{}, &respond.InvalidInputError{Message: "uploadId is required"}
	}

	upload, err := mux.GetUpload(ctx, uploadID)
	if err != nil {
		return Upload{}, err
	}

	return toUpload(upload), nil
}

func (s *service) GetAsset(ctx context.Context, assetID string) (AssetStatus, error) {
	mux, err := s.vendor()
	if err != nil {
		return AssetStatus{}, err
	}
	if strings.TrimSpace(assetID) == "" {
		return AssetStatus{}, &respond.InvalidInputError{Message: "assetId is required"}
	}

	asset, err := mux.GetAsset(ctx, assetID)
	if err != nil {
		return AssetStatus{}, err
	}

	return toAssetStatus(asset), nil
}

func (s *service) CreateAssetFromURL(ctx context.Context, inputURL string) (AssetStatus, error) {
	mux, err := s.vendor()
	if err != nil {
		return AssetStatus{}, err
	}
	if strings.TrimSpace(inputURL) == "" {
		return AssetStatus{}, &respond.InvalidInputError{Message: "url is required"}
	}

	asset, err := mux.CreateAsset(ctx, muxvideo.CreateAssetParams{InputURL: inputURL})
	if err != nil {
		return AssetStatus{}, err
	}

	return toAssetStatus(asset), nil
}

func (s *service) CreateLiveStream(ctx context.Context) (LiveStreamInfo, error) {
	mux, err := s.vendor()
	if err != nil {
		return LiveStreamInfo{}, err
	}

	stream, err := mux.CreateLiveStream(ctx, muxvideo.CreateLiveStreamParams{})
	if err != nil {
		return LiveStreamInfo{}, err
	}

	return LiveStreamInfo{
		ID:         stream.ID,
		StreamKey:  stream.StreamKey,
		RTMPURL:    muxvideo.RTMPIngestURL,
		Status:     stream.Status,
		PlaybackID: stream.FirstPlaybackID(),
	}, nil
}

func (s *service) ListAssets(ctx context.Context, input ListInput) ([]AssetStatus, error) {
	mux, err := s.vendor()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 25
	}

	assets, err := mux.ListAssets(ctx, muxvideo.ListAssetsParams{Limit: limit, Page: input.Page})
	if err != nil {
		return nil, err
	}

	statuses := make([]AssetStatus, 0, len(assets))
	for _, asset := range assets {
		statuses = append(statuses, toAssetStatus(asset))
	}
	return statuses, nil
}

func toUpload(upload muxvideo.DirectUpload) Upload {
	return Upload{
		ID:      upload.ID,
		URL:     upload.URL,
		Status:  upload.Status,
		AssetID: upload.AssetID,
	}
}

func toAssetStatus(asset muxvideo.Asset) AssetStatus {
	status := AssetStatus{
		ID:       asset.ID,
		Status:   asset.Status,
		Ready:    asset.Status == muxvideo.AssetStatusReady,
		Duration: asset.Duration,
	}

	if playbackID := asset.FirstPlaybackID(); playbackID != "" {
		status.PlaybackID = playbackID
		status.StreamURL = muxvideo.StreamURL(playbackID)
		status.ThumbnailURL = muxvideo.ThumbnailURL(playbackID, muxvideo.ThumbnailOptions{})
	}

	if asset.Errors != nil {
		status.Errors = asset.Errors.Messages
	}

	return status
}
