package muxvideo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	streamBaseURL = "https://stream.mux.com"
	imageBaseURL  = "https://image.mux.com"
)

// FitMode controls how thumbnails are resized when both dimensions are given.
type FitMode string

const (
	FitModePreserve FitMode = "preserve"
	FitModeCrop     FitMode = "crop"
	FitModePad      FitMode = "pad"
)

// Valid reports whether the fit mode is one Mux accepts.
func (m FitMode) Valid() bool {
	switch m {
	case FitModePreserve, FitModeCrop, FitModePad:
		return true
	}
	return false
}

// ThumbnailOptions are the optional query parameters of the thumbnail service.
// Zero values are omitted from the URL.
type ThumbnailOptions struct {
	Width   int
	Height  int
	FitMode FitMode
	// Time selects the frame, in seconds from the start of the asset.
	Time float64
}

// StreamURL derives the HLS manifest URL for a playback id.
func StreamURL(playbackID string) string {
	return fmt.Sprintf("%s/%s.m3u8", streamBaseURL, playbackID)
}

// ThumbnailURL derives the thumbnail URL for a playback id. Parameters are
// appended in a fixed order: width, height, fit_mode, time.
func ThumbnailURL(playbackID string, opts ThumbnailOptions) string {
	base := fmt.Sprintf("%s/%s/thumbnail.jpg", imageBaseURL, playbackID)

	params := make([]string, 0, 4)
	if opts.Width > 0 {
		params = append(params, "width="+strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		params = append(params, "height="+strconv.Itoa(opts.Height))
	}
	if opts.FitMode != "" {
		params = append(params, "fit_mode="+url.QueryEscape(string(opts.FitMode)))
	}
	if opts.Time > 0 {
		params = append(params, "time="+strconv.FormatFloat(opts.Time, 'f', -1, 64))
	}

	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}
