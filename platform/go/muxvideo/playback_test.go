package muxvideo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://stream.mux.com/abc123.m3u8", StreamURL("abc123"))
}

func TestThumbnailURLNoOptions(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://image.mux.com/xyz/thumbnail.jpg", ThumbnailURL("xyz", ThumbnailOptions{}))
}

func TestThumbnailURLWidthAndFitMode(t *testing.T) {
	t.Parallel()

	url := ThumbnailURL("xyz", ThumbnailOptions{Width: 200, FitMode: FitModeCrop})
	require.Equal(t, "https://image.mux.com/xyz/thumbnail.jpg?width=200&fit_mode=crop", url)
}

func TestThumbnailURLAllOptions(t *testing.T) {
	t.Parallel()

	url := ThumbnailURL("xyz", ThumbnailOptions{Width: 640, Height: 360, FitMode: FitModePad, Time: 12.5})
	require.Equal(t, "https://image.mux.com/xyz/thumbnail.jpg?width=640&height=360&fit_mode=pad&time=12.5", url)
}

func TestFitModeValid(t *testing.T) {
	t.Parallel()

	require.True(t, FitModePreserve.Valid())
	require.True(t, FitModeCrop.Valid())
	require.True(t, FitModePad.Valid())
	require.False(t, FitMode("stretch").Valid())
}

func TestResolveSourceExplicitPlaybackIDWins(t *testing.T) {
	t.Parallel()

	source := ResolveSource("explicit", "mux://other")
	require.Equal(t, SourceKindPlayback, source.Kind)
	require.Equal(t, "explicit", source.PlaybackID)
	require.Equal(t, "https://stream.mux.com/explicit.m3u8", source.URL)
}

func TestResolveSourceMuxURI(t *testing.T) {
	t.Parallel()

	source := ResolveSource("", "mux://abc123")
	require.Equal(t, SourceKindPlayback, source.Kind)
	require.Equal(t, "abc123", source.PlaybackID)
	require.Equal(t, "https://stream.mux.com/abc123.m3u8", source.URL)
}

func TestResolveSourceLegacyURL(t *testing.T) {
	t.Parallel()

	source := ResolveSource("", "https://cdn.example.com/lesson.mp4")
	require.Equal(t, SourceKindLegacyURL, source.Kind)
	require.Empty(t, source.PlaybackID)
	require.Equal(t, "https://cdn.example.com/lesson.mp4", source.URL)
}

func TestResolveSourceNone(t *testing.T) {
	t.Parallel()

	source := ResolveSource("", "")
	require.Equal(t, SourceKindNone, source.Kind)
}

func TestResolveSourceEmptyMuxURI(t *testing.T) {
	t.Parallel()

	source := ResolveSource("", "mux://")
	require.Equal(t, SourceKindNone, source.Kind)
}
