package muxvideo

import "strings"

// URIScheme is the prefix of playback-id URIs stored on older records.
const URIScheme = "mux://"

// SourceKind distinguishes how a playable source was derived.
type SourceKind string

const (
	SourceKindPlayback  SourceKind = "playback-id"
	SourceKindLegacyURL SourceKind = "legacy-url"
	SourceKindNone      SourceKind = "none"
)

// Source is the resolved playback target handed to the player surface.
type Source struct {
	Kind       SourceKind `json:"kind"`
	PlaybackID string     `json:"playbackId,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// ResolveSource picks the playback target for a record. Precedence: an
// explicit playback id wins, then a mux:// URI, then a legacy direct media
// URL; with nothing usable the caller renders a placeholder.
func ResolveSource(playbackID, videoURL string) Source {
	playbackID = strings.TrimSpace(playbackID)
	videoURL = strings.TrimSpace(videoURL)

	if playbackID != "" {
		return Source{Kind: SourceKindPlayback, PlaybackID: playbackID, URL: StreamURL(playbackID)}
	}

	if strings.HasPrefix(videoURL, URIScheme) {
		id := strings.TrimPrefix(videoURL, URIScheme)
		if id != "" {
			return Source{Kind: SourceKindPlayback, PlaybackID: id, URL: StreamURL(id)}
		}
		return Source{Kind: SourceKindNone}
	}

	if videoURL != "" {
		return Source{Kind: SourceKindLegacyURL, URL: videoURL}
	}

	return Source{Kind: SourceKindNone}
}
