// Package entities contains domain entities
package entities

import "time"

// Platform identifies the video host a link belongs to
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformInstagram   Platform = "instagram"
	PlatformUnsupported Platform = "unsupported"
)

// Outcome is the single terminal result of handling one link
type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeNotALink        Outcome = "not_a_link"
	OutcomeUnsupported     Outcome = "unsupported"
	OutcomeInvalidLink     Outcome = "invalid_link"
	OutcomeFetchFailed     Outcome = "fetch_failed"
	OutcomeArtifactMissing Outcome = "artifact_missing"
	OutcomeNoVideo         Outcome = "no_video"
	OutcomeOversize        Outcome = "oversize"
	OutcomeSendFailed      Outcome = "send_failed"
	OutcomeRateLimited     Outcome = "rate_limited"
	OutcomeInternalError   Outcome = "internal_error"
)

// DownloadRequest is created per inbound link and discarded after the reply
type DownloadRequest struct {
	ID        string
	SourceURL string
	Platform  Platform
	ChatID    int64
}

// LocalArtifact is a downloaded video owned by exactly one request
type LocalArtifact struct {
	Path string
	Size int64
}

// DownloadEvent describes a finished request for external consumers
type DownloadEvent struct {
	RequestID  string    `json:"request_id"`
	ChatID     int64     `json:"chat_id"`
	Platform   Platform  `json:"platform"`
	Outcome    Outcome   `json:"outcome"`
	SizeBytes  int64     `json:"size_bytes"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}
