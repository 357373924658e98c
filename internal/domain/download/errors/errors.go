// Package errors contains domain-specific errors for the download domain
package errors

import (
	"fmt"

	pkgerrors "github.com/Conte777/SaveVideoBot/pkg/errors"
)

// Domain errors for download operations
var (
	ErrNotALink             = pkgerrors.NewValidationError("message is not an http(s) link")
	ErrUnsupportedPlatform  = pkgerrors.NewValidationError("platform is not supported")
	ErrInvalidInstagramLink = pkgerrors.NewValidationError("no shortcode found in instagram link")
	ErrYouTubeFetch         = pkgerrors.NewUpstreamError("youtube download failed")
	ErrInstagramFetch       = pkgerrors.NewUpstreamError("instagram download failed")
	ErrYtDlpUnavailable     = pkgerrors.NewInternalError("yt-dlp executable is not available")
	ErrArtifactMissing      = pkgerrors.NewInternalError("downloaded file is missing")
	ErrDeliveryFailed       = pkgerrors.NewInternalError("video delivery failed")
)

// TooLargeError is returned when a stream outgrows the size limit while downloading
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit %d", e.Size, e.Limit)
}
