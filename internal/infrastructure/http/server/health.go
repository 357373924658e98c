package server

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/SaveVideoBot/config"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// Component names reported by the health check
const (
	ComponentDownloadsDir = "downloads_dir"
	ComponentYtDlp        = "yt-dlp"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler reports whether the bot can store and fetch videos
type HealthHandler struct {
	downloadsDir string
	ytdlpPath    string
	lookPath     func(file string) (string, error)
	logger       zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(cfg *config.DownloadConfig, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		downloadsDir: cfg.Dir,
		ytdlpPath:    cfg.YtDlpPath,
		lookPath:     exec.LookPath,
		logger:       logger,
	}
}

// Handle serves GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components := []ComponentHealth{
		h.checkDownloadsDir(),
		h.checkYtDlp(),
	}
	status := overallStatus(components)

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status != HealthStatusHealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Interface("components", components).
		Msg("Health check completed")

	body, err := json.Marshal(HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}

// checkDownloadsDir verifies the scratch root exists and accepts new files
func (h *HealthHandler) checkDownloadsDir() ComponentHealth {
	c := ComponentHealth{Name: ComponentDownloadsDir}

	info, err := os.Stat(h.downloadsDir)
	if err != nil {
		c.Message = err.Error()
		return c
	}
	if !info.IsDir() {
		c.Message = fmt.Sprintf("%s is not a directory", h.downloadsDir)
		return c
	}

	scratchFile, err := os.CreateTemp(h.downloadsDir, ".health-*")
	if err != nil {
		c.Message = fmt.Sprintf("not writable: %v", err)
		return c
	}
	_ = scratchFile.Close()
	_ = os.Remove(scratchFile.Name())

	c.Healthy = true
	return c
}

func (h *HealthHandler) checkYtDlp() ComponentHealth {
	c := ComponentHealth{Name: ComponentYtDlp}

	path, err := h.lookPath(h.ytdlpPath)
	if err != nil {
		c.Message = "instagram downloads unavailable: " + err.Error()
		return c
	}

	c.Healthy = true
	c.Message = path
	return c
}

// overallStatus is unhealthy without scratch space and degraded without yt-dlp
func overallStatus(components []ComponentHealth) HealthStatus {
	status := HealthStatusHealthy
	for _, c := range components {
		if c.Healthy {
			continue
		}
		if c.Name == ComponentDownloadsDir {
			return HealthStatusUnhealthy
		}
		status = HealthStatusDegraded
	}
	return status
}
