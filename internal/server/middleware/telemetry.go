package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/telemetry"
)

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// Telemetry returns middleware that emits a telemetry event after each request.
// Best-effort: emit failures are logged and do not fail the request. If emitter
// is nil, the middleware no-ops. skipPaths is the set of paths to not emit
// (e.g. the health endpoint).
func Telemetry(emitter telemetry.EventEmitter, skipPaths map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		if emitter == nil || skipPaths[path] {
			return
		}
		meta := httpRequestMetadata{
			Method:     c.Request.Method,
			Path:       path,
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			ClientIP:   c.ClientIP(),
		}
		metaJSON, _ := json.Marshal(meta)
		userID, _ := GetUserID(c.Request.Context())
		event := &telemetry.Event{
			UserID:    userID,
			EventType: "http_request",
			Source:    "http_middleware",
			Metadata:  metaJSON,
			CreatedAt: time.Now().UTC(),
		}
		telemetry.EmitAsync(emitter, c.Request.Context(), event)
	}
}
