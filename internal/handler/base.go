// Package handler defines HTTP request handlers and related utilities.
package handler

import (
	"log/slog"
	"time"

	"github.com/nulln0ne/dex-engine/internal/metrics"
)

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// observe records the outcome and duration of one computation.
func (h *BaseHandler) observe(op string, start time.Time, err error) {
	h.metrics.Record(op, err)
	h.metrics.Observe(op, start)
}
