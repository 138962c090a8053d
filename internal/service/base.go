// Package service feeds the pair and farm engines from chain storage and the
// farm registry on behalf of the HTTP handlers.
package service

import "log/slog"

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger *slog.Logger
}
