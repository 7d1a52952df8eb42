package schemasync

import (
	"context"

	"schema-sync/core/reconcile"

	"go.uber.org/zap"
)

// Service exposes the reconciliation engine to the HTTP surface.
type Service struct {
	engine *reconcile.Service
	logger *zap.Logger
}

// NewService wraps a reconciliation service for HTTP use.
func NewService(engine *reconcile.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, logger: logger}
}

// Status reports the current drift state.
func (s *Service) Status(ctx context.Context) (*reconcile.Status, error) {
	return s.engine.Status(ctx)
}

// Differences runs the comparator only.
func (s *Service) Differences(ctx context.Context) ([]reconcile.Difference, error) {
	return s.engine.Validate(ctx)
}

// Sync runs a reconciliation pass with the given options.
func (s *Service) Sync(ctx context.Context, opts reconcile.Options) (*reconcile.SyncResult, error) {
	return s.engine.Sync(ctx, opts)
}
