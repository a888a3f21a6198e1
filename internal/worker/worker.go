package worker

import (
	"context"

	"github.com/spec-kit/vetclinic-service/internal/service"
)

// Background owns the jobs that run next to the HTTP server.
type Background struct {
	pruner *PruneWorker
}

// Start registers audit handlers and launches the session pruner.
func Start(ctx context.Context, audit *service.AuditService, pruner *PruneWorker) *Background {
	if audit != nil {
		audit.RegisterHandlers()
	}
	pruner.Start(ctx)
	return &Background{pruner: pruner}
}

// Stop waits for every background loop to exit.
func (b *Background) Stop() {
	if b == nil {
		return
	}
	b.pruner.Stop()
}
