package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/events"
)

// AuditService writes every domain event to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventVetRegistered,
		events.EventSessionStarted,
		events.EventSessionEnded,
		events.EventPasswordChanged,
		events.EventAnamneseSubmitted,
		events.EventClientDeleted,
		events.EventPetDeleted,
	} {
		a.dispatcher.Subscribe(t, a.audit)
	}
}

func (a *AuditService) audit(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("vet_id", event.VetID),
		zap.Any("payload", event.Payload))
	return nil
}
