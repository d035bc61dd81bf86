package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/observability"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
)

// StartAuditRecorder subscribes the audit writer to the dispatcher. Writes
// are best-effort: a failed insert is logged at error severity and counted,
// never surfaced to the operation that published the event.
func StartAuditRecorder(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger, metrics *observability.Metrics) {
	dispatcher.Subscribe(events.EventAuditAction, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.AuditActionPayload)
		if !ok {
			logger.Error("audit event with unexpected payload type", zap.String("event_id", event.ID))
			return errors.New("unexpected audit payload")
		}

		entry := &domain.AuditLogEntry{
			ID:         event.ID,
			TenantID:   event.TenantID,
			ActorID:    event.Actor.ID,
			ActorType:  event.Actor.Type,
			ActionType: payload.ActionType,
			TargetID:   payload.TargetID,
			Metadata:   payload.Metadata,
			IP:         payload.IP,
			UserAgent:  payload.UserAgent,
		}

		// The parent mutation already committed; a cancelled request must not
		// drop its audit trail.
		if err := repo.Insert(context.WithoutCancel(ctx), entry); err != nil {
			metrics.RecordAuditWrite("error")
			logger.Error("audit write failed",
				zap.String("action_type", string(payload.ActionType)),
				zap.String("actor_id", event.Actor.ID),
				zap.String("target_id", payload.TargetID),
				zap.Error(err),
			)
			return err
		}

		metrics.RecordAuditWrite("ok")
		return nil
	})
}
