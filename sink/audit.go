package sink

import (
	"context"
	"log/slog"

	"mschat/domain/chat"
)

// AuditSink writes a structured trace of every domain event. Moderation
// actions are logged at Info so they show up in default deployments.
type AuditSink struct {
	log *slog.Logger
}

func NewAuditSink(log *slog.Logger) AuditSink {
	return AuditSink{log: log}
}

func (a AuditSink) Consume(_ context.Context, e chat.DomainEvent) error {
	switch evt := e.(type) {
	case chat.MessageSent:
		a.log.Debug("Message sent",
			"room_id", evt.Room,
			"message_id", evt.Message.ID(),
			"user_id", evt.Message.UserID())
	case chat.UserModerated:
		a.log.Info("User moderated",
			"room_id", evt.Room,
			"user_id", evt.UserID,
			"moderator_id", evt.ModeratorID,
			"action", evt.Action,
			"duration", evt.Duration)
	default:
		a.log.Debug("Unhandled event type", "room_id", e.RoomID())
	}
	return nil
}
