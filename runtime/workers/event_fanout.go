package workers

import (
	"context"
	"log/slog"
	"time"

	"mschat/contract"
	"mschat/domain/chat"
)

// EventFanout drains the domain event channel and delivers each event to the
// permanent sinks plus the live connections of the event's room.
//
// Delivery is best effort with no ordering, durability or retry guarantees:
// EventFanout is not a message broker. A slow sink only gets sinkTimeout of
// our time.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan chat.DomainEvent
	registry    contract.IRegistry
	sinkTimeout time.Duration
	permanent   []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events <-chan chat.DomainEvent,
	registry contract.IRegistry, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, registry: registry, sinkTimeout: sinkTimeout}
}

// Add attaches sinks that receive every event regardless of room.
func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.permanent = append(w.permanent, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to every concerned sink.
func (w *EventFanout) Fanout(ctx context.Context, evt chat.DomainEvent) {
	sinks := append(append([]contract.EventSink(nil), w.permanent...),
		w.registry.GetSinksForRoom(evt.RoomID())...)

	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink rejected event",
				"room_id", evt.RoomID(),
				"error", err)
		}
		cancel()
	}
}
