// Package sink contains EventSink implementations consuming the domain
// events drained from chat rooms.
package sink

import (
	"context"

	"mschat/domain/chat"
)

// ConnectionSink buffers events for one live connection. The transport
// handler owns the channel and pumps it to the wire.
type ConnectionSink struct {
	Events chan chat.DomainEvent
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{Events: make(chan chat.DomainEvent, bufferSize)}
}

// Consume hands the event to the connection's pump. A full buffer drops the
// event rather than blocking the fanout: a slow reader loses realtime
// updates, never the persisted history.
func (s *ConnectionSink) Consume(ctx context.Context, e chat.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
