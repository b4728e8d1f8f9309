package sink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mschat/domain/chat"
)

func TestConnectionSink_BuffersEvents(t *testing.T) {
	req := require.New(t)
	connectionSink := NewConnectionSink(2)

	evt := chat.MessageSent{Room: "r1", At: time.Now()}
	req.NoError(connectionSink.Consume(context.Background(), evt))

	received := <-connectionSink.Events
	req.Equal(evt, received)
}

func TestConnectionSink_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	connectionSink := NewConnectionSink(1)

	first := chat.MessageSent{Room: "r1", At: time.Now()}
	second := chat.MessageSent{Room: "r1", At: time.Now().Add(time.Second)}

	req.NoError(connectionSink.Consume(context.Background(), first))
	// Buffer is full and nobody reads: the event is dropped, not queued
	req.NoError(connectionSink.Consume(context.Background(), second))

	req.Equal(first, <-connectionSink.Events)
	req.Empty(connectionSink.Events)
}
