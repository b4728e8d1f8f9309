package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mschat/sink"
)

func TestRegistry_SubscribeAndResolve(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	aliceSink := sink.NewConnectionSink(1)
	bobSink := sink.NewConnectionSink(1)

	registry.Subscribe("alice", "r1", aliceSink)
	registry.Subscribe("bob", "r1", bobSink)
	registry.Subscribe("clara", "r2", sink.NewConnectionSink(1))

	req.Len(registry.GetSinksForRoom("r1"), 2)
	req.Len(registry.GetSinksForRoom("r2"), 1)
	req.Nil(registry.GetSinksForRoom("ghost-room"))
}

func TestRegistry_UnsubscribeCleansUpEmptyRooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("alice", "r1", sink.NewConnectionSink(1))
	registry.Unsubscribe("alice", "r1")

	req.Nil(registry.GetSinksForRoom("r1"))

	// Unsubscribing an unknown participant is a no-op
	registry.Unsubscribe("ghost", "r1")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			registry.Subscribe(id, "r1", sink.NewConnectionSink(1))
			registry.GetSinksForRoom("r1")
			registry.Unsubscribe(id, "r1")
		}(i)
	}
	wg.Wait()

	req.Nil(registry.GetSinksForRoom("r1"))
}
