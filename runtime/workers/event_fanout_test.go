package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mschat/contract"
	"mschat/domain/chat"
	"mschat/mocks"
)

func messageSent(room string) chat.MessageSent {
	return chat.MessageSent{Room: room, At: time.Now()}
}

func TestEventFanout_DeliversToPermanentAndRoomSinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	roomSink := mocks.NewMockEventSink(ctrl)

	events := make(chan chat.DomainEvent)
	fanout := NewEventFanout(log, events, mockRegistry, time.Second).Add(permanentSink)

	evt := messageSent("r1")

	// Given one live connection in the event's room
	mockRegistry.EXPECT().GetSinksForRoom("r1").Return([]contract.EventSink{roomSink})
	// Then both the permanent sink and the room sink consume it
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil)
	roomSink.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	fanout.Fanout(context.Background(), evt)
	req.True(ctrl.Satisfied())
}

func TestEventFanout_SinkErrorDoesNotStopDelivery(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	failing := mocks.NewMockEventSink(ctrl)
	healthy := mocks.NewMockEventSink(ctrl)

	events := make(chan chat.DomainEvent)
	fanout := NewEventFanout(log, events, mockRegistry, time.Second).Add(failing, healthy)

	evt := messageSent("r1")
	mockRegistry.EXPECT().GetSinksForRoom("r1").Return(nil)
	failing.EXPECT().Consume(gomock.Any(), evt).Return(fmt.Errorf("connection gone"))
	// The failure is logged, the next sink still gets the event
	healthy.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	fanout.Fanout(context.Background(), evt)
	req.True(ctrl.Satisfied())
}

func TestEventFanout_SlowSinkIsCutOffByTimeout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slowSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	events := make(chan chat.DomainEvent)
	fanout := NewEventFanout(log, events, mockRegistry, sinkTimeout).Add(slowSink)

	evt := messageSent("r1")
	mockRegistry.EXPECT().GetSinksForRoom("r1").Return(nil)
	slowSink.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(
		func(ctx context.Context, _ chat.DomainEvent) error {
			<-ctx.Done()     // Waiting for timeout to trigger cancellation
			return ctx.Err() // Sending back "context deadline exceeded"
		})

	start := time.Now()
	fanout.Fanout(context.Background(), evt)
	require.Less(t, time.Since(start), time.Second, "fanout must not hang on a slow sink")
}

func TestEventFanout_RunDrainsChannelUntilContextDone(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	events := make(chan chat.DomainEvent, 2)
	fanout := NewEventFanout(log, events, mockRegistry, time.Second).Add(permanentSink)

	consumed := make(chan struct{}, 2)
	mockRegistry.EXPECT().GetSinksForRoom(gomock.Any()).Return(nil).Times(2)
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, chat.DomainEvent) error {
			consumed <- struct{}{}
			return nil
		}).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- fanout.Run(ctx) }()

	events <- messageSent("r1")
	events <- messageSent("r2")

	for i := 0; i < 2; i++ {
		select {
		case <-consumed:
		case <-time.After(time.Second):
			req.Fail("event was not consumed in time")
		}
	}

	cancel()
	select {
	case err := <-finished:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Run did not stop after context cancellation")
	}
}
