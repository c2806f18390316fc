package pubsub_test

import (
	"sync"
	"testing"

	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/internal/infrastructure/pubsub"
	"github.com/stretchr/testify/require"
)

const (
	topicOpening = "wallet-opening"
	topicInit    = "wallet-init"
)

func TestPubSubService(t *testing.T) {
	t.Run("SubscribeAndPublish", testSubscribeAndPublish())
	t.Run("AnyTopic", testAnyTopic())
	t.Run("Unsubscribe", testUnsubscribe())
	t.Run("SlowSubscriber", testSlowSubscriber())
	t.Run("ConcurrentPublish", testConcurrentPublish())
	t.Run("Close", testClose())
}

func testSubscribeAndPublish() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(0)

		_, err := svc.Subscribe("")
		require.Error(t, err)

		sub, err := svc.Subscribe(topicOpening)
		require.NoError(t, err)
		require.NotEmpty(t, sub.Id())
		require.Equal(t, topicOpening, sub.Topic())

		err = svc.Publish(topicOpening, "Generating")
		require.NoError(t, err)
		err = svc.Publish(topicInit, "ignored")
		require.NoError(t, err)

		event := <-sub.Events()
		require.Equal(t, topicOpening, event.Topic)
		require.Equal(t, "Generating", event.Payload)
		require.Len(t, sub.Events(), 0)

		err = svc.Publish(ports.AnyTopic, "invalid")
		require.Error(t, err)
	}
}

func testAnyTopic() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(0)

		sub, err := svc.Subscribe(ports.AnyTopic)
		require.NoError(t, err)
		_, err = svc.Subscribe(topicInit)
		require.NoError(t, err)

		require.Len(t, svc.ListSubscriptionsForTopic(topicOpening), 1)
		require.Len(t, svc.ListSubscriptionsForTopic(topicInit), 2)
		require.Len(t, svc.ListSubscriptionsForTopic(ports.AnyTopic), 1)

		require.NoError(t, svc.Publish(topicOpening, 1))
		require.NoError(t, svc.Publish(topicInit, 2))

		require.Equal(t, 1, (<-sub.Events()).Payload)
		require.Equal(t, 2, (<-sub.Events()).Payload)
	}
}

func testUnsubscribe() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(0)

		sub, err := svc.Subscribe(topicOpening)
		require.NoError(t, err)

		err = svc.Unsubscribe(topicInit, sub.Id())
		require.Error(t, err)

		err = svc.Unsubscribe(topicOpening, sub.Id())
		require.NoError(t, err)
		require.Empty(t, svc.ListSubscriptionsForTopic(topicOpening))

		_, ok := <-sub.Events()
		require.False(t, ok)

		err = svc.Unsubscribe(topicOpening, sub.Id())
		require.Error(t, err)

		require.NoError(t, svc.Publish(topicOpening, "nobody listens"))
	}
}

func testSlowSubscriber() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(2)

		sub, err := svc.Subscribe(topicOpening)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, svc.Publish(topicOpening, i))
		}

		require.Len(t, sub.Events(), 2)
		require.Equal(t, 0, (<-sub.Events()).Payload)
		require.Equal(t, 1, (<-sub.Events()).Payload)
	}
}

func testConcurrentPublish() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(100)

		sub, err := svc.Subscribe(topicOpening)
		require.NoError(t, err)

		wg := &sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				svc.Publish(topicOpening, i)
			}(i)
		}
		wg.Wait()

		require.Len(t, sub.Events(), 10)
	}
}

func testClose() func(*testing.T) {
	return func(t *testing.T) {
		svc := pubsub.NewService(0)

		sub1, err := svc.Subscribe(topicOpening)
		require.NoError(t, err)
		sub2, err := svc.Subscribe(ports.AnyTopic)
		require.NoError(t, err)

		svc.Close()

		_, ok := <-sub1.Events()
		require.False(t, ok)
		_, ok = <-sub2.Events()
		require.False(t, ok)
		require.Empty(t, svc.ListSubscriptionsForTopic(topicOpening))
	}
}
