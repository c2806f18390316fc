package ports

// AnyTopic subscriptions receive the events of all topics.
const AnyTopic = "*"

// Event is a notification published for a topic.
type Event struct {
	Topic   string
	Payload interface{}
}

// Subscription is a client registered for a topic.
type Subscription interface {
	Topic() string
	Id() string
	// Events is closed when the subscription is removed.
	Events() <-chan Event
}

// PubSub defines the methods of an in-process fire-and-forget pubsub
// service. Publish never blocks on slow subscribers.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic string) (Subscription, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns all clients subscribed for a topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, payload interface{}) error
	// Close removes all subscriptions.
	Close()
}
