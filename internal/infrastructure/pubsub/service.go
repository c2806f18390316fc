package pubsub

import (
	"fmt"

	"github.com/hivewallet/hive-core/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type service struct {
	store      *store
	bufferSize int
}

// NewService returns an in-process pubsub. Subscriptions receive events
// through channels with room for bufferSize events; publishing never blocks
// and events for a full subscription are dropped.
func NewService(bufferSize int) ports.PubSub {
	return &service{newStore(), bufferSize}
}

func (ps *service) Subscribe(topic string) (ports.Subscription, error) {
	sub, err := NewSubscription(topic, ps.bufferSize)
	if err != nil {
		return nil, err
	}
	ps.store.add(sub)
	return sub, nil
}

func (ps *service) Unsubscribe(topic, id string) error {
	return ps.store.remove(topic, id)
}

func (ps *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ps.store.list(ps.topicsFor(topic)...).toPortable()
}

func (ps *service) Publish(topic string, payload interface{}) error {
	if len(topic) <= 0 || topic == ports.AnyTopic {
		return fmt.Errorf("invalid topic %q", topic)
	}

	event := ports.Event{Topic: topic, Payload: payload}
	ps.store.forEach(func(sub *Subscription) {
		if !sub.notify(event) {
			log.Warnf(
				"pubsub: dropped event %s for slow subscription %s", topic, sub.ID,
			)
		}
	}, ps.topicsFor(topic)...)
	return nil
}

func (ps *service) Close() {
	ps.store.clear()
}

func (ps *service) topicsFor(topic string) []string {
	if topic == ports.AnyTopic {
		return []string{topic}
	}
	return []string{topic, ports.AnyTopic}
}
