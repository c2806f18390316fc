package pubsub

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hivewallet/hive-core/internal/core/ports"
)

// DefaultBufferSize is the number of events a subscription can hold before
// new ones are dropped.
const DefaultBufferSize = 16

type Subscription struct {
	ID    string
	Event string

	chEvents chan ports.Event
}

type subscriptions []*Subscription

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for _, sub := range s {
		subs = append(subs, sub)
	}
	return subs
}

func NewSubscription(event string, bufferSize int) (*Subscription, error) {
	if len(event) <= 0 {
		return nil, fmt.Errorf("missing event")
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	id := uuid.New().String()
	return &Subscription{id, event, make(chan ports.Event, bufferSize)}, nil
}

func (s *Subscription) Topic() string {
	return s.Event
}

func (s *Subscription) Id() string {
	return s.ID
}

func (s *Subscription) Events() <-chan ports.Event {
	return s.chEvents
}

// notify returns false if the event is dropped because the buffer is full.
func (s *Subscription) notify(event ports.Event) bool {
	select {
	case s.chEvents <- event:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() {
	close(s.chEvents)
}
