package pubsub

import (
	"fmt"
	"sort"
	"sync"
)

// store indexes the subscriptions by topic. Every method is safe for
// concurrent use; publishers hold the read lock while notifying so that a
// subscription is never closed during a send.
type store struct {
	lock         *sync.RWMutex
	subsByTopic  map[string]subscriptions
	topicBySubID map[string]string
}

func newStore() *store {
	return &store{
		lock:         &sync.RWMutex{},
		subsByTopic:  make(map[string]subscriptions),
		topicBySubID: make(map[string]string),
	}
}

func (s *store) add(sub *Subscription) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.subsByTopic[sub.Event] = append(s.subsByTopic[sub.Event], sub)
	s.topicBySubID[sub.ID] = sub.Event
}

func (s *store) remove(topic, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if t, ok := s.topicBySubID[id]; !ok || (len(topic) > 0 && t != topic) {
		return fmt.Errorf("subscription not found")
	}
	topic = s.topicBySubID[id]

	subs := s.subsByTopic[topic]
	for i, sub := range subs {
		if sub.ID == id {
			sub.close()
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) <= 0 {
		delete(s.subsByTopic, topic)
	} else {
		s.subsByTopic[topic] = subs
	}
	delete(s.topicBySubID, id)
	return nil
}

func (s *store) list(topics ...string) subscriptions {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.listUnlocked(topics...)
}

func (s *store) listUnlocked(topics ...string) subscriptions {
	subs := make(subscriptions, 0)
	for _, topic := range topics {
		subs = append(subs, s.subsByTopic[topic]...)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

// forEach runs fn for every subscription of the given topics while holding
// the read lock.
func (s *store) forEach(fn func(*Subscription), topics ...string) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, sub := range s.listUnlocked(topics...) {
		fn(sub)
	}
}

func (s *store) clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, subs := range s.subsByTopic {
		for _, sub := range subs {
			sub.close()
		}
	}
	s.subsByTopic = make(map[string]subscriptions)
	s.topicBySubID = make(map[string]string)
}
