package realtime

import "sync"

// Hub fans message-insert events out to websocket subscribers.
//
// Delivery is push-only: a subscriber whose queue is full is skipped rather
// than blocking the publisher, and missed events are not replayed. Clients
// that reconnect are expected to refetch the message list.
type Hub struct {
	mu        sync.RWMutex
	subs      map[*Subscriber]struct{}
	queueSize int
}

func NewHub() *Hub {
	return &Hub{
		subs:      make(map[*Subscriber]struct{}),
		queueSize: 64,
	}
}

// Subscribe registers a listener. conversationID 0 subscribes to every
// conversation the user participates in.
func (h *Hub) Subscribe(userUID string, conversationID uint64) *Subscriber {
	sub := newSubscriber(userUID, conversationID, h.queueSize)
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the registration and signals the subscriber to stop.
// Idempotent; events arriving afterwards are not buffered.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}

// Publish delivers ev to every subscriber watching the conversation, plus
// firehose subscribers belonging to either participant. Non-blocking: full
// queues drop the event.
func (h *Hub) Publish(conversationID uint64, buyerUID, sellerUID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.ConversationID != 0 {
			if sub.ConversationID != conversationID {
				continue
			}
		} else if sub.UserUID != buyerUID && sub.UserUID != sellerUID {
			continue
		}

		select {
		case <-sub.Done():
			continue
		default:
		}

		select {
		case sub.Send <- ev:
		default:
			// Drop rather than block the publisher.
		}
	}
}

// SubscriberCount reports current registrations.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
