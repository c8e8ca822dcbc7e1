package realtime

import "sync"

// Subscriber is one registered listener on the hub.
//
// Send is never closed by the hub so broadcasters can't panic on a racing
// unsubscribe; done signals shutdown instead and Close is idempotent.
type Subscriber struct {
	UserUID string
	// ConversationID filters delivery to one conversation; 0 means every
	// conversation the user participates in.
	ConversationID uint64
	Send           chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func newSubscriber(userUID string, conversationID uint64, queueSize int) *Subscriber {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Subscriber{
		UserUID:        userUID,
		ConversationID: conversationID,
		Send:           make(chan Event, queueSize),
		done:           make(chan struct{}),
	}
}

// Done is closed when the subscriber is shutting down.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
