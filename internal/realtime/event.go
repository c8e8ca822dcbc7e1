package realtime

import "github.com/pazarmk/pazar-backend/internal/model"

// Event is the wire envelope pushed to websocket subscribers.
type Event struct {
	Type    string         `json:"type"`
	Message *model.Message `json:"message,omitempty"`
}

const EventNewMessage = "new_message"

func NewMessageEvent(msg *model.Message) Event {
	return Event{Type: EventNewMessage, Message: msg}
}
