package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	EventJoinChat      = "join_chat"
	EventSendMessage   = "send_message"
	EventUpdateMessage = "update_message"
	EventDeleteMessage = "delete_message"

	EventChatHistory    = "chat_history"
	EventReceiveMessage = "receive_message"
	EventMessageDeleted = "message_deleted"
	EventMessageUpdated = "message_updated"
)

var ErrMalformedFrame = errors.New("malformed chat frame")

// Frame is the wire envelope for every event in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinChat struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

type SendMessage struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

type UpdateMessage struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type DeleteMessage struct {
	MessageID string `json:"messageId"`
}

func NewFrame(event string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s: %w", event, err)
	}
	return Frame{Event: event, Data: data}, nil
}

// decodeMessageID accepts a bare id string or an object carrying
// messageId or _id.
func decodeMessageID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: empty message id", ErrMalformedFrame)
		}
		return id, nil
	}
	var obj struct {
		MessageID string `json:"messageId"`
		ID        string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("%w: message id: %v", ErrMalformedFrame, err)
	}
	if obj.MessageID != "" {
		return obj.MessageID, nil
	}
	if obj.ID != "" {
		return obj.ID, nil
	}
	return "", fmt.Errorf("%w: empty message id", ErrMalformedFrame)
}
