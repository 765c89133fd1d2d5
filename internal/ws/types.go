package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeChat       MessageType = "chat"
	MessageTypeResign     MessageType = "resign"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChatPayload is relayed unchanged to every connection in a game.
type ChatPayload struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
