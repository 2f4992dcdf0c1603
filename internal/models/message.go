package models

import "time"

// Message is a single chat entry as stored and exchanged with the message store.
// ID is optional on the wire; the store assigns one when it is missing.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) Sender() string {
	if m.IsBot {
		return "bot"
	}
	return "user"
}
