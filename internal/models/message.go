package models

// Sender identifies which side of a conversation produced a message.
type Sender string

const (
	SenderSelf Sender = "self"
	SenderPeer Sender = "peer"
)

// Kind distinguishes plain text messages from structured assistant replies.
type Kind string

const (
	KindText           Kind = "text"
	KindLocationPrompt Kind = "location_prompt"
	KindItemList       Kind = "item_list"
)

// Status tracks delivery of a self-sent message. It only ever advances:
// sent -> delivered -> read.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// Message represents one entry in a conversation transcript.
type Message struct {
	ID             string     `json:"id"` // ULID, sortable by creation order
	ConversationID string     `json:"conversation_id"`
	Text           string     `json:"text"`
	Sender         Sender     `json:"sender"`
	Kind           Kind       `json:"kind"`
	Status         Status     `json:"status,omitempty"` // self-sent messages only
	Items          []ItemCard `json:"items,omitempty"`  // non-empty iff kind=item_list
	Timestamp      int64      `json:"ts"`               // Unix ms
}
