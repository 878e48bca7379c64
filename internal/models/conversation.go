package models

// ConversationKind distinguishes the assistant thread from peer-to-peer chats.
type ConversationKind string

const (
	ConversationAssistant ConversationKind = "assistant"
	ConversationPeer      ConversationKind = "peer"
)

// Conversation is the summary view of a chat thread. LastMessage and
// LastMessageTime mirror the final transcript entry at all times.
type Conversation struct {
	ID              string           `json:"id"` // UUID
	Kind            ConversationKind `json:"kind"`
	PeerName        string           `json:"peer_name"`
	PeerAvatar      string           `json:"peer_avatar,omitempty"`
	LastMessage     string           `json:"last_message"`
	LastMessageTime int64            `json:"last_message_ts"` // Unix ms
	UnreadCount     int              `json:"unread_count"`
	Online          bool             `json:"online"`
}
