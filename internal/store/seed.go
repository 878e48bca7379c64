package store

import (
	"time"

	"github.com/agrilink/messaging/internal/models"
)

// Well-known conversation ids for the demo dataset. The assistant id is
// stable so the UI can deep-link to it.
const (
	AssistantConversationID = "00000000-0000-0000-0000-000000000001"

	greenValleyID    = "11111111-0000-0000-0000-000000000001"
	organicGardensID = "11111111-0000-0000-0000-000000000002"
	sunriseEquipID   = "11111111-0000-0000-0000-000000000003"
)

const assistantGreeting = "Hello! I'm your AgriLink assistant. I can help you discover fresh crops, find nearby farmers, and answer any questions about our marketplace. How can I help you today?"

// SeedDemo populates the store with the demo conversations and transcripts.
func SeedDemo(s *Store) error {
	now := time.Now()
	minutesAgo := func(m int) int64 { return now.Add(-time.Duration(m) * time.Minute).UnixMilli() }

	if _, err := s.AddConversation(models.Conversation{
		ID:         AssistantConversationID,
		Kind:       models.ConversationAssistant,
		PeerName:   "AgriLink Assistant",
		PeerAvatar: "🤖",
		Online:     true,
	}); err != nil {
		return err
	}
	if _, err := s.Append(AssistantConversationID, models.Message{
		Text:      assistantGreeting,
		Sender:    models.SenderPeer,
		Timestamp: minutesAgo(0),
	}); err != nil {
		return err
	}
	// The greeting should not show the thread as unread.
	if err := s.MarkRead(AssistantConversationID); err != nil {
		return err
	}

	peers := []struct {
		conv       models.Conversation
		transcript []models.Message
	}{
		{
			conv: models.Conversation{
				ID:         greenValleyID,
				Kind:       models.ConversationPeer,
				PeerName:   "Green Valley Farm",
				PeerAvatar: "🚜",
				Online:     true,
			},
			transcript: []models.Message{
				{Text: "Hi! I'm interested in your fresh tomatoes. Are they still available?", Sender: models.SenderSelf, Status: models.StatusRead, Timestamp: minutesAgo(60)},
				{Text: "Yes, we have plenty! They were just harvested this morning. Very fresh and organic.", Sender: models.SenderPeer, Timestamp: minutesAgo(55)},
				{Text: "Perfect! What's the minimum order quantity?", Sender: models.SenderSelf, Status: models.StatusRead, Timestamp: minutesAgo(50)},
				{Text: "We can do orders starting from 10kg. The price is $3.50 per kg.", Sender: models.SenderPeer, Timestamp: minutesAgo(45)},
				{Text: "The tomatoes are ready for harvest!", Sender: models.SenderPeer, Timestamp: minutesAgo(5)},
			},
		},
		{
			conv: models.Conversation{
				ID:         organicGardensID,
				Kind:       models.ConversationPeer,
				PeerName:   "Organic Gardens Co.",
				PeerAvatar: "🌱",
			},
			transcript: []models.Message{
				{Text: "Thank you for your order", Sender: models.SenderPeer, Timestamp: minutesAgo(30)},
			},
		},
		{
			conv: models.Conversation{
				ID:         sunriseEquipID,
				Kind:       models.ConversationPeer,
				PeerName:   "Sunrise Equipment",
				PeerAvatar: "🔧",
				Online:     true,
			},
			transcript: []models.Message{
				{Text: "Equipment available for rent", Sender: models.SenderPeer, Timestamp: minutesAgo(120)},
			},
		},
	}

	for _, p := range peers {
		if _, err := s.AddConversation(p.conv); err != nil {
			return err
		}
		for _, msg := range p.transcript {
			if _, err := s.Append(p.conv.ID, msg); err != nil {
				return err
			}
		}
	}

	// Match the demo dataset: Organic Gardens is caught up, the others have
	// the unread counts Append accumulated from their peer messages.
	if err := s.MarkRead(organicGardensID); err != nil {
		return err
	}

	return nil
}
