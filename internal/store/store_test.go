package store

import (
	"errors"
	"testing"

	"github.com/agrilink/messaging/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	s := New()
	conv, err := s.AddConversation(models.Conversation{PeerName: "Green Valley Farm"})
	if err != nil {
		t.Fatal(err)
	}
	return s, conv.ID
}

func TestAppendAssignsFields(t *testing.T) {
	s, id := newTestStore(t)

	msg, err := s.Append(id, models.Message{Text: "hello", Sender: models.SenderSelf})
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated message id")
	}
	if msg.Timestamp == 0 {
		t.Fatal("expected assigned timestamp")
	}
	if msg.Kind != models.KindText {
		t.Fatalf("expected kind text, got %q", msg.Kind)
	}
	if msg.Status != models.StatusSent {
		t.Fatalf("expected status sent, got %q", msg.Status)
	}
}

func TestAppendUpdatesSnapshot(t *testing.T) {
	s, id := newTestStore(t)

	if _, err := s.Append(id, models.Message{Text: "first", Sender: models.SenderSelf}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(id, models.Message{Text: "second", Sender: models.SenderSelf}); err != nil {
		t.Fatal(err)
	}

	transcript, err := s.Transcript(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}

	conv, err := s.Conversation(id)
	if err != nil {
		t.Fatal(err)
	}
	if conv.LastMessage != "second" {
		t.Fatalf("expected snapshot to mirror tail, got %q", conv.LastMessage)
	}
	if conv.LastMessageTime != transcript[1].Timestamp {
		t.Fatal("expected snapshot time to mirror tail timestamp")
	}
}

func TestAppendEmptyTextRejected(t *testing.T) {
	s, id := newTestStore(t)

	_, err := s.Append(id, models.Message{Text: "   ", Sender: models.SenderSelf})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}

	transcript, _ := s.Transcript(id)
	if len(transcript) != 0 {
		t.Fatalf("expected transcript unchanged, got %d messages", len(transcript))
	}
}

func TestAppendItemListConsistency(t *testing.T) {
	s, id := newTestStore(t)

	_, err := s.Append(id, models.Message{
		Text:   "here you go",
		Sender: models.SenderPeer,
		Kind:   models.KindItemList,
	})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage for empty item list, got %v", err)
	}

	_, err = s.Append(id, models.Message{
		Text:   "plain",
		Sender: models.SenderPeer,
		Items:  []models.ItemCard{{ID: "1", Name: "Fresh Tomatoes", Price: 3.50}},
	})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage for items on text message, got %v", err)
	}
}

func TestSnapshotsDoNotAliasStore(t *testing.T) {
	s, id := newTestStore(t)

	items := []models.ItemCard{{ID: "1", Name: "Fresh Tomatoes", Price: 3.50}}
	appended, err := s.Append(id, models.Message{
		Text:   "here you go",
		Sender: models.SenderPeer,
		Kind:   models.KindItemList,
		Items:  items,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Mutations through the caller's input, the returned message, and a
	// transcript snapshot must all leave the stored transcript untouched.
	items[0].Name = "mutated input"
	appended.Items[0].Name = "mutated return"

	snap, err := s.Transcript(id)
	if err != nil {
		t.Fatal(err)
	}
	snap[0].Items[0].Name = "mutated snapshot"

	fresh, _ := s.Transcript(id)
	if got := fresh[0].Items[0].Name; got != "Fresh Tomatoes" {
		t.Fatalf("stored item changed through an external slice: %q", got)
	}
}

func TestAppendUnknownConversation(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Append("missing", models.Message{Text: "hi", Sender: models.SenderSelf})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageIDsMonotonic(t *testing.T) {
	s, id := newTestStore(t)

	var prev string
	for i := 0; i < 20; i++ {
		msg, err := s.Append(id, models.Message{Text: "m", Sender: models.SenderSelf})
		if err != nil {
			t.Fatal(err)
		}
		if msg.ID <= prev {
			t.Fatalf("expected ids in creation order, got %q after %q", msg.ID, prev)
		}
		prev = msg.ID
	}
}

func TestPeerAppendUnreadAndDelivery(t *testing.T) {
	s, id := newTestStore(t)

	if _, err := s.Append(id, models.Message{Text: "hi there", Sender: models.SenderSelf}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(id, models.Message{Text: "hello!", Sender: models.SenderPeer}); err != nil {
		t.Fatal(err)
	}

	conv, _ := s.Conversation(id)
	if conv.UnreadCount != 1 {
		t.Fatalf("expected unread 1, got %d", conv.UnreadCount)
	}

	transcript, _ := s.Transcript(id)
	if transcript[0].Status != models.StatusDelivered {
		t.Fatalf("expected self message delivered, got %q", transcript[0].Status)
	}
}

func TestMarkRead(t *testing.T) {
	s, id := newTestStore(t)

	s.Append(id, models.Message{Text: "hi", Sender: models.SenderSelf})
	s.Append(id, models.Message{Text: "yo", Sender: models.SenderPeer})

	if err := s.MarkRead(id); err != nil {
		t.Fatal(err)
	}

	conv, _ := s.Conversation(id)
	if conv.UnreadCount != 0 {
		t.Fatalf("expected unread 0, got %d", conv.UnreadCount)
	}

	transcript, _ := s.Transcript(id)
	if transcript[0].Status != models.StatusRead {
		t.Fatalf("expected self message read, got %q", transcript[0].Status)
	}

	if err := s.MarkRead("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConversationsSortedByRecency(t *testing.T) {
	s := New()
	a, _ := s.AddConversation(models.Conversation{PeerName: "Older"})
	b, _ := s.AddConversation(models.Conversation{PeerName: "Newer"})

	s.Append(a.ID, models.Message{Text: "old", Sender: models.SenderPeer, Timestamp: 1000})
	s.Append(b.ID, models.Message{Text: "new", Sender: models.SenderPeer, Timestamp: 2000})

	list := s.Conversations()
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
	if list[0].PeerName != "Newer" {
		t.Fatalf("expected newest first, got %q", list[0].PeerName)
	}
}

func TestFilterConversations(t *testing.T) {
	s := New()
	s.AddConversation(models.Conversation{PeerName: "Green Valley Farm"})
	s.AddConversation(models.Conversation{PeerName: "Sunrise Equipment"})

	matches := s.FilterConversations("green")
	if len(matches) != 1 || matches[0].PeerName != "Green Valley Farm" {
		t.Fatalf("unexpected filter result: %+v", matches)
	}

	if got := len(s.FilterConversations("")); got != 2 {
		t.Fatalf("expected empty query to return all, got %d", got)
	}
}

func TestSeedDemo(t *testing.T) {
	s := New()
	if err := SeedDemo(s); err != nil {
		t.Fatal(err)
	}

	list := s.Conversations()
	if len(list) != 4 {
		t.Fatalf("expected 4 seeded conversations, got %d", len(list))
	}

	assistant, err := s.Conversation(AssistantConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if assistant.Kind != models.ConversationAssistant {
		t.Fatalf("expected assistant kind, got %q", assistant.Kind)
	}
	if assistant.UnreadCount != 0 {
		t.Fatalf("expected greeting marked read, got unread %d", assistant.UnreadCount)
	}

	transcript, _ := s.Transcript(AssistantConversationID)
	if len(transcript) != 1 {
		t.Fatalf("expected greeting in transcript, got %d messages", len(transcript))
	}
}
