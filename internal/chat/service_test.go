package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agrilink/messaging/internal/catalog"
	"github.com/agrilink/messaging/internal/geo"
	"github.com/agrilink/messaging/internal/models"
	"github.com/agrilink/messaging/internal/store"
)

func newTestService(t *testing.T, provider geo.Provider) (*Service, string, string) {
	t.Helper()

	src, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}

	st := store.New()
	assistant, err := st.AddConversation(models.Conversation{
		Kind:     models.ConversationAssistant,
		PeerName: "AgriLink Assistant",
	})
	if err != nil {
		t.Fatal(err)
	}
	peer, err := st.AddConversation(models.Conversation{
		Kind:     models.ConversationPeer,
		PeerName: "Green Valley Farm",
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(st, NewRouter(src), provider, Config{
		AssistantDelay:  5 * time.Millisecond,
		PeerDelay:       5 * time.Millisecond,
		LocationTimeout: 100 * time.Millisecond,
	}, zerolog.Nop())
	t.Cleanup(svc.Close)

	return svc, assistant.ID, peer.ID
}

func transcriptLen(t *testing.T, svc *Service, id string) int {
	t.Helper()
	transcript, err := svc.Transcript(id)
	if err != nil {
		t.Fatal(err)
	}
	return len(transcript)
}

func TestSendUserMessageValidation(t *testing.T) {
	svc, assistantID, _ := newTestService(t, geo.Simulated{Grant: true})

	_, err := svc.SendUserMessage(assistantID, "   ")
	if !errors.Is(err, store.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	if n := transcriptLen(t, svc, assistantID); n != 0 {
		t.Fatalf("expected transcript unchanged, got %d", n)
	}

	_, err = svc.SendUserMessage("missing", "hello")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNearbyPermissionScenario(t *testing.T) {
	svc, assistantID, _ := newTestService(t, geo.Simulated{Grant: true, Latency: time.Millisecond})

	if svc.PermissionState() != models.PermissionPrompt {
		t.Fatalf("expected initial prompt state, got %q", svc.PermissionState())
	}

	if _, err := svc.SendUserMessage(assistantID, "Show me nearby crops"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return transcriptLen(t, svc, assistantID) == 2 })

	transcript, _ := svc.Transcript(assistantID)
	if transcript[1].Kind != models.KindLocationPrompt {
		t.Fatalf("expected location prompt reply, got %q", transcript[1].Kind)
	}

	state, err := svc.RequestLocationPermission(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state != models.PermissionGranted {
		t.Fatalf("expected granted, got %q", state)
	}

	transcript, _ = svc.Transcript(assistantID)
	if len(transcript) != 3 {
		t.Fatalf("expected 3 messages after grant, got %d", len(transcript))
	}
	last := transcript[2]
	if last.Kind != models.KindItemList {
		t.Fatalf("expected item list follow-up, got %q", last.Kind)
	}
	if len(last.Items) != 3 {
		t.Fatalf("expected nearby catalog, got %d items", len(last.Items))
	}
}

func TestPermissionDeniedFallback(t *testing.T) {
	svc, assistantID, _ := newTestService(t, geo.Simulated{Grant: false})

	state, err := svc.RequestLocationPermission(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state != models.PermissionDenied {
		t.Fatalf("expected denied, got %q", state)
	}

	transcript, _ := svc.Transcript(assistantID)
	if len(transcript) != 1 {
		t.Fatalf("expected fallback message, got %d messages", len(transcript))
	}
	if transcript[0].Kind != models.KindText {
		t.Fatalf("expected text fallback, got %q", transcript[0].Kind)
	}

	// Terminal: a second request changes nothing.
	state, err = svc.RequestLocationPermission(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state != models.PermissionDenied {
		t.Fatalf("expected state to stay denied, got %q", state)
	}
	if n := transcriptLen(t, svc, assistantID); n != 1 {
		t.Fatalf("expected no extra messages, got %d", n)
	}
}

func TestPermissionTimeoutResolvesDenied(t *testing.T) {
	svc, _, _ := newTestService(t, geo.Simulated{Grant: true, Latency: time.Second})

	start := time.Now()
	state, err := svc.RequestLocationPermission(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state != models.PermissionDenied {
		t.Fatalf("expected timeout to resolve denied, got %q", state)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("expected request to resolve at the configured timeout")
	}
}

func TestPermissionMonotonic(t *testing.T) {
	svc, _, _ := newTestService(t, geo.Simulated{Grant: true})

	if _, err := svc.RequestLocationPermission(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		state, err := svc.RequestLocationPermission(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if state != models.PermissionGranted {
			t.Fatalf("expected granted to be terminal, got %q", state)
		}
	}
}

func TestBackgroundReplyIncrementsUnread(t *testing.T) {
	svc, assistantID, peerID := newTestService(t, geo.Simulated{Grant: true})

	if _, err := svc.SelectConversation(peerID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendUserMessage(peerID, "Are the tomatoes still available?"); err != nil {
		t.Fatal(err)
	}

	// Leave before the reply lands.
	if _, err := svc.SelectConversation(assistantID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return transcriptLen(t, svc, peerID) == 2 })

	conv, err := svc.Conversation(peerID)
	if err != nil {
		t.Fatal(err)
	}
	if conv.UnreadCount != 1 {
		t.Fatalf("expected background reply to increment unread, got %d", conv.UnreadCount)
	}
}

func TestActiveConversationStaysRead(t *testing.T) {
	svc, _, peerID := newTestService(t, geo.Simulated{Grant: true})

	if _, err := svc.SelectConversation(peerID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendUserMessage(peerID, "hello"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return transcriptLen(t, svc, peerID) == 2 })

	conv, _ := svc.Conversation(peerID)
	if conv.UnreadCount != 0 {
		t.Fatalf("expected active thread to stay read, got unread %d", conv.UnreadCount)
	}
}

func TestSelectConversation(t *testing.T) {
	svc, _, peerID := newTestService(t, geo.Simulated{Grant: true})

	if _, err := svc.SelectConversation("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.SelectConversation(peerID); err != nil {
		t.Fatal(err)
	}
	// Reselecting is idempotent.
	if _, err := svc.SelectConversation(peerID); err != nil {
		t.Fatal(err)
	}
	if svc.ActiveConversation() != peerID {
		t.Fatal("expected peer conversation active")
	}

	svc.DeselectConversation()
	if svc.ActiveConversation() != "" {
		t.Fatal("expected no active conversation after deselect")
	}
}

func TestRapidSendsProduceOneReply(t *testing.T) {
	src, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	st := store.New()
	assistant, err := st.AddConversation(models.Conversation{
		Kind:     models.ConversationAssistant,
		PeerName: "AgriLink Assistant",
	})
	if err != nil {
		t.Fatal(err)
	}

	// A delay long enough that the second send reliably lands while the
	// first reply is still pending.
	svc := NewService(st, NewRouter(src), geo.Simulated{Grant: true}, Config{
		AssistantDelay:  60 * time.Millisecond,
		PeerDelay:       60 * time.Millisecond,
		LocationTimeout: 100 * time.Millisecond,
	}, zerolog.Nop())
	t.Cleanup(svc.Close)
	assistantID := assistant.ID

	if _, err := svc.SendUserMessage(assistantID, "hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendUserMessage(assistantID, "what's fresh today?"); err != nil {
		t.Fatal(err)
	}

	// Two user messages, exactly one reply: the second schedule canceled
	// the first.
	waitFor(t, func() bool { return transcriptLen(t, svc, assistantID) == 3 })
	time.Sleep(20 * time.Millisecond)

	transcript, _ := svc.Transcript(assistantID)
	if len(transcript) != 3 {
		t.Fatalf("expected exactly one reply, got %d messages", len(transcript))
	}
	if transcript[2].Kind != models.KindItemList {
		t.Fatalf("expected reply to the latest message, got %q", transcript[2].Kind)
	}
}

func TestCloseCancelsPending(t *testing.T) {
	svc, assistantID, _ := newTestService(t, geo.Simulated{Grant: true})

	if _, err := svc.SendUserMessage(assistantID, "hello"); err != nil {
		t.Fatal(err)
	}
	svc.Close()

	time.Sleep(30 * time.Millisecond)
	if n := transcriptLen(t, svc, assistantID); n != 1 {
		t.Fatalf("expected no reply after close, got %d messages", n)
	}
	if svc.Typing(assistantID) {
		t.Fatal("expected typing indicator cleared after close")
	}
}
