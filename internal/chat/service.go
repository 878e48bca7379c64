package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agrilink/messaging/internal/geo"
	"github.com/agrilink/messaging/internal/metrics"
	"github.com/agrilink/messaging/internal/models"
	"github.com/agrilink/messaging/internal/store"
)

// Config holds the simulated latency constants for the messaging core.
type Config struct {
	AssistantDelay  time.Duration // typing time before an assistant reply
	PeerDelay       time.Duration // typing time before a peer reply
	LocationTimeout time.Duration // max wait for the geolocation call
}

// Service is the messaging core consumed by the presentation layer. It owns
// the active-conversation pointer and funnels every transcript mutation
// through the message store.
type Service struct {
	store  *store.Store
	router *Router
	sched  *Scheduler
	perm   *PermissionGate
	geo    geo.Provider
	log    zerolog.Logger
	cfg    Config

	mu       sync.Mutex
	activeID string
	peerSeq  int

	// permMu serializes permission requests so a double-tap on the share
	// button cannot resolve the gate twice.
	permMu sync.Mutex
}

// NewService wires the messaging core together.
func NewService(st *store.Store, router *Router, provider geo.Provider, cfg Config, log zerolog.Logger) *Service {
	s := &Service{
		store:  st,
		router: router,
		perm:   NewPermissionGate(),
		geo:    provider,
		log:    log,
		cfg:    cfg,
	}
	s.sched = NewScheduler(s.deliverReply, log)
	return s
}

// SendUserMessage validates and appends a user message, then schedules the
// simulated response: a classified assistant reply for the assistant thread,
// a canned acknowledgment for peer threads.
func (s *Service) SendUserMessage(conversationID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, fmt.Errorf("%w: empty text", store.ErrInvalidMessage)
	}

	conv, err := s.store.Conversation(conversationID)
	if err != nil {
		return models.Message{}, err
	}

	msg, err := s.store.Append(conversationID, models.Message{
		Text:   text,
		Sender: models.SenderSelf,
	})
	if err != nil {
		return models.Message{}, err
	}
	metrics.MessagesAppended.WithLabelValues(string(models.SenderSelf)).Inc()

	if conv.Kind == models.ConversationAssistant {
		directive := s.router.Classify(text, s.perm.State())
		metrics.IntentsClassified.WithLabelValues(string(directive.Kind)).Inc()
		s.sched.Schedule(conversationID, directiveMessage(directive), s.cfg.AssistantDelay)
	} else {
		s.sched.Schedule(conversationID, models.Message{
			Text:   s.nextPeerReply(),
			Sender: models.SenderPeer,
		}, s.cfg.PeerDelay)
	}

	return msg, nil
}

// SelectConversation makes a conversation the active thread and marks it
// read. Reselecting the active conversation is a no-op beyond re-marking it
// read. A pending reply for the previously active thread is deliberately left
// running: it arrives in the background and bumps that thread's unread count.
func (s *Service) SelectConversation(conversationID string) (models.Conversation, error) {
	if _, err := s.store.Conversation(conversationID); err != nil {
		return models.Conversation{}, err
	}

	s.mu.Lock()
	s.activeID = conversationID
	s.mu.Unlock()

	if err := s.store.MarkRead(conversationID); err != nil {
		return models.Conversation{}, err
	}
	return s.store.Conversation(conversationID)
}

// DeselectConversation clears the active thread (list view on narrow
// layouts). Pending replies keep running.
func (s *Service) DeselectConversation() {
	s.mu.Lock()
	s.activeID = ""
	s.mu.Unlock()
}

// ActiveConversation returns the id of the active thread, or "".
func (s *Service) ActiveConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// RequestLocationPermission runs the geolocation acquisition and resolves the
// permission gate. A grant appends an immediate nearby item-list reply; a
// denial, timeout, or provider error appends the fallback text. Once the gate
// is terminal, further calls return the settled state without side effects.
func (s *Service) RequestLocationPermission(ctx context.Context) (models.PermissionState, error) {
	s.permMu.Lock()
	defer s.permMu.Unlock()

	if state := s.perm.State(); state.Terminal() {
		return state, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.LocationTimeout)
	defer cancel()

	pos, err := s.geo.Locate(ctx)
	if err != nil {
		outcome := "denied"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			outcome = "timeout"
		}
		s.perm.Deny()
		metrics.PermissionResults.WithLabelValues(outcome).Inc()
		s.log.Info().Str("outcome", outcome).Msg("location permission denied")

		s.appendAssistant(models.Message{
			Text:   replyLocationDenied,
			Sender: models.SenderPeer,
		})
		return models.PermissionDenied, nil
	}

	s.perm.Grant()
	metrics.PermissionResults.WithLabelValues("granted").Inc()
	s.log.Info().
		Float64("lat", pos.Latitude).
		Float64("lon", pos.Longitude).
		Msg("location permission granted")

	s.appendAssistant(directiveMessage(Directive{
		Kind:  DirectiveItemList,
		Text:  replyLocationGranted,
		Items: s.router.catalog.Nearby(),
	}))
	return models.PermissionGranted, nil
}

// PermissionState returns the location permission state.
func (s *Service) PermissionState() models.PermissionState {
	return s.perm.State()
}

// Transcript returns a read-only snapshot of a conversation's messages.
func (s *Service) Transcript(conversationID string) ([]models.Message, error) {
	return s.store.Transcript(conversationID)
}

// Conversation returns a snapshot of one conversation summary.
func (s *Service) Conversation(conversationID string) (models.Conversation, error) {
	return s.store.Conversation(conversationID)
}

// Conversations returns summaries filtered by peer name, newest first.
func (s *Service) Conversations(query string) []models.Conversation {
	return s.store.FilterConversations(query)
}

// Typing reports whether the conversation's typing indicator is visible.
func (s *Service) Typing(conversationID string) bool {
	return s.sched.Typing(conversationID)
}

// QuickReplies returns the assistant suggestion chips.
func (s *Service) QuickReplies() []string {
	out := make([]string, len(quickReplies))
	copy(out, quickReplies)
	return out
}

// Close cancels all pending replies and their timers. Called when the
// messaging session is torn down.
func (s *Service) Close() {
	s.sched.CancelAll()
}

// deliverReply appends a scheduled reply. If the target conversation is the
// active thread the reply is read immediately; otherwise the store's unread
// bookkeeping stands.
func (s *Service) deliverReply(conversationID string, msg models.Message) (models.Message, error) {
	out, err := s.store.Append(conversationID, msg)
	if err != nil {
		return models.Message{}, err
	}
	metrics.MessagesAppended.WithLabelValues(string(models.SenderPeer)).Inc()

	s.mu.Lock()
	active := s.activeID == conversationID
	s.mu.Unlock()
	if active {
		if err := s.store.MarkRead(conversationID); err != nil {
			return models.Message{}, err
		}
	}
	return out, nil
}

// appendAssistant appends an immediate assistant message (no typing delay),
// e.g. the permission follow-ups.
func (s *Service) appendAssistant(msg models.Message) {
	id := s.assistantConversationID()
	if id == "" {
		s.log.Warn().Msg("no assistant conversation to append to")
		return
	}
	if _, err := s.deliverReply(id, msg); err != nil {
		s.log.Warn().Err(err).Msg("dropping assistant follow-up")
	}
}

// assistantConversationID finds the assistant thread.
func (s *Service) assistantConversationID() string {
	for _, conv := range s.store.Conversations() {
		if conv.Kind == models.ConversationAssistant {
			return conv.ID
		}
	}
	return ""
}

// nextPeerReply rotates through the canned peer acknowledgments.
func (s *Service) nextPeerReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply := peerReplies[s.peerSeq%len(peerReplies)]
	s.peerSeq++
	return reply
}

// directiveMessage converts a router directive into a peer message. An
// item-list directive with no matches degrades to plain text so the
// items-iff-item-list transcript invariant holds.
func directiveMessage(d Directive) models.Message {
	msg := models.Message{
		Text:   d.Text,
		Sender: models.SenderPeer,
	}
	switch d.Kind {
	case DirectiveLocationPrompt:
		msg.Kind = models.KindLocationPrompt
	case DirectiveItemList:
		if len(d.Items) > 0 {
			msg.Kind = models.KindItemList
			msg.Items = d.Items
		}
	}
	return msg
}
