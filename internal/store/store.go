// Package store holds conversations and their transcripts in memory.
// Transcripts are append-only; all mutation goes through Append and MarkRead
// so UI-triggered sends and scheduler-triggered replies cannot race each
// other into a lost update.
package store

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/agrilink/messaging/internal/models"
)

// Store is the in-memory message store. Safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	transcripts   map[string][]models.Message
	entropy       *ulid.MonotonicEntropy
}

// New creates an empty store.
func New() *Store {
	return &Store{
		conversations: make(map[string]*models.Conversation),
		transcripts:   make(map[string][]models.Message),
		// Monotonic entropy so message IDs sort by creation order even
		// within the same millisecond.
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// AddConversation registers a conversation. A missing id is assigned a UUID.
func (s *Store) AddConversation(c models.Conversation) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, exists := s.conversations[c.ID]; exists {
		return models.Conversation{}, fmt.Errorf("conversation %s already exists", c.ID)
	}
	if c.Kind == "" {
		c.Kind = models.ConversationPeer
	}

	conv := c
	s.conversations[c.ID] = &conv
	s.transcripts[c.ID] = nil
	return conv, nil
}

// Append inserts a message at the tail of a conversation's transcript and
// updates the conversation's last-message snapshot in the same step.
// An unset id, timestamp, kind or status is filled in. Peer messages advance
// pending self-sent statuses to delivered and increment the unread count.
func (s *Store) Append(conversationID string, msg models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return models.Message{}, ErrNotFound
	}

	if msg.Kind == "" {
		msg.Kind = models.KindText
	}
	if msg.Kind == models.KindText && strings.TrimSpace(msg.Text) == "" {
		return models.Message{}, fmt.Errorf("%w: empty text", ErrInvalidMessage)
	}
	if msg.Kind == models.KindItemList && len(msg.Items) == 0 {
		return models.Message{}, fmt.Errorf("%w: item list without items", ErrInvalidMessage)
	}
	if msg.Kind != models.KindItemList && len(msg.Items) > 0 {
		return models.Message{}, fmt.Errorf("%w: items on %s message", ErrInvalidMessage, msg.Kind)
	}

	msg.ConversationID = conversationID
	if msg.ID == "" {
		msg.ID = ulid.MustNew(ulid.Now(), s.entropy).String()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	if msg.Sender == models.SenderSelf && msg.Status == "" {
		msg.Status = models.StatusSent
	}
	// Detach from the caller's slice so later mutations cannot reach the
	// stored transcript.
	msg.Items = copyItems(msg.Items)

	if msg.Sender == models.SenderPeer {
		s.advanceStatus(conversationID, models.StatusSent, models.StatusDelivered)
		conv.UnreadCount++
	}

	s.transcripts[conversationID] = append(s.transcripts[conversationID], msg)
	conv.LastMessage = msg.Text
	conv.LastMessageTime = msg.Timestamp

	out := msg
	out.Items = copyItems(msg.Items)
	return out, nil
}

// MarkRead resets the unread count and marks all self-sent messages as read.
func (s *Store) MarkRead(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return ErrNotFound
	}

	conv.UnreadCount = 0
	s.advanceStatus(conversationID, models.StatusSent, models.StatusRead)
	s.advanceStatus(conversationID, models.StatusDelivered, models.StatusRead)
	return nil
}

// advanceStatus moves self-sent messages from one status to the next.
// Caller must hold the lock.
func (s *Store) advanceStatus(conversationID string, from, to models.Status) {
	transcript := s.transcripts[conversationID]
	for i := range transcript {
		if transcript[i].Sender == models.SenderSelf && transcript[i].Status == from {
			transcript[i].Status = to
		}
	}
}

// Transcript returns a copy of a conversation's messages in append order.
func (s *Store) Transcript(conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, ErrNotFound
	}

	transcript := s.transcripts[conversationID]
	out := make([]models.Message, len(transcript))
	copy(out, transcript)
	// Item slices must be cloned too; a shallow copy would let a caller
	// mutate stored item-list messages through the snapshot.
	for i := range out {
		out[i].Items = copyItems(out[i].Items)
	}
	return out, nil
}

func copyItems(items []models.ItemCard) []models.ItemCard {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.ItemCard, len(items))
	copy(out, items)
	return out
}

// Conversation returns a snapshot of one conversation summary.
func (s *Store) Conversation(conversationID string) (models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return models.Conversation{}, ErrNotFound
	}
	return *conv, nil
}

// Conversations returns summaries sorted by last message time, newest first.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, *conv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastMessageTime != out[j].LastMessageTime {
			return out[i].LastMessageTime > out[j].LastMessageTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FilterConversations returns summaries whose peer name contains the query,
// case-insensitive, sorted newest first. An empty query returns everything.
func (s *Store) FilterConversations(query string) []models.Conversation {
	all := s.Conversations()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	out := make([]models.Conversation, 0, len(all))
	for _, conv := range all {
		if strings.Contains(strings.ToLower(conv.PeerName), query) {
			out = append(out, conv)
		}
	}
	return out
}
