package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agrilink/messaging/internal/metrics"
	"github.com/agrilink/messaging/internal/models"
)

// Appender delivers a completed reply into a transcript. The scheduler never
// touches the store directly so the service can fold in read bookkeeping.
type Appender func(conversationID string, msg models.Message) (models.Message, error)

// Scheduler simulates assistant and peer response latency. At most one reply
// is pending per conversation: scheduling over a pending reply cancels it
// (last-write-wins), so a conversation never receives duplicate replies.
// The scheduler also owns the typing indicator for each conversation.
type Scheduler struct {
	mu      sync.Mutex
	deliver Appender
	log     zerolog.Logger
	pending map[string]*Scheduled
}

// Scheduled is a cancellable handle to a pending reply.
type Scheduled struct {
	sched          *Scheduler
	conversationID string
	msg            models.Message
	timer          *time.Timer
	done           bool // guarded by sched.mu
}

// NewScheduler creates a scheduler that delivers replies through fn.
func NewScheduler(fn Appender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		deliver: fn,
		log:     log,
		pending: make(map[string]*Scheduled),
	}
}

// Schedule queues a reply for delivery after the given delay and shows the
// conversation's typing indicator until it resolves or is canceled. Any reply
// already pending for the conversation is canceled first.
func (s *Scheduler) Schedule(conversationID string, msg models.Message, delay time.Duration) *Scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[conversationID]; ok {
		prev.cancelLocked()
	}

	sc := &Scheduled{
		sched:          s,
		conversationID: conversationID,
		msg:            msg,
	}
	s.pending[conversationID] = sc
	sc.timer = time.AfterFunc(delay, sc.fire)

	metrics.RepliesScheduled.Inc()
	return sc
}

// Typing reports whether a reply is pending for the conversation.
func (s *Scheduler) Typing(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[conversationID]
	return ok
}

// Cancel drops any pending reply for the conversation. Canceling is normal
// control flow, not an error.
func (s *Scheduler) Cancel(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.pending[conversationID]; ok {
		sc.cancelLocked()
	}
}

// CancelAll drops every pending reply. Used when the messaging session is
// torn down so no reply lands in a no-longer-observed transcript.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.pending {
		sc.cancelLocked()
	}
}

// fire delivers the reply and clears the typing indicator, unless the handle
// was canceled or superseded in the meantime.
func (sc *Scheduled) fire() {
	s := sc.sched

	s.mu.Lock()
	if sc.done || s.pending[sc.conversationID] != sc {
		s.mu.Unlock()
		return
	}
	sc.done = true
	delete(s.pending, sc.conversationID)
	s.mu.Unlock()

	if _, err := s.deliver(sc.conversationID, sc.msg); err != nil {
		s.log.Warn().
			Err(err).
			Str("conversation_id", sc.conversationID).
			Msg("dropping scheduled reply")
		return
	}
	metrics.RepliesDelivered.Inc()
}

// Cancel stops the pending reply. Neither the message nor the typing
// indicator side effect occurs after a successful cancel.
func (sc *Scheduled) Cancel() {
	s := sc.sched
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.cancelLocked()
}

// cancelLocked cancels the handle. Caller must hold sched.mu.
func (sc *Scheduled) cancelLocked() {
	if sc.done {
		return
	}
	sc.done = true
	if sc.timer != nil {
		sc.timer.Stop()
	}
	if sc.sched.pending[sc.conversationID] == sc {
		delete(sc.sched.pending, sc.conversationID)
	}
	metrics.RepliesCanceled.Inc()
}
