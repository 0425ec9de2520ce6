// Package session implements the conversation state machine: the message
// thread, the backend session id, and the single-flight send discipline.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/htsflow/htsflow/internal/api"
	"github.com/htsflow/htsflow/internal/common"
	"github.com/htsflow/htsflow/internal/model"
)

// Phase is the conversation state.
type Phase int

// Conversation phases.
const (
	// Idle means no request is outstanding and the last turn succeeded.
	Idle Phase = iota
	// AwaitingResponse means a request is in flight; new sends are no-ops.
	AwaitingResponse
	// Failed means the last turn failed; the thread is intact and the user
	// may resend.
	Failed
)

// Exchange is one completed request/response pair, handed to a Recorder.
type Exchange struct {
	SessionID string
	Query     string
	Response  model.Message
}

// Recorder receives completed exchanges, e.g. for the history archive.
// Recording failures never affect the conversation.
type Recorder interface {
	Record(ctx context.Context, ex Exchange) error
}

// Client owns one conversation with the classification backend. All mutations
// go through SendMessage and StartNewChat; accessors return snapshots.
// Methods are safe for concurrent use, though the single-flight guard means
// at most one send makes progress at a time.
type Client struct {
	backend  api.Client
	recorder Recorder

	mu        sync.Mutex
	sessionID string
	messages  []model.Message
	phase     Phase
	errText   string
	epoch     int
}

// Option configures a Client.
type Option func(*Client)

// WithRecorder attaches an exchange recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// New creates an empty conversation.
func New(backend api.Client, opts ...Option) *Client {
	c := &Client{backend: backend}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage runs one user turn: optimistic append, a single backend
// request, and exactly one assistant append on success. It reports false
// when the turn was rejected without side effects — empty input after
// trimming, or another turn already in flight. The optimistic user message
// is never rolled back, even on failure.
func (c *Client) SendMessage(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	c.mu.Lock()
	if c.phase == AwaitingResponse {
		c.mu.Unlock()
		return false
	}
	c.errText = ""
	c.messages = append(c.messages, model.NewUserMessage(trimmed))
	c.phase = AwaitingResponse
	sessionID := c.sessionID
	epoch := c.epoch
	c.mu.Unlock()

	resp, err := c.backend.Chat(ctx, sessionID, trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The conversation was reset while this turn was in flight; the reply
	// belongs to an abandoned session and must not touch the new thread.
	if epoch != c.epoch {
		return true
	}

	if err != nil {
		c.phase = Failed
		c.errText = friendlyError(err)
		common.LogError(err, "chat turn failed", common.Fields{"session_id": sessionID})
		return true
	}

	c.sessionID = resp.SessionID
	c.messages = append(c.messages, resp.Message())
	c.phase = Idle

	if c.recorder != nil {
		ex := Exchange{
			SessionID: resp.SessionID,
			Query:     trimmed,
			Response:  resp.Message(),
		}
		if recErr := c.recorder.Record(ctx, ex); recErr != nil {
			slog.Warn("failed to record exchange", "error", recErr)
		}
	}

	return true
}

// StartNewChat abandons the current conversation: thread, session id, and
// error state are cleared. Safe to call in any phase; no backend
// notification is sent. A reply still in flight for the old conversation is
// discarded when it lands.
func (c *Client) StartNewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
	c.sessionID = ""
	c.errText = ""
	c.phase = Idle
	c.epoch++
}

// Messages returns a snapshot of the thread in display order.
func (c *Client) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SessionID returns the backend-issued session id, empty until assigned.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Phase returns the current conversation phase.
func (c *Client) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loading reports whether a request is in flight.
func (c *Client) Loading() bool {
	return c.Phase() == AwaitingResponse
}

// Err returns the user-visible error from the last failed turn, empty when
// the last turn succeeded or none has run.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errText
}

// friendlyError maps failures onto the messages shown in the error banner.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, common.ErrProtocol):
		return "The classification service returned an unexpected response. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The classification service took too long to respond. Please try again."
	default:
		return "Could not reach the classification service: " + err.Error()
	}
}
