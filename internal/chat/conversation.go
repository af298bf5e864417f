package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// UnreachableReply is appended in place of a model reply when a send fails.
// The user's own message stays in the view.
const UnreachableReply = "Sorry, Lumina could not be reached. Please check your connection and try again."

// ErrBusy is returned by Push while an earlier send or history load is
// still unresolved.
var ErrBusy = errors.New("conversation busy")

// Service is the slice of the API client the conversation drives.
type Service interface {
	CreateChat(ctx context.Context, title string) (models.Session, error)
	SendMessage(ctx context.Context, chatID, message string) (*models.SendResult, error)
	History(ctx context.Context, chatID string) ([]models.Message, error)
}

// SendTicket captures one accepted send at issue time. Exchange runs the
// network step it describes; Resolve applies the outcome, unless the
// conversation has moved on since.
type SendTicket struct {
	generation uint64
	sessionID  string // active id when issued; empty means provision first
	Text       string
}

// SendOutcome is what one Exchange produced: the reply on success, the error
// otherwise, plus the session provisioned along the way, if any. Provisioned
// is set even when the send itself failed, so the caller can still register
// the session that now exists server-side.
type SendOutcome struct {
	Result      *models.SendResult
	Provisioned *models.Session
	Err         error
}

// LoadTicket captures one history fetch at issue time.
type LoadTicket struct {
	generation uint64
	SessionID  string
}

// Conversation is the view of the one active session: its ordered messages
// plus the machinery reconciling optimistic appends and history loads with
// the service. Every ticket is stamped with a generation counter at issue
// time; resetting, switching or deleting sessions bumps the counter, so a
// late response is recognized as stale and dropped instead of landing in
// whatever view the user has moved to.
//
// Push, Resolve, Activate, ResolveHistory and Reset mutate the view and
// belong on the UI update loop. Exchange and FetchHistory touch no view
// state and are meant to run off-loop.
type Conversation struct {
	client Service
	logger *zap.Logger

	mu         sync.RWMutex
	messages   []models.Message
	activeID   string
	generation uint64
	sending    bool
	loading    bool
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Conversation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConversation returns an idle conversation with no active session.
func NewConversation(client Service, opts ...Option) *Conversation {
	c := &Conversation{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push accepts user input: the trimmed text is appended to the view
// immediately, before any network round trip, and a ticket for the network
// step is returned. Empty input is rejected with apierrors.ErrEmptyMessage
// and no state change; input while a send or load is unresolved is rejected
// with ErrBusy.
func (c *Conversation) Push(text string) (SendTicket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SendTicket{}, apierrors.ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sending || c.loading {
		return SendTicket{}, ErrBusy
	}

	c.messages = append(c.messages, models.UserMessage(text))
	c.sending = true

	return SendTicket{
		generation: c.generation,
		sessionID:  c.activeID,
		Text:       text,
	}, nil
}

// Exchange runs the network step for a ticket. When the ticket carries no
// session id, a session is provisioned first and the send targets the fresh
// id; the two calls are one user action. No view state is touched here, so
// Exchange is safe to run concurrently with the UI loop. Hand the outcome
// back to Resolve.
func (c *Conversation) Exchange(ctx context.Context, ticket SendTicket) SendOutcome {
	var outcome SendOutcome

	chatID := ticket.sessionID
	if chatID == "" {
		created, err := c.client.CreateChat(ctx, models.DefaultSessionTitle)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Provisioned = &created
		chatID = created.ID
	}

	result, err := c.client.SendMessage(ctx, chatID, ticket.Text)
	if err != nil {
		// Provisioned stays set on a failed first send: the session exists
		// server-side and must not be silently lost.
		outcome.Err = err
		return outcome
	}
	outcome.Result = result
	return outcome
}

// Resolve applies an outcome to the view and reports whether it was applied.
// A stale ticket, one issued before the user reset, switched or deleted a
// session, is discarded wholesale so a late reply never lands in the wrong
// view. A fresh outcome appends the model reply, or on failure a single
// synthetic unreachable notice; the user's message is never rolled back.
func (c *Conversation) Resolve(ticket SendTicket, outcome SendOutcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket.generation != c.generation {
		c.logger.Debug("discarding stale send outcome",
			zap.Uint64("ticket_generation", ticket.generation),
			zap.Uint64("generation", c.generation))
		return false
	}

	c.sending = false

	if outcome.Err != nil {
		if c.activeID == "" && outcome.Provisioned != nil {
			c.activeID = outcome.Provisioned.ID
		}
		c.logger.Warn("send failed",
			zap.String("chat_id", c.activeID),
			zap.Error(outcome.Err))
		c.messages = append(c.messages, models.ModelMessage(UnreachableReply))
		return true
	}

	if c.activeID == "" {
		c.activeID = outcome.Result.ChatID
	}
	c.messages = append(c.messages, outcome.Result.ReplyMessage())
	return true
}

// Reset is the New Chat action: the view empties, no session is active and
// any in-flight work is orphaned. No server call is made; the session is
// provisioned lazily by the next send.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.messages = nil
	c.activeID = ""
	c.sending = false
	c.loading = false
}

// Activate switches the view to the given session and returns the ticket
// for its history fetch. The view empties up front, so a failed fetch shows
// an empty conversation rather than the previous session's messages. An
// empty id is a no-op that leaves the current view untouched.
func (c *Conversation) Activate(id string) (LoadTicket, bool) {
	if strings.TrimSpace(id) == "" {
		return LoadTicket{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.messages = nil
	c.activeID = id
	c.sending = false
	c.loading = true

	return LoadTicket{generation: c.generation, SessionID: id}, true
}

// FetchHistory runs the network step for a load ticket. No view state is
// touched; hand the result to ResolveHistory.
func (c *Conversation) FetchHistory(ctx context.Context, ticket LoadTicket) ([]models.Message, error) {
	return c.client.History(ctx, ticket.SessionID)
}

// ResolveHistory materializes a fetched history as the view, replacing any
// prior content, and reports whether it was applied. Stale tickets are
// dropped, so under rapid consecutive selections the last selection wins
// regardless of network completion order. On fetch failure the view stays
// empty; the session registry is not touched.
func (c *Conversation) ResolveHistory(ticket LoadTicket, messages []models.Message, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket.generation != c.generation {
		c.logger.Debug("discarding stale history result",
			zap.String("chat_id", ticket.SessionID))
		return false
	}

	c.loading = false

	if err != nil {
		c.logger.Warn("history fetch failed",
			zap.String("chat_id", ticket.SessionID),
			zap.Error(err))
		c.messages = nil
		return true
	}

	c.messages = make([]models.Message, len(messages))
	copy(c.messages, messages)
	return true
}

// Messages returns a snapshot of the view in display order.
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ActiveID returns the active session id, or "" when the next send will
// provision a new session.
func (c *Conversation) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID
}

// Sending reports whether a send awaits resolution.
func (c *Conversation) Sending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sending
}

// Loading reports whether a history fetch awaits resolution.
func (c *Conversation) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Busy reports whether any network step awaits resolution.
func (c *Conversation) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sending || c.loading
}
