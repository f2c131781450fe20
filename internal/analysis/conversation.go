// Package analysis hands serialized hands to a language-model service and
// carries the follow-up conversation.
package analysis

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

var (
	ErrMissingDocument = errors.New("missing hand history")
	ErrEmptyQuery      = errors.New("empty follow-up question")
	ErrAwaitingReply   = errors.New("previous question has not been answered")
)

// Role is who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Analyzer produces the next assistant turn for a conversation. The
// conversation's first turn is always the serialized hand.
type Analyzer interface {
	Analyze(ctx context.Context, conv *Conversation) (Turn, error)
}

// Conversation is the ordered exchange about one hand. Turns alternate,
// starting with the document from the user. It is safe for concurrent use.
type Conversation struct {
	clock quartz.Clock
	mu    sync.Mutex
	turns []Turn
}

// NewConversation starts a conversation about document.
func NewConversation(clock quartz.Clock, document string) (*Conversation, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrMissingDocument
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Conversation{
		clock: clock,
		turns: []Turn{{Role: RoleUser, Content: document, At: clock.Now()}},
	}, nil
}

// Document returns the serialized hand the conversation is about.
func (c *Conversation) Document() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turns[0].Content
}

// Turns returns a copy of every turn so far.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.turns)
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// Pending reports whether the last turn is a question awaiting a reply.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending()
}

func (c *Conversation) pending() bool {
	return c.turns[len(c.turns)-1].Role == RoleUser
}

// Ask appends a follow-up question.
func (c *Conversation) Ask(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending() {
		return ErrAwaitingReply
	}
	c.turns = append(c.turns, Turn{Role: RoleUser, Content: query, At: c.clock.Now()})
	return nil
}

// Record appends the analyzer's reply and returns it as stored.
func (c *Conversation) Record(reply Turn) Turn {
	reply.Role = RoleAssistant
	if reply.At.IsZero() {
		reply.At = c.clock.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, reply)
	return reply
}

// Exchange asks a for the reply to the pending question and records it.
func Exchange(ctx context.Context, a Analyzer, conv *Conversation) (Turn, error) {
	if !conv.Pending() {
		return Turn{}, errors.New("no question to answer")
	}
	reply, err := a.Analyze(ctx, conv)
	if err != nil {
		return Turn{}, err
	}
	return conv.Record(reply), nil
}
