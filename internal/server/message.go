package server

import (
	"encoding/json"
	"time"

	"github.com/lox/handcoach/internal/analysis"
	"github.com/lox/handcoach/internal/session"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MessageTypeIntent MessageType = "intent"
	MessageTypeAsk    MessageType = "ask"
	MessageTypeSubmit MessageType = "submit"
)

// Server → Client message types
const (
	MessageTypeState    MessageType = "state"
	MessageTypeAnalysis MessageType = "analysis"
	MessageTypeError    MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData.
const (
	CodeInvalidMessage      = "invalid_message"
	CodeUnknownMessageType  = "unknown_message_type"
	CodeInvariant           = "invariant_violation"
	CodeValidation          = "validation_failed"
	CodeGuard               = "guard_failed"
	CodeRejected            = "rejected"
	CodeNotOnReview         = "not_on_review"
	CodeNoConversation      = "no_conversation"
	CodeAnalysisBusy        = "analysis_busy"
	CodeAnalysisUnavailable = "analysis_unavailable"
	CodeAnalysisFailed      = "analysis_failed"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

// IntentData is the payload of an intent message.
type IntentData = session.Intent

type AskData struct {
	Question string `json:"question"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AnalysisData struct {
	Role    analysis.Role `json:"role"`
	Content string        `json:"content"`
	At      time.Time     `json:"at"`
	Turn    int           `json:"turn"`
}

// StateData is the full view of a session, sent after every accepted
// intent so clients never have to track state themselves.
type StateData struct {
	SessionID    string                  `json:"sessionId"`
	Step         int                     `json:"step"`
	StepName     string                  `json:"stepName"`
	StepTitle    string                  `json:"stepTitle"`
	Visited      []int                   `json:"visited"`
	CanAdvance   bool                    `json:"canAdvance"`
	PlayerCount  int                     `json:"playerCount"`
	HeroPosition string                  `json:"heroPosition"`
	HeroHand     []string                `json:"heroHand"`
	Flop         []string                `json:"flop"`
	Turn         string                  `json:"turn"`
	River        string                  `json:"river"`
	Stacks       []StackData             `json:"stacks"`
	Pot          float64                 `json:"pot"`
	Positions    []string                `json:"positions"`
	Actions      map[string][]ActionData `json:"actions"`
	Preview      string                  `json:"preview"`
	Question     bool                    `json:"question,omitempty"`
}

type StackData struct {
	Position string  `json:"position"`
	Stack    float64 `json:"stack"`
	IsHero   bool    `json:"isHero,omitempty"`
}

type ActionData struct {
	Position   string  `json:"position"`
	Action     string  `json:"action"`
	Amount     float64 `json:"amount,omitempty"`
	IsQuestion bool    `json:"isQuestion,omitempty"`
}
