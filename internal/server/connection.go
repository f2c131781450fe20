package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/handcoach/internal/analysis"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/session"
	"github.com/lox/handcoach/internal/wizard"
)

// Connection represents a WebSocket connection to a client and the hand
// session it drives.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sess      *session.Session
	analyzer  analysis.Analyzer
	clock     quartz.Clock
	idle      *quartz.Timer
	timeout   time.Duration
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// mu guards the analysis state, which the analysis goroutine updates
	mu   sync.Mutex
	conv *analysis.Conversation
	busy bool
}

// NewConnection creates a new connection wrapper with a fresh session
func NewConnection(conn *websocket.Conn, logger *log.Logger, opts Options) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	sess := session.New(logger, opts.Labels)
	c := &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		sess:     sess,
		analyzer: opts.Analyzer,
		clock:    opts.Clock,
		timeout:  opts.IdleTimeout,
		logger:   logger.WithPrefix("conn").With("session", sess.ID()[:8]),
		ctx:      ctx,
		cancel:   cancel,
	}
	c.idle = c.clock.AfterFunc(c.timeout, func() {
		c.logger.Info("Closing idle connection", "timeout", c.timeout)
		_ = c.Close()
	})
	return c
}

// Start sends the initial state and begins handling the connection
func (c *Connection) Start() {
	c.sendState(false, "")
	go c.writePump()
	go c.readPump()
}

// SessionID returns the id of the connection's session.
func (c *Connection) SessionID() string {
	return c.sess.ID()
}

// Done is closed when the connection has been closed.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.idle.Stop()
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
			err = ErrConnectionClosed
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.idle.Reset(c.timeout)
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeIntent:
		var data IntentData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse intent data", msg.RequestID)
			return
		}
		c.handleIntent(data, msg.RequestID)

	case MessageTypeAsk:
		var data AskData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse ask data", msg.RequestID)
			return
		}
		c.handleAsk(data, msg.RequestID)

	case MessageTypeSubmit:
		c.handleSubmit(msg.RequestID)

	default:
		c.sendError(CodeUnknownMessageType, "Unknown message type: "+msg.Type.String(), msg.RequestID)
	}
}

func (c *Connection) handleIntent(in session.Intent, requestID string) {
	res, err := c.sess.Apply(in)
	if err != nil {
		c.sendError(errorCode(err), err.Error(), requestID)
		return
	}
	if in.Type == session.Reset {
		// any reply still in flight belongs to the old hand
		c.mu.Lock()
		c.conv = nil
		c.busy = false
		c.mu.Unlock()
	}
	c.sendState(res.Question, requestID)

	if res.Question {
		c.startAnalysis(res.Snapshot, requestID)
	}
}

func (c *Connection) handleSubmit(requestID string) {
	doc, err := c.sess.Submit()
	if err != nil {
		c.sendError(errorCode(err), err.Error(), requestID)
		return
	}
	c.startAnalysis(doc, requestID)
}

func (c *Connection) handleAsk(data AskData, requestID string) {
	c.mu.Lock()
	conv, busy := c.conv, c.busy
	c.mu.Unlock()

	switch {
	case conv == nil:
		c.sendError(CodeNoConversation, "Nothing has been analysed yet", requestID)
		return
	case busy:
		c.sendError(CodeAnalysisBusy, "An analysis is already running", requestID)
		return
	}
	if err := conv.Ask(data.Question); err != nil {
		c.sendError(CodeValidation, err.Error(), requestID)
		return
	}
	c.analyze(conv, requestID)
}

// startAnalysis opens a conversation about document and requests the
// first reply.
func (c *Connection) startAnalysis(document, requestID string) {
	if c.analyzer == nil {
		c.sendError(CodeAnalysisUnavailable, "Analysis is not configured", requestID)
		return
	}

	c.mu.Lock()
	busy := c.busy
	c.mu.Unlock()
	if busy {
		c.sendError(CodeAnalysisBusy, "An analysis is already running", requestID)
		return
	}

	conv, err := analysis.NewConversation(c.clock, document)
	if err != nil {
		c.sendError(CodeValidation, err.Error(), requestID)
		return
	}

	c.mu.Lock()
	c.conv = conv
	c.mu.Unlock()
	c.analyze(conv, requestID)
}

// analyze requests the reply to conv's pending question in the background
// and sends it to the client when it arrives.
func (c *Connection) analyze(conv *analysis.Conversation, requestID string) {
	c.mu.Lock()
	c.busy = true
	c.mu.Unlock()

	go func() {
		turn, err := analysis.Exchange(c.ctx, c.analyzer, conv)

		// cleared before replying so a client may follow up immediately
		c.mu.Lock()
		current := c.conv == conv
		if current {
			c.busy = false
		}
		c.mu.Unlock()

		if !current {
			c.logger.Debug("Dropping reply for a discarded hand", "error", err)
			return
		}
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Error("Analysis failed", "error", err)
			c.sendError(CodeAnalysisFailed, err.Error(), requestID)
			return
		}

		msg, err := NewMessage(MessageTypeAnalysis, AnalysisData{
			Role:    turn.Role,
			Content: turn.Content,
			At:      turn.At,
			Turn:    conv.Len() - 1,
		}, c.clock.Now())
		if err != nil {
			c.logger.Error("Failed to create analysis message", "error", err)
			return
		}
		msg.RequestID = requestID
		_ = c.SendMessage(msg) // Ignore send errors
	}()
}

func (c *Connection) sendState(question bool, requestID string) {
	data := NewStateData(c.sess)
	data.Question = question

	msg, err := NewMessage(MessageTypeState, data, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg) // Ignore send errors
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message, requestID string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	}, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

// errorCode classifies a rejected intent for the client.
func errorCode(err error) string {
	switch {
	case errors.Is(err, wizard.ErrGuard), errors.Is(err, wizard.ErrUnvisited), errors.Is(err, wizard.ErrTerminal):
		return CodeGuard
	case errors.Is(err, session.ErrNotOnReview):
		return CodeNotOnReview
	case hand.IsInvariant(err):
		return CodeInvariant
	case hand.IsValidation(err):
		return CodeValidation
	default:
		return CodeRejected
	}
}
