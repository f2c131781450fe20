package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/tidwall/gjson"
)

const (
	DefaultEndpoint  = "https://api.anthropic.com"
	DefaultModel     = "claude-3-7-sonnet-20250219"
	DefaultMaxTokens = 4096
	DefaultTimeout   = 120 * time.Second

	apiVersion      = "2023-06-01"
	messagesPath    = "/v1/messages"
	maxResponseSize = 1 << 20
	maxErrorSize    = 4096
)

var (
	ErrMissingAPIKey = errors.New("analysis API key is not set")
	ErrTimeout       = errors.New("analysis request timed out")
)

// StatusError is a non-2xx reply from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis request status %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client. Zero fields take the package defaults.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	Prompts    Prompts
	HTTPClient *http.Client
	Clock      quartz.Clock
	Logger     *log.Logger
}

// Client is an Analyzer backed by the Anthropic Messages API.
type Client struct {
	cfg    Config
	logger *log.Logger
}

var _ Analyzer = (*Client)(nil)

// NewClient builds a client from cfg.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Prompts.System == "" {
		cfg.Prompts = JapanesePrompts
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{cfg: cfg, logger: cfg.Logger.WithPrefix("analysis")}
}

type message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

// buildRequest turns the conversation into the API payload: the document
// is wrapped in the instruction prompt, later turns go as written.
func (c *Client) buildRequest(turns []Turn) messagesRequest {
	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    c.cfg.Prompts.System,
		Messages:  make([]message, len(turns)),
	}
	for i, t := range turns {
		content := t.Content
		if i == 0 {
			content = c.cfg.Prompts.Wrap(content)
		}
		req.Messages[i] = message{Role: t.Role, Content: content}
	}
	return req
}

// Analyze sends the conversation and returns the assistant's reply.
func (c *Client) Analyze(ctx context.Context, conv *Conversation) (Turn, error) {
	if conv == nil || conv.Len() == 0 {
		return Turn{}, ErrMissingDocument
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return Turn{}, ErrMissingAPIKey
	}
	turns := conv.Turns()

	body, err := json.Marshal(c.buildRequest(turns))
	if err != nil {
		return Turn{}, fmt.Errorf("marshal analysis request: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := c.cfg.Clock.AfterFunc(c.cfg.Timeout, func() {
		cancel(ErrTimeout)
	})
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+messagesPath, bytes.NewReader(body))
	if err != nil {
		return Turn{}, fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	c.logger.Debug("Sending analysis request", "model", c.cfg.Model, "turns", len(turns))
	start := c.cfg.Clock.Now()

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return Turn{}, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return Turn{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorSize))
		if err != nil {
			return Turn{}, fmt.Errorf("read analysis error body: %w", err)
		}
		msg := strings.TrimSpace(string(raw))
		if m := gjson.GetBytes(raw, "error.message"); m.Exists() {
			msg = m.String()
		}
		c.logger.Warn("Analysis request rejected", "status", res.StatusCode, "message", msg)
		return Turn{}, &StatusError{StatusCode: res.StatusCode, Message: msg}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return Turn{}, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return Turn{}, fmt.Errorf("read analysis response: %w", err)
	}
	text, err := replyText(raw)
	if err != nil {
		return Turn{}, err
	}

	c.logger.Info("Analysis received",
		"model", gjson.GetBytes(raw, "model").String(),
		"outputTokens", gjson.GetBytes(raw, "usage.output_tokens").Int(),
		"elapsed", c.cfg.Clock.Since(start))

	return Turn{Role: RoleAssistant, Content: text, At: c.cfg.Clock.Now()}, nil
}

// replyText joins the text blocks of a Messages API response.
func replyText(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", errors.New("analysis response is not valid JSON")
	}
	var parts []string
	for _, block := range gjson.GetBytes(raw, "content").Array() {
		if block.Get("type").String() == "text" {
			parts = append(parts, block.Get("text").String())
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("analysis response has no text")
	}
	return text, nil
}
