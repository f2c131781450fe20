package analysis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestClient(t *testing.T, url string, clock quartz.Clock) *Client {
	t.Helper()
	return NewClient(Config{
		Endpoint: url,
		APIKey:   "test-key",
		Timeout:  30 * time.Second,
		Clock:    clock,
		Logger:   testLogger(),
	})
}

func TestClientAnalyze(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"model": "claude-3-7-sonnet-20250219",
			"content": [
				{"type": "text", "text": "Call. "},
				{"type": "tool_use", "id": "x"},
				{"type": "text", "text": "Then check-raise the turn."}
			],
			"usage": {"output_tokens": 12}
		}`)
	}))
	defer srv.Close()

	clock := quartz.NewMock(t)
	conv, err := NewConversation(clock, "HAND")
	require.NoError(t, err)
	c := newTestClient(t, srv.URL+"/", clock)

	reply, err := Exchange(context.Background(), c, conv)
	require.NoError(t, err)
	assert.Equal(t, "Call. Then check-raise the turn.", reply.Content)
	assert.Equal(t, RoleAssistant, reply.Role)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, JapanesePrompts.System, got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, JapanesePrompts.Wrap("HAND"), got.Messages[0].Content)

	// Follow-ups carry the whole history; only the first turn is wrapped.
	require.NoError(t, conv.Ask("And on a blank river?"))
	_, err = Exchange(context.Background(), c, conv)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, "Call. Then check-raise the turn.", got.Messages[1].Content)
	assert.Equal(t, message{Role: RoleUser, Content: "And on a blank river?"}, got.Messages[2])
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	conv, err := NewConversation(quartz.NewMock(t), "HAND")
	require.NoError(t, err)

	_, err = newTestClient(t, srv.URL, quartz.NewMock(t)).Analyze(context.Background(), conv)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "slow down", statusErr.Message)
}

func TestClientRejectsEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content": []}`)
	}))
	defer srv.Close()

	conv, err := NewConversation(quartz.NewMock(t), "HAND")
	require.NoError(t, err)
	_, err = newTestClient(t, srv.URL, quartz.NewMock(t)).Analyze(context.Background(), conv)
	assert.ErrorContains(t, err, "no text")
}

func TestClientRequiresAPIKey(t *testing.T) {
	conv, err := NewConversation(quartz.NewMock(t), "HAND")
	require.NoError(t, err)

	c := NewClient(Config{Endpoint: "http://127.0.0.1:1", Logger: testLogger()})
	_, err = c.Analyze(context.Background(), conv)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = c.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingDocument)
}

func TestClientTimeout(t *testing.T) {
	received := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	conv, err := NewConversation(clock, "HAND")
	require.NoError(t, err)
	c := newTestClient(t, srv.URL, clock)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Analyze(ctx, conv)
		errCh <- err
	}()

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("request never reached the server")
	}
	clock.Advance(30 * time.Second).MustWait(ctx)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrTimeout)
	case <-ctx.Done():
		t.Fatal("analysis did not time out")
	}
}
