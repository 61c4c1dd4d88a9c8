// ABOUTME: OpenAI-compatible chat completions client for companion replies.
// ABOUTME: Streams server-sent events and falls back to a single JSON reply.
package companion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/care4u/internal/models"
)

const (
	defaultBaseURL         = "https://api.openai.com"
	defaultModel           = "gpt-4o-mini"
	defaultTimeout         = 30 * time.Second
	chatCompletionsPath    = "/v1/chat/completions"
	maxTagLookahead        = 80
	sseDataPrefix          = "data:"
	sseDoneMarker          = "[DONE]"
	eventStreamContentType = "text/event-stream"
)

// Config configures the remote responder.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Stream  bool
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	stream     bool
	httpClient *http.Client
}

// NewClient validates the config and fills defaults.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		timeout:    cfg.Timeout,
		stream:     cfg.Stream,
		httpClient: &http.Client{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildMessages maps the conversation onto chat completion roles.
func buildMessages(req Request) []chatMessage {
	msgs := []chatMessage{{Role: "system", Content: SystemPrompt(req)}}
	for _, m := range req.History {
		if m.IsStreaming || strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := "user"
		if m.Role == models.RoleAI {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: m.Content})
	}
	return msgs
}

// Reply sends the conversation and streams the answer back.
func (c *Client) Reply(ctx context.Context, req Request) (<-chan Fragment, error) {
	body := map[string]any{
		"model":       c.model,
		"messages":    buildMessages(req),
		"temperature": 0.8,
		"max_tokens":  300,
		"stream":      c.stream,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("companion request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("companion request failed, status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	out := make(chan Fragment, 16)
	go func() {
		defer cancel()
		defer resp.Body.Close()
		defer close(out)

		if strings.HasPrefix(resp.Header.Get("Content-Type"), eventStreamContentType) {
			streamEvents(ctx, resp.Body, out)
			return
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			send(ctx, out, Fragment{Err: fmt.Errorf("read response: %w", err), Done: true})
			return
		}
		content, err := extractAssistantContent(raw)
		if err != nil {
			send(ctx, out, Fragment{Err: err, Done: true})
			return
		}
		text, emotion, mood := ParseTags(content)
		send(ctx, out, Fragment{Text: text, Emotion: emotion, MoodLabel: mood, Done: true})
	}()
	return out, nil
}

// streamEvents reads SSE lines and forwards content deltas in order.
func streamEvents(ctx context.Context, r io.Reader, out chan<- Fragment) {
	var tags tagFilter
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, sseDataPrefix))
		if data == sseDoneMarker {
			break
		}
		delta, err := extractDelta([]byte(data))
		if err != nil {
			send(ctx, out, Fragment{Err: err, Done: true})
			return
		}
		if f, ok := tags.push(delta); ok {
			if !send(ctx, out, f) {
				return
			}
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, out, Fragment{Err: fmt.Errorf("read stream: %w", err), Done: true})
		return
	}
	final := tags.flush()
	final.Done = true
	send(ctx, out, final)
}

func send(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// tagFilter holds back the start of a stream until the tag line is resolved.
// Whitespace between the tag and the first body text is dropped.
type tagFilter struct {
	buf      strings.Builder
	resolved bool
	started  bool
}

func (t *tagFilter) push(s string) (Fragment, bool) {
	if s == "" {
		return Fragment{}, false
	}
	if t.resolved {
		return t.body(s, "", "")
	}
	t.buf.WriteString(s)
	cur := t.buf.String()
	trimmed := strings.TrimLeft(cur, " \n")
	switch {
	case trimmed == "":
		return Fragment{}, false
	case !strings.HasPrefix(trimmed, "["):
		t.resolved = true
		return t.body(cur, "", "")
	case !strings.Contains(trimmed, "]"):
		if len(trimmed) > maxTagLookahead {
			t.resolved = true
			return t.body(cur, "", "")
		}
		return Fragment{}, false
	}
	t.resolved = true
	text, emotion, mood := ParseTags(cur)
	return t.body(text, emotion, mood)
}

// body emits text once the tag is resolved, trimming leading whitespace until
// the first visible character has gone out. Tags are emitted even with no text.
func (t *tagFilter) body(text string, emotion models.Emotion, mood string) (Fragment, bool) {
	if !t.started {
		text = strings.TrimLeft(text, " \t\n")
		t.started = text != ""
	}
	if text == "" && emotion == "" && mood == "" {
		return Fragment{}, false
	}
	return Fragment{Text: text, Emotion: emotion, MoodLabel: mood}, true
}

func (t *tagFilter) flush() Fragment {
	if t.resolved {
		return Fragment{}
	}
	t.resolved = true
	return Fragment{Text: strings.TrimLeft(t.buf.String(), " \t\n")}
}

func extractDelta(raw []byte) (string, error) {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

func extractAssistantContent(raw []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrInvalidResponse
	}
	return content, nil
}
