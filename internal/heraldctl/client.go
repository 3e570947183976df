package heraldctl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiosk404/herald/pkg/utils/json"
)

// Client talks to the herald HTTP API.
type Client struct {
	BaseURL    string
	UserID     string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, userID, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserID:     userID,
		Token:      token,
		HTTPClient: httpClient,
	}
}

type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Stream    bool   `json:"stream,omitempty"`
}

type ChatResult struct {
	Query            string   `json:"query"`
	Response         string   `json:"response"`
	OriginalResponse string   `json:"originalResponse"`
	ToolUsed         string   `json:"toolUsed"`
	ChainedTools     []string `json:"chainedTools"`
	SessionID        string   `json:"sessionId"`
	SuggestedActions []string `json:"suggestedActions"`
	State            string   `json:"state"`
}

type chatEnvelope struct {
	Success bool        `json:"success"`
	Data    *ChatResult `json:"data"`
}

type StateEvent struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Detail string `json:"detail"`
}

type Tool struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Chat sends one query and waits for the full reply. The bool reports the
// pipeline's success flag.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResult, bool, error) {
	req.Stream = false
	var env chatEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/chat", req, &env); err != nil {
		return nil, false, err
	}
	if env.Data == nil {
		return nil, false, fmt.Errorf("empty response from server")
	}
	return env.Data, env.Success, nil
}

// ChatStream sends one query with stream=true, calling onState for every
// pipeline transition until the result event arrives.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, onState func(StateEvent)) (*ChatResult, bool, error) {
	req.Stream = true
	resp, err := c.send(ctx, http.MethodPost, "/v1/chat", req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "state":
				var st StateEvent
				if err := json.UnmarshalString(data, &st); err == nil && onState != nil {
					onState(st)
				}
			case "result":
				var env chatEnvelope
				if err := json.UnmarshalString(data, &env); err != nil {
					return nil, false, fmt.Errorf("decode result event: %w", err)
				}
				if env.Data == nil {
					return nil, false, fmt.Errorf("empty result event")
				}
				return env.Data, env.Success, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("read stream: %w", err)
	}
	return nil, false, fmt.Errorf("stream ended without a result")
}

func (c *Client) Tools(ctx context.Context, category string) ([]Tool, error) {
	path := "/v1/tools"
	if category != "" {
		path = "/v1/tools/category/" + url.PathEscape(category)
	}
	var env struct {
		Data struct {
			Tools []Tool `json:"tools"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Data.Tools, nil
}

func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	var env struct {
		Data []Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/sessions", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) CreateSession(ctx context.Context, title string) (*Session, error) {
	var env struct {
		Data *Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", map[string]string{"title": title}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// send performs the request and turns non-2xx replies into errors.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserID != "" {
		req.Header.Set("X-User-ID", c.UserID)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Message != "" {
			return nil, fmt.Errorf("server returned %d (code %d): %s", resp.StatusCode, ae.Code, ae.Message)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}
	return resp, nil
}
