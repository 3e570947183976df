package heraldctl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientChat(t *testing.T) {
	var gotUser, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		gotUser = r.Header.Get("X-User-ID")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"query":"hi","response":"Hello!","toolUsed":"get_calendar_events","sessionId":"s-9","state":"DONE"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "alice", "secret", nil)
	res, ok, err := c.Chat(context.Background(), ChatRequest{Query: "hi", SessionID: "s-1"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hello!", res.Response)
	assert.Equal(t, "s-9", res.SessionID)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Contains(t, gotBody, `"sessionId":"s-1"`)
	assert.NotContains(t, gotBody, `"stream"`)
}

func TestClientChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event:state\ndata:{\"from\":\"RECEIVED\",\"to\":\"ENRICHING\"}\n\n")
		fmt.Fprint(w, "event:state\ndata:{\"from\":\"SELECTING\",\"to\":\"EXECUTING\",\"detail\":\"web_search\"}\n\n")
		fmt.Fprint(w, "event:result\ndata:{\"success\":false,\"data\":{\"response\":\"Search failed\",\"state\":\"DONE\"}}\n\n")
	}))
	defer srv.Close()

	var states []StateEvent
	res, ok, err := NewClient(srv.URL, "", "", nil).ChatStream(context.Background(), ChatRequest{Query: "news"}, func(st StateEvent) {
		states = append(states, st)
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Search failed", res.Response)
	require.Len(t, states, 2)
	assert.Equal(t, "EXECUTING", states[1].To)
	assert.Equal(t, "web_search", states[1].Detail)
}

func TestClientStreamWithoutResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "event:state\ndata:{\"to\":\"ENRICHING\"}\n\n")
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "", "", nil).ChatStream(context.Background(), ChatRequest{Query: "x"}, nil)
	assert.ErrorContains(t, err, "without a result")
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"code":100401,"message":"session not found"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", "", nil).DeleteSession(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100401")
	assert.Contains(t, err.Error(), "session not found")
}

func TestNewClientAddsScheme(t *testing.T) {
	c := NewClient("localhost:11789/", "", "", nil)
	assert.Equal(t, "http://localhost:11789", c.BaseURL)
}

func TestToolsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tools/category/calendar", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":{"tools":[{"name":"get_calendar_events","category":"calendar","description":"List events"}],"count":1}}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := NewHeraldCtlCommand(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"tools", "--server", srv.URL, "--category", "calendar"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "get_calendar_events")
	assert.Contains(t, out.String(), "1 tools")
}
