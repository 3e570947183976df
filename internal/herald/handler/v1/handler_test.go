package v1

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator"
	orchEntity "github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	prefService "github.com/kiosk404/herald/internal/herald/service/preferences/domain/service"
	prefInmemory "github.com/kiosk404/herald/internal/herald/service/preferences/store/inmemory"
	sessService "github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	sessInmemory "github.com/kiosk404/herald/internal/herald/service/sessions/store/inmemory"
	speechEntity "github.com/kiosk404/herald/internal/herald/service/speech/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/disabled"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	wsInmemory "github.com/kiosk404/herald/internal/herald/service/workspace/store/inmemory"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePipeline records requests and replays transitions to the observer.
type fakePipeline struct {
	mu       sync.Mutex
	requests []orchestrator.Request
	resp     *orchEntity.AIResponse
	states   []orchEntity.State
}

func (f *fakePipeline) ProcessQuery(_ context.Context, req orchestrator.Request) *orchEntity.AIResponse {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	prev := orchEntity.StateReceived
	for _, s := range f.states {
		if req.Observer != nil {
			req.Observer(orchEntity.Transition{From: prev, To: s})
		}
		prev = s
	}
	out := *f.resp
	return &out
}

func (f *fakePipeline) last() orchestrator.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeSpeech struct {
	transcript string
	sttErr     string
	gotAudio   []byte
	gotMime    string
	spoken     string
}

func (f *fakeSpeech) Name() string { return "fake" }

func (f *fakeSpeech) SpeechToText(_ context.Context, audio []byte, mime string) *speechEntity.Transcription {
	f.gotAudio, f.gotMime = audio, mime
	if f.sttErr != "" {
		return &speechEntity.Transcription{Error: f.sttErr}
	}
	return &speechEntity.Transcription{Success: true, Text: f.transcript}
}

func (f *fakeSpeech) TextToSpeech(_ context.Context, text string) *speechEntity.Synthesis {
	f.spoken = text
	return &speechEntity.Synthesis{Success: true, AudioData: []byte("RIFFdata"), MimeType: "audio/wav"}
}

// streamRecorder adds the CloseNotifier gin needs for streaming.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

type testServer struct {
	engine   *gin.Engine
	pipeline *fakePipeline
	registry *service.Registry
}

func newTestServer(t *testing.T, speech spi.Provider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fp := &fakePipeline{resp: &orchEntity.AIResponse{
		Success:          true,
		ToolUsed:         builtin.GetCalendarEvents,
		NaturalResponse:  "You have 2 events today.",
		OriginalResponse: "You have **2** events today.",
		RawData:          map[string]any{"count": 2},
		SessionID:        "s-1",
		State:            orchEntity.StateDone,
	}}
	registry := service.NewRegistry()
	builtin.Register(registry, builtin.Deps{Workspace: wsInmemory.NewWorkspaceStore()})
	if speech == nil {
		speech = disabled.New()
	}

	chat := NewChatHandler(fp)
	tools := NewToolHandler(registry)
	sessions := NewSessionHandler(sessService.NewSessionService(sessInmemory.NewSessionStore()))
	prefs := NewPreferencesHandler(prefService.NewPreferencesService(prefInmemory.NewPreferencesStore()))
	sp := NewSpeechHandler(speech, fp, 1<<20)

	g := gin.New()
	g.Use(middleware.Identity("default"))
	api := g.Group("/v1")
	api.POST("/chat", chat.Chat)
	api.POST("/query", chat.Query)
	api.POST("/speech", sp.Handle)
	api.GET("/tools", tools.List)
	api.GET("/tools/search", tools.Search)
	api.GET("/tools/category/:category", tools.ByCategory)
	api.GET("/tools/:name", tools.Get)
	api.POST("/sessions", sessions.Create)
	api.GET("/sessions", sessions.List)
	api.GET("/sessions/:id", sessions.Get)
	api.DELETE("/sessions/:id", sessions.Delete)
	api.GET("/preferences", prefs.Get)
	api.PUT("/preferences", prefs.Put)

	return &testServer{engine: g, pipeline: fp, registry: registry}
}

func (s *testServer) do(method, path, user, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		r.Header.Set(middleware.UserIDHeader, user)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func TestChat(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/chat", "alice",
		`{"query":" What's on my calendar today? ","sessionId":"s-1","preferences":{"includeActions":true}}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ChatResponse](t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "What's on my calendar today?", resp.Data.Query)
	assert.Equal(t, "You have 2 events today.", resp.Data.Response)
	assert.Equal(t, builtin.GetCalendarEvents, resp.Data.ToolUsed)
	assert.Equal(t, "s-1", resp.Data.SessionID)
	assert.Equal(t, "DONE", resp.Data.State)
	assert.NotContains(t, w.Body.String(), "rawData")

	req := s.pipeline.last()
	assert.Equal(t, "alice", req.UserID)
	assert.Equal(t, "s-1", req.SessionID)
	assert.True(t, req.Preferences.IncludeActions)
}

func TestChatRejectsEmptyQuery(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/chat", "", `{"query":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[core.ErrResponse](t, w)
	assert.Equal(t, ErrQueryEmpty, resp.Code)
	assert.False(t, resp.Success)

	w = s.do(http.MethodPost, "/v1/chat", "", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrBind, decode[core.ErrResponse](t, w).Code)
}

func TestChatStream(t *testing.T) {
	s := newTestServer(t, nil)
	s.pipeline.states = []orchEntity.State{
		orchEntity.StateEnriching, orchEntity.StateSelecting, orchEntity.StateExecuting,
		orchEntity.StateChainCheck, orchEntity.StateGenerating, orchEntity.StateDone,
	}

	r := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"query":"calendar today","stream":true}`))
	r.Header.Set("Content-Type", "application/json")
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	s.engine.ServeHTTP(w, r)

	body := w.Body.String()
	assert.Equal(t, sse.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, 6, strings.Count(body, "event:state"))
	assert.Equal(t, 1, strings.Count(body, "event:result"))
	assert.Less(t, strings.LastIndex(body, "event:state"), strings.Index(body, "event:result"))
	assert.Contains(t, body, `"to":"EXECUTING"`)
	assert.Contains(t, body, "You have 2 events today.")
}

func TestQueryIncludesRawData(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/query", "bob", `{"query":"calendar","preferences":{"isVoiceMode":true}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success         bool           `json:"success"`
		RawData         map[string]any `json:"rawData"`
		NaturalResponse string         `json:"naturalResponse"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.EqualValues(t, 2, resp.RawData["count"])
	assert.True(t, s.pipeline.last().Preferences.IsVoiceMode)
	assert.Equal(t, "bob", s.pipeline.last().UserID)
}

func TestToolDiscovery(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/v1/tools", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[envelope[toolList]](t, w)
	assert.Equal(t, s.registry.Len(), all.Data.Count)
	assert.Contains(t, all.Data.Categories, toolEntity.CategoryCalendar)

	w = s.do(http.MethodGet, "/v1/tools/"+builtin.GetCalendarEvents, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	one := decode[envelope[toolEntity.ToolMetadata]](t, w)
	assert.Equal(t, builtin.GetCalendarEvents, one.Data.Name)

	w = s.do(http.MethodGet, "/v1/tools/teleport", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrToolNotFound, decode[core.ErrResponse](t, w).Code)

	w = s.do(http.MethodGet, "/v1/tools/category/Calendar", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[envelope[toolList]](t, w)
	require.NotZero(t, cal.Data.Count)
	for _, m := range cal.Data.Tools {
		assert.Equal(t, toolEntity.CategoryCalendar, m.Category)
	}

	w = s.do(http.MethodGet, "/v1/tools/category/astrology", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/tools/search?q=email", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, decode[envelope[toolList]](t, w).Data.Count)

	w = s.do(http.MethodGet, "/v1/tools/search", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/sessions", "alice", `{"title":"Trip planning"}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[envelope[SessionResponse]](t, w).Data
	assert.Equal(t, "Trip planning", created.Title)
	assert.Equal(t, "alice", created.UserID)

	w = s.do(http.MethodGet, "/v1/sessions", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[envelope[[]SessionResponse]](t, w).Data, 1)

	w = s.do(http.MethodGet, "/v1/sessions", "bob", "")
	assert.Empty(t, decode[envelope[[]SessionResponse]](t, w).Data)

	w = s.do(http.MethodGet, "/v1/sessions/"+created.ID, "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[envelope[SessionDetailResponse]](t, w).Data
	assert.Equal(t, created.ID, detail.ID)
	assert.Empty(t, detail.Messages)

	// Another user's session looks missing.
	w = s.do(http.MethodGet, "/v1/sessions/"+created.ID, "bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrSessionNotFound, decode[core.ErrResponse](t, w).Code)
	w = s.do(http.MethodDelete, "/v1/sessions/"+created.ID, "bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/v1/sessions/"+created.ID, "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/v1/sessions/"+created.ID, "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionWithoutBody(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/v1/sessions", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New conversation", decode[envelope[SessionResponse]](t, w).Data.Title)
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/v1/preferences", "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrPreferencesNotFound, decode[core.ErrResponse](t, w).Code)

	w = s.do(http.MethodPut, "/v1/preferences", "alice",
		`{"communicationStyle":{"tone":"Casual","detailLevel":"brief"},"interests":["fusion"],"timezone":"UTC"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/preferences", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got envelope[struct {
		UserID             string `json:"userId"`
		CommunicationStyle struct {
			Tone string `json:"tone"`
		} `json:"communicationStyle"`
		Timezone string `json:"timezone"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Data.UserID)
	assert.Equal(t, "casual", got.Data.CommunicationStyle.Tone)
	assert.Equal(t, "UTC", got.Data.Timezone)

	w = s.do(http.MethodPut, "/v1/preferences", "alice", `{"communicationStyle":{"tone":"sarcastic"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrPreferencesInvalid, decode[core.ErrResponse](t, w).Code)
}

func speechRequest(t *testing.T, audio []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if audio != nil {
		part, err := mw.CreateFormFile("audio", "clip.webm")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/speech", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set(middleware.UserIDHeader, "alice")
	return r
}

func TestSpeechRoundTrip(t *testing.T) {
	sp := &fakeSpeech{transcript: "what's on my calendar today"}
	s := newTestServer(t, sp)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, speechRequest(t, []byte("opus-bytes"), map[string]string{"sessionId": "s-1"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SpeechResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "what's on my calendar today", resp.Data.Transcript)
	assert.Equal(t, "You have 2 events today.", resp.Data.Response)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFFdata")), resp.Data.Audio)
	assert.Equal(t, "audio/wav", resp.Data.MimeType)

	assert.Equal(t, []byte("opus-bytes"), sp.gotAudio)
	assert.Equal(t, defaultAudioMime, sp.gotMime)
	assert.Equal(t, "You have 2 events today.", sp.spoken)

	req := s.pipeline.last()
	assert.Equal(t, "s-1", req.SessionID)
	assert.True(t, req.Preferences.IsVoiceMode)
	assert.True(t, req.Preferences.CleanForSpeech)
	assert.True(t, req.Preferences.IsVoiceQuery)
}

func TestSpeechFailures(t *testing.T) {
	t.Run("missing audio", func(t *testing.T) {
		s := newTestServer(t, &fakeSpeech{transcript: "hi"})
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, speechRequest(t, nil, map[string]string{"sessionId": "s-1"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrAudioMissing, decode[core.ErrResponse](t, w).Code)
	})

	t.Run("speech disabled", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, speechRequest(t, []byte("x"), nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, ErrTranscription, decode[core.ErrResponse](t, w).Code)
		assert.Empty(t, s.pipeline.requests)
	})

	t.Run("silence", func(t *testing.T) {
		s := newTestServer(t, &fakeSpeech{transcript: "  "})
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, speechRequest(t, []byte("x"), nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
