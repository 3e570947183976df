package v1

import (
	"context"
	"io"
	"strings"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator"
	orchEntity "github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/utils/json"
)

// QueryProcessor runs one query through the pipeline.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, req orchestrator.Request) *orchEntity.AIResponse
}

var _ QueryProcessor = (*orchestrator.Pipeline)(nil)

// ChatHandler serves POST /v1/chat and POST /v1/query.
type ChatHandler struct {
	pipeline QueryProcessor
}

func NewChatHandler(pipeline QueryProcessor) *ChatHandler {
	return &ChatHandler{pipeline: pipeline}
}

// Chat handles POST /v1/chat. With stream=true the reply is a series of SSE
// "state" events followed by one "result" event.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind chat request"), nil)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		core.WriteResponse(c, errorx.WithCode(ErrQueryEmpty, "query is required"), nil)
		return
	}

	preq := orchestrator.Request{
		UserID:    middleware.UserID(c),
		Query:     query,
		SessionID: req.SessionID,
		Timezone:  req.Timezone,
	}
	if req.Preferences != nil {
		preq.Preferences = *req.Preferences
	}

	if req.Stream {
		h.stream(c, preq)
		return
	}

	resp := h.pipeline.ProcessQuery(c.Request.Context(), preq)
	core.WriteResponse(c, nil, ChatResponse{Success: resp.Success, Data: chatData(query, resp)})
}

// Query handles POST /v1/query and returns the full pipeline response,
// raw tool data included.
func (h *ChatHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind query request"), nil)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		core.WriteResponse(c, errorx.WithCode(ErrQueryEmpty, "query is required"), nil)
		return
	}

	resp := h.pipeline.ProcessQuery(c.Request.Context(), orchestrator.Request{
		UserID:      middleware.UserID(c),
		Query:       req.Query,
		SessionID:   req.SessionID,
		Timezone:    req.Timezone,
		Preferences: req.Preferences,
	})
	core.WriteResponse(c, nil, resp)
}

func (h *ChatHandler) stream(c *gin.Context, req orchestrator.Request) {
	events := make(chan orchEntity.Transition, 16)
	req.Observer = func(t orchEntity.Transition) {
		select {
		case events <- t:
		default:
			logger.Warn("[Chat] dropped state event %s -> %s", t.From, t.To)
		}
	}

	done := make(chan *orchEntity.AIResponse, 1)
	go func() {
		done <- h.pipeline.ProcessQuery(c.Request.Context(), req)
	}()

	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case t := <-events:
			writeState(w, t)
			return true
		case resp := <-done:
			// Observers run before ProcessQuery returns, so every
			// transition is already buffered.
		drain:
			for {
				select {
				case t := <-events:
					writeState(w, t)
				default:
					break drain
				}
			}
			writeEvent(w, "result", ChatResponse{Success: resp.Success, Data: chatData(req.Query, resp)})
			return false
		}
	})
}

func writeState(w io.Writer, t orchEntity.Transition) {
	writeEvent(w, "state", StateEvent{
		From:   string(t.From),
		To:     string(t.To),
		Detail: t.Detail,
		At:     FormatTime(t.At),
	})
}

func writeEvent(w io.Writer, name string, payload any) {
	data, err := json.MarshalString(payload)
	if err != nil {
		logger.Warn("[Chat] marshal %s event: %v", name, err)
		return
	}
	if err := sse.Encode(w, sse.Event{Event: name, Data: data}); err != nil {
		logger.Warn("[Chat] write %s event: %v", name, err)
	}
}

func chatData(query string, resp *orchEntity.AIResponse) *ChatData {
	return &ChatData{
		Query:            query,
		Response:         resp.NaturalResponse,
		OriginalResponse: resp.OriginalResponse,
		ToolUsed:         resp.ToolUsed,
		Reasoning:        resp.Reasoning,
		ChainedTools:     resp.ChainedTools,
		SessionID:        resp.SessionID,
		SuggestedActions: resp.SuggestedActions,
		State:            string(resp.State),
	}
}
