package v1

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/sessions/pkg/errno"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
)

// SessionHandler handles Session management REST API endpoints.
type SessionHandler struct {
	svc service.SessionService
}

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Create handles POST /v1/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind session request"), nil)
			return
		}
	}
	session, err := h.svc.CreateSession(c.Request.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionCreate, "create session"), nil)
		return
	}
	core.WriteResponse(c, nil, okData(toSessionResponse(session)))
}

// List handles GET /v1/sessions.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.svc.ListSessions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionList, "list sessions"), nil)
		return
	}
	resp := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, toSessionResponse(s))
	}
	core.WriteResponse(c, nil, okData(resp))
}

// Get handles GET /v1/sessions/:id and includes the full history.
func (h *SessionHandler) Get(c *gin.Context) {
	ctx, id, uid := c.Request.Context(), c.Param("id"), middleware.UserID(c)

	session, err := h.svc.GetSession(ctx, uid, id)
	if err != nil {
		core.WriteResponse(c, sessionError(err, ErrSessionNotFound, id), nil)
		return
	}
	msgs, err := h.svc.RecentMessages(ctx, uid, id, 0)
	if err != nil {
		core.WriteResponse(c, sessionError(err, ErrSessionMessages, id), nil)
		return
	}
	calls, err := h.svc.RecentToolCalls(ctx, uid, id, 0)
	if err != nil {
		core.WriteResponse(c, sessionError(err, ErrSessionMessages, id), nil)
		return
	}

	detail := SessionDetailResponse{
		SessionResponse: toSessionResponse(session),
		Messages:        make([]MessageResponse, 0, len(msgs)),
		ToolCalls:       make([]ToolCallResponse, 0, len(calls)),
	}
	for _, m := range msgs {
		detail.Messages = append(detail.Messages, MessageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			Metadata:  m.Metadata,
			CreatedAt: FormatTime(m.CreatedAt),
		})
	}
	for _, tc := range calls {
		detail.ToolCalls = append(detail.ToolCalls, ToolCallResponse{
			Tool:       tc.Tool,
			Parameters: tc.Parameters,
			Success:    tc.Success,
			Error:      tc.Error,
			Chained:    tc.Chained,
			CreatedAt:  FormatTime(tc.CreatedAt),
		})
	}
	core.WriteResponse(c, nil, okData(detail))
}

// Delete handles DELETE /v1/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteSession(c.Request.Context(), middleware.UserID(c), id); err != nil {
		core.WriteResponse(c, sessionError(err, ErrSessionDelete, id), nil)
		return
	}
	core.WriteResponse(c, nil, okData(gin.H{"id": id, "deleted": true}))
}

// sessionError reports foreign sessions as missing.
func sessionError(err error, code int, id string) error {
	if errors.Is(err, errno.ErrSessionNotFound) || errors.Is(err, errno.ErrNotOwner) {
		return errorx.WrapC(err, ErrSessionNotFound, "session %q", id)
	}
	return errorx.WrapC(err, code, "session %q", id)
}

func toSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		UserID:    s.UserID,
		CreatedAt: FormatTime(s.CreatedAt),
		UpdatedAt: FormatTime(s.UpdatedAt),
	}
}
