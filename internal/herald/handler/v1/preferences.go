package v1

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/preferences/pkg/errno"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
)

// PreferencesHandler serves GET and PUT /v1/preferences for the caller.
type PreferencesHandler struct {
	svc service.PreferencesService
}

func NewPreferencesHandler(svc service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{svc: svc}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.svc.GetPreferences(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, errno.ErrPreferencesNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrPreferencesNotFound, "get preferences"), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrPreferencesGet, "get preferences"), nil)
		return
	}
	core.WriteResponse(c, nil, okData(prefs))
}

func (h *PreferencesHandler) Put(c *gin.Context) {
	var prefs entity.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind preferences"), nil)
		return
	}
	saved, err := h.svc.UpdatePreferences(c.Request.Context(), middleware.UserID(c), &prefs)
	if err != nil {
		if errors.Is(err, errno.ErrInvalidPreferences) {
			core.WriteResponse(c, errorx.WrapC(err, ErrPreferencesInvalid, "update preferences"), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrPreferencesUpdate, "update preferences"), nil)
		return
	}
	core.WriteResponse(c, nil, okData(saved))
}
