package v1

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator"
	orchEntity "github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
	"github.com/kiosk404/herald/pkg/logger"
)

const defaultAudioMime = "audio/webm"

// SpeechHandler serves POST /v1/speech: transcribe, answer in voice mode,
// synthesize.
type SpeechHandler struct {
	speech   spi.Provider
	pipeline QueryProcessor
	maxBytes int64
}

func NewSpeechHandler(speech spi.Provider, pipeline QueryProcessor, maxBytes int64) *SpeechHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &SpeechHandler{speech: speech, pipeline: pipeline, maxBytes: maxBytes}
}

// Handle expects a multipart form with an "audio" file and optional
// "sessionId", "timezone" and "responseStyle" fields.
func (h *SpeechHandler) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.WriteResponse(c, errorx.WrapC(err, ErrAudioTooLarge, "audio upload"), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrAudioMissing, "read audio form field"), nil)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		core.WriteResponse(c, errorx.WithCode(ErrAudioTooLarge, "audio is %d bytes, limit %d", header.Size, h.maxBytes), nil)
		return
	}
	audio, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil || len(audio) == 0 {
		if err == nil {
			err = errors.New("empty audio file")
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrAudioRead, "read audio"), nil)
		return
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = defaultAudioMime
	}

	ctx := c.Request.Context()
	tr := h.speech.SpeechToText(ctx, audio, mime)
	if !tr.Success {
		core.WriteResponse(c, errorx.WithCode(ErrTranscription, "transcribe with %s: %s", h.speech.Name(), tr.Error), nil)
		return
	}
	transcript := strings.TrimSpace(tr.Text)
	if transcript == "" {
		core.WriteResponse(c, errorx.WithCode(ErrEmptyTranscript, "empty transcript"), nil)
		return
	}
	logger.Info("[Speech] transcribed %d bytes of %s into %d chars", len(audio), mime, len(transcript))

	resp := h.pipeline.ProcessQuery(ctx, orchestrator.Request{
		UserID:    middleware.UserID(c),
		Query:     transcript,
		SessionID: c.PostForm("sessionId"),
		Timezone:  c.PostForm("timezone"),
		Preferences: orchEntity.RequestPreferences{
			ResponseStyle:  orchEntity.ResponseStyle(c.PostForm("responseStyle")),
			IsVoiceMode:    true,
			CleanForSpeech: true,
			IsVoiceQuery:   true,
		},
	})

	data := &SpeechData{
		Transcript: transcript,
		Response:   resp.NaturalResponse,
		ToolUsed:   resp.ToolUsed,
		SessionID:  resp.SessionID,
	}
	syn := h.speech.TextToSpeech(ctx, resp.NaturalResponse)
	if syn.Success {
		data.Audio = base64.StdEncoding.EncodeToString(syn.AudioData)
		data.MimeType = syn.MimeType
	} else {
		logger.Warn("[Speech] synthesis failed, returning text only: %s", syn.Error)
		data.TTSError = syn.Error
	}

	core.WriteResponse(c, nil, SpeechResponse{Success: resp.Success, Data: data})
}
