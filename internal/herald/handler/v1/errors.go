package v1

import (
	"net/http"

	"github.com/kiosk404/herald/pkg/errorx"
)

// Herald handler error codes.
// Code format: 1XXYYZ
//   - 1:  module prefix (herald handler)
//   - XX: resource group (00=common, 01=chat, 02=speech, 03=tools, 04=session, 05=preferences, 06=mcp)
//   - YY: sequential error number
//   - Z:  reserved (0)

const (
	// Common request errors (100xxx).
	ErrBind       = 100001
	ErrValidation = 100002

	// Chat and query errors (1001xx).
	ErrQueryEmpty = 100101

	// Speech errors (1002xx).
	ErrAudioMissing    = 100201
	ErrAudioTooLarge   = 100202
	ErrAudioRead       = 100203
	ErrTranscription   = 100204
	ErrEmptyTranscript = 100205

	// Tool discovery errors (1003xx).
	ErrToolNotFound    = 100301
	ErrUnknownCategory = 100302
	ErrSearchEmpty     = 100303

	// Session errors (1004xx).
	ErrSessionNotFound = 100401
	ErrSessionList     = 100402
	ErrSessionCreate   = 100403
	ErrSessionDelete   = 100404
	ErrSessionMessages = 100405

	// Preferences errors (1005xx).
	ErrPreferencesNotFound = 100501
	ErrPreferencesInvalid  = 100502
	ErrPreferencesGet      = 100503
	ErrPreferencesUpdate   = 100504

	// MCP errors (1006xx).
	ErrMCPReconnect = 100601
)

func init() {
	// Common.
	errorx.MustRegister(newCoder(ErrBind, http.StatusBadRequest, "Request body binding failed"))
	errorx.MustRegister(newCoder(ErrValidation, http.StatusBadRequest, "Request validation failed"))

	// Chat and query.
	errorx.MustRegister(newCoder(ErrQueryEmpty, http.StatusBadRequest, "Query is required"))

	// Speech.
	errorx.MustRegister(newCoder(ErrAudioMissing, http.StatusBadRequest, "An audio file is required"))
	errorx.MustRegister(newCoder(ErrAudioTooLarge, http.StatusRequestEntityTooLarge, "Audio file is too large"))
	errorx.MustRegister(newCoder(ErrAudioRead, http.StatusBadRequest, "Audio file could not be read"))
	errorx.MustRegister(newCoder(ErrTranscription, http.StatusBadGateway, "Speech transcription failed"))
	errorx.MustRegister(newCoder(ErrEmptyTranscript, http.StatusUnprocessableEntity, "No speech was recognized in the audio"))

	// Tools.
	errorx.MustRegister(newCoder(ErrToolNotFound, http.StatusNotFound, "Tool not found"))
	errorx.MustRegister(newCoder(ErrUnknownCategory, http.StatusBadRequest, "Unknown tool category"))
	errorx.MustRegister(newCoder(ErrSearchEmpty, http.StatusBadRequest, "Search text is required"))

	// Session.
	errorx.MustRegister(newCoder(ErrSessionNotFound, http.StatusNotFound, "Session not found"))
	errorx.MustRegister(newCoder(ErrSessionList, http.StatusInternalServerError, "Failed to list sessions"))
	errorx.MustRegister(newCoder(ErrSessionCreate, http.StatusInternalServerError, "Failed to create session"))
	errorx.MustRegister(newCoder(ErrSessionDelete, http.StatusInternalServerError, "Failed to delete session"))
	errorx.MustRegister(newCoder(ErrSessionMessages, http.StatusInternalServerError, "Failed to load session messages"))

	// Preferences.
	errorx.MustRegister(newCoder(ErrPreferencesNotFound, http.StatusNotFound, "No preferences stored for this user"))
	errorx.MustRegister(newCoder(ErrPreferencesInvalid, http.StatusBadRequest, "Invalid preferences"))
	errorx.MustRegister(newCoder(ErrPreferencesGet, http.StatusInternalServerError, "Failed to load preferences"))
	errorx.MustRegister(newCoder(ErrPreferencesUpdate, http.StatusInternalServerError, "Failed to save preferences"))

	// MCP.
	errorx.MustRegister(newCoder(ErrMCPReconnect, http.StatusBadGateway, "Failed to reconnect MCP server"))
}

type coder struct {
	code int
	http int
	msg  string
}

func newCoder(code, httpStatus int, msg string) *coder {
	return &coder{code: code, http: httpStatus, msg: msg}
}

func (c *coder) Code() int         { return c.code }
func (c *coder) HTTPStatus() int   { return c.http }
func (c *coder) String() string    { return c.msg }
func (c *coder) Reference() string { return "" }
