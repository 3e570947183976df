package errno

import (
	"errors"
)

var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEventNotFound    = errors.New("event not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrSearchDisabled   = errors.New("web search endpoint is not configured")
)
