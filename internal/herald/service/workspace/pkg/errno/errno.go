package errno

import (
	"errors"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrMissingUser      = errors.New("record has no user id")
)
