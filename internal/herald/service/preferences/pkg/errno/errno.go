package errno

import (
	"errors"
)

var (
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrInvalidPreferences  = errors.New("invalid preferences")
)
