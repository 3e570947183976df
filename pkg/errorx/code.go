package errorx

import (
	"fmt"
	"net/http"
	"sync"
)

// Coder describes a registered error code.
type Coder interface {
	// Code returns the business error code.
	Code() int
	// HTTPStatus returns the HTTP status that should be used for the code.
	HTTPStatus() int
	// String returns the external (user facing) error text.
	String() string
	// Reference returns the detail documentation link for the code.
	Reference() string
}

// ErrUnknown is used when an error carries no registered code.
const ErrUnknown = 1

type defaultCoder struct {
	code int
	http int
	ext  string
	ref  string
}

func (c defaultCoder) Code() int         { return c.code }
func (c defaultCoder) HTTPStatus() int   { return c.http }
func (c defaultCoder) String() string    { return c.ext }
func (c defaultCoder) Reference() string { return c.ref }

var (
	codes   = map[int]Coder{}
	codeMux sync.RWMutex

	unknownCoder Coder = defaultCoder{
		code: ErrUnknown,
		http: http.StatusInternalServerError,
		ext:  "An internal server error occurred",
	}
)

// Register registers a coder, overriding an existing one with the same code.
func Register(coder Coder) {
	if coder.Code() == ErrUnknown {
		panic("code 1 is reserved for unknown errors")
	}
	codeMux.Lock()
	defer codeMux.Unlock()
	codes[coder.Code()] = coder
}

// MustRegister registers a coder and panics if the code is already taken.
func MustRegister(coder Coder) {
	if coder.Code() == ErrUnknown {
		panic("code 1 is reserved for unknown errors")
	}
	codeMux.Lock()
	defer codeMux.Unlock()
	if _, ok := codes[coder.Code()]; ok {
		panic(fmt.Sprintf("code %d already registered", coder.Code()))
	}
	codes[coder.Code()] = coder
}

// ParseCoder returns the coder attached to err, or the unknown coder.
func ParseCoder(err error) Coder {
	if err == nil {
		return nil
	}
	if v, ok := err.(*withCode); ok {
		codeMux.RLock()
		defer codeMux.RUnlock()
		if coder, ok := codes[v.code]; ok {
			return coder
		}
	}
	return unknownCoder
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code int) bool {
	for err != nil {
		if v, ok := err.(*withCode); ok {
			if v.code == code {
				return true
			}
			err = v.cause
			continue
		}
		return false
	}
	return false
}
