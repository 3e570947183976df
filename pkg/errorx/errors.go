package errorx

import (
	"fmt"
)

type withCode struct {
	err   error
	code  int
	cause error
}

// WithCode creates a coded error from a format string.
func WithCode(code int, format string, args ...interface{}) error {
	return &withCode{
		err:  fmt.Errorf(format, args...),
		code: code,
	}
}

// WrapC wraps err with a code and an annotation. A nil err yields nil.
func WrapC(err error, code int, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &withCode{
		err:   fmt.Errorf(format, args...),
		code:  code,
		cause: err,
	}
}

func (w *withCode) Error() string {
	if w.cause == nil {
		return w.err.Error()
	}
	return fmt.Sprintf("%s: %s", w.err.Error(), w.cause.Error())
}

func (w *withCode) Unwrap() error { return w.cause }

// Code returns the raw code stored on the error.
func (w *withCode) Code() int { return w.code }
