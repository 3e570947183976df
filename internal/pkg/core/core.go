package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/pkg/errorx"
	"github.com/kiosk404/herald/pkg/logger"
)

// ErrResponse defines the return messages when an error occurred.
// Reference will be omitted if it does not exist.
type ErrResponse struct {
	// Success is always false.
	Success bool `json:"success"`

	// Code defines the business error code.
	Code int `json:"code"`

	// Message contains the detail of this message.
	// This message is suitable to be exposed to external
	Message string `json:"message"`

	// Reference returns the reference document which maybe useful to solve this error.
	Reference string `json:"reference,omitempty"`
}

// WriteResponse writes an error or the response data into the http response body.
// It uses errorx.ParseCoder to parse any error into errorx.Coder.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		logger.Error("[Core] %s %s: %v", c.Request.Method, c.FullPath(), err)
		coder := errorx.ParseCoder(err)
		c.JSON(coder.HTTPStatus(), ErrResponse{
			Code:      coder.Code(),
			Message:   coder.String(),
			Reference: coder.Reference(),
		})

		return
	}

	c.JSON(http.StatusOK, data)
}
