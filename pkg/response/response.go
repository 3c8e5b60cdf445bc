package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope keys shared by every response body.
const (
	KeyOK        = "ok"
	KeyMessage   = "message"
	KeyErrors    = "errors"
	KeyRequestID = "request_id"
)

// Body builds the uniform envelope: {ok, request_id, message?, ...payload}.
// Payload keys are flattened next to ok; envelope keys win on collision.
func Body(c *gin.Context, ok bool, message string, payload gin.H) gin.H {
	out := make(gin.H, len(payload)+3)
	for k, v := range payload {
		out[k] = v
	}
	out[KeyOK] = ok
	if rid := c.GetString("request_id"); rid != "" {
		out[KeyRequestID] = rid
	}
	if message != "" {
		out[KeyMessage] = message
	}
	return out
}

// Success writes {ok: true, ...payload}.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Body(c, true, message, payload))
}

// Error writes {ok: false, message, errors?}.
func Error(c *gin.Context, status int, message string, errs interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, errorBody(c, message, errs))
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, message string, errs interface{}) {
	c.AbortWithStatusJSON(status, errorBody(c, message, errs))
}

func errorBody(c *gin.Context, message string, errs interface{}) gin.H {
	var payload gin.H
	if errs != nil {
		payload = gin.H{KeyErrors: errs}
	}
	return Body(c, false, message, payload)
}
