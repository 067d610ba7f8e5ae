package response

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var hideDetails atomic.Bool

// HideDetails stops internal error chains from reaching clients. Production sets it.
func HideDetails(hide bool) {
	hideDetails.Store(hide)
}

type Err struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"error"`
	Code           string `json:"code,omitempty"`
	Details        string `json:"details,omitempty"`
	Err            error  `json:"-"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Message
}

// RenderErr writes e as JSON and aborts the chain. Server errors are logged with the full
// error chain; client errors only at info level.
func RenderErr(ctx *gin.Context, e *Err) {
	fields := []zap.Field{
		zap.Int("status", e.HTTPStatusCode),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.String("requestID", requestid.Get(ctx)),
		zap.Error(e.Err),
	}

	body := *e
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Message, fields...)
		if hideDetails.Load() {
			body.Details = ""
		}
	} else {
		zap.L().Info(e.Message, fields...)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, body)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
		Code:           "BAD_REQUEST",
		Err:            err,
	}
}

func ErrMissingFields(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Missing required fields",
		Code:           "MISSING_FIELDS",
		Details:        err.Error(),
		Err:            err,
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "Authentication required",
		Code:           "UNAUTHORIZED",
		Err:            err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "Wrong email or password",
		Code:           "WRONG_CREDENTIALS",
		Err:            err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Message:        "Permission denied",
		Code:           "FORBIDDEN",
		Details:        err.Error(),
		Err:            err,
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	err := fmt.Errorf("%s with %s = %v not found", resource, field, value)

	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        capitalize(resource) + " not found",
		Code:           strings.ToUpper(resource) + "_NOT_FOUND",
		Details:        err.Error(),
		Err:            err,
	}
}

// ErrConflict reports a request that contradicts the current state. code is machine-readable.
func ErrConflict(code string, err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Message:        capitalize(err.Error()),
		Code:           code,
		Err:            err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "Internal server error",
		Code:           "INTERNAL",
		Details:        err.Error(),
		Err:            err,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
