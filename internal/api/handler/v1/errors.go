package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/service"
)

// renderServiceErr maps workflow errors to HTTP responses. op names the failing call for
// the server log.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		response.RenderErr(ctx, response.ErrUnauthorized(err))
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("eventID")))
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound("user", "id", ctx.Param("userID")))
	case errors.Is(err, service.ErrNotRegistered):
		response.RenderErr(ctx, response.ErrNotFound("registration", "eventId", ctx.Param("eventID")))
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.RenderErr(ctx, response.ErrConflict("ALREADY_REGISTERED", service.ErrAlreadyRegistered))
	case errors.Is(err, service.ErrEventFull):
		response.RenderErr(ctx, response.ErrConflict("AT_CAPACITY", service.ErrEventFull))
	case errors.Is(err, service.ErrCapacityBelowAttendees):
		response.RenderErr(ctx, response.ErrConflict("CAPACITY_BELOW_ATTENDEES", service.ErrCapacityBelowAttendees))
	case errors.Is(err, service.ErrUserEmailExists):
		response.RenderErr(ctx, response.ErrConflict("EMAIL_EXISTS", service.ErrUserEmailExists))
	case errors.Is(err, service.ErrMissingFields):
		response.RenderErr(ctx, response.ErrMissingFields(err))
	case errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrInvalidChatMessage),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrInvalidRole):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
