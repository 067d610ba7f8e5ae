package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/request"
	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/api/middleware"
	"github.com/campusconnect/campus-api/internal/domain"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID string, p *domain.Principal, answers map[string]any) (domain.Registration, error)
	Unregister(ctx context.Context, eventID string, p *domain.Principal) error
	Status(ctx context.Context, eventID string, p *domain.Principal) (domain.RegistrationStatus, error)
	Attendees(ctx context.Context, eventID string, p *domain.Principal) ([]domain.Attendee, error)
	ListByUser(ctx context.Context, userID string, p *domain.Principal) ([]domain.Registration, error)
}

type RegistrationHandler struct {
	svc RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Registers the caller. The body is optional and carries answers to the event's custom fields.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                   true   "Event ID"
// @Param        request  body      request.RegisterRequest  false  "Custom field answers"
// @Success      201      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reg, err := h.svc.Register(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx), req.RegistrationData)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

// HandleUnregister godoc
// @Summary      Cancel a registration
// @Tags         registrations
// @Param        eventID  path  string  true  "Event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/register [delete]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *RegistrationHandler) HandleUnregister(ctx *gin.Context) {
	if err := h.svc.Unregister(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx)); err != nil {
		renderServiceErr(ctx, "v1.HandleUnregister -> h.svc.Unregister", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetRegistrationStatus godoc
// @Summary      Registration status of the caller
// @Description  Reports whether the caller is registered and, for events with a capacity, how full the event is.
// @Description  An unknown event reports isRegistered=false.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.RegistrationStatus
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registration [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetRegistrationStatus(ctx *gin.Context) {
	status, err := h.svc.Status(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetRegistrationStatus -> h.svc.Status", err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleGetAttendees godoc
// @Summary      List attendees
// @Description  Lists the registrations of an event in registration order. Only the event's creator may call it.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.Attendee
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendees [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetAttendees(ctx *gin.Context) {
	attendees, err := h.svc.Attendees(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetAttendees -> h.svc.Attendees", err)
		return
	}

	ctx.JSON(http.StatusOK, attendees)
}

// HandleListUserRegistrations godoc
// @Summary      List a user's registrations
// @Tags         registrations,users
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {array}   domain.Registration
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/registrations [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListUserRegistrations(ctx *gin.Context) {
	regs, err := h.svc.ListByUser(ctx.Request.Context(), ctx.Param("userID"), middleware.Principal(ctx))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListUserRegistrations -> h.svc.ListByUser", err)
		return
	}

	if regs == nil {
		regs = []domain.Registration{}
	}

	ctx.JSON(http.StatusOK, regs)
}
