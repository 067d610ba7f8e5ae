package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/request"
	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/api/middleware"
	"github.com/campusconnect/campus-api/internal/domain"
)

type EventService interface {
	Create(ctx context.Context, p *domain.Principal, draft domain.EventDraft) (domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error)
	Update(ctx context.Context, id string, p *domain.Principal, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, id string, p *domain.Principal) error
}

type EventHandler struct {
	svc             EventService
	tolerantListing bool
}

// NewEventHandler builds the event routes. With tolerantListing a failing store yields an empty
// listing instead of a 500.
func NewEventHandler(svc EventService, tolerantListing bool) *EventHandler {
	return &EventHandler{
		svc:             svc,
		tolerantListing: tolerantListing,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Lists every event, newest first
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		if h.tolerantListing {
			zap.L().Warn("event listing failed, returning empty list", zap.Error(err))
			ctx.JSON(http.StatusOK, []domain.Event{})
			return
		}

		err = fmt.Errorf("v1.HandleListEvents -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	event, err := h.svc.Get(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Creates an event owned by the caller. Only faculty may mark an event as official.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "Event details"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	p := middleware.Principal(ctx)
	if !p.IsAuthenticated() {
		response.RenderErr(ctx, response.ErrUnauthorized(nil))
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		response.RenderErr(ctx, response.ErrMissingFields(fmt.Errorf("missing: %s", strings.Join(missing, ", "))))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), p, req.ToDraft())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Merges the given fields into the event. Only the creator or an admin may update it.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        request  body      request.UpdateEventRequest  true  "Fields to change"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx), req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Deletes the event with its registrations, chat and photos. Only the creator or an admin may delete it.
// @Tags         events
// @Param        eventID  path  string  true  "Event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	if err := h.svc.Delete(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx)); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListUserEvents godoc
// @Summary      List events created by a user
// @Tags         events,users
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {array}   domain.Event
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/events [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *EventHandler) HandleListUserEvents(ctx *gin.Context) {
	events, err := h.svc.ListByCreator(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListUserEvents -> h.svc.ListByCreator", err)
		return
	}

	if events == nil {
		events = []domain.Event{}
	}

	ctx.JSON(http.StatusOK, events)
}
