package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/request"
	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/api/middleware"
	"github.com/campusconnect/campus-api/internal/domain"
)

type ChatService interface {
	Messages(ctx context.Context, eventID string, p *domain.Principal, limit, offset int) ([]domain.ChatMessage, error)
	Post(ctx context.Context, eventID string, p *domain.Principal, text string) (domain.ChatMessage, error)
	Status(ctx context.Context, eventID string) (domain.ChatStatus, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{
		svc: svc,
	}
}

// HandleGetMessages godoc
// @Summary      Read the event chat
// @Description  Pages through the chat of an event, oldest first
// @Tags         chat
// @Produce      json
// @Param        eventID  path      string  true   "Event ID"
// @Param        limit    query     int     false  "Page size (default 50, max 200)"
// @Param        offset   query     int     false  "Messages to skip"
// @Success      200      {array}   domain.ChatMessage
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/chat [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *ChatHandler) HandleGetMessages(ctx *gin.Context) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	offset, err := queryInt(ctx, "offset")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	messages, err := h.svc.Messages(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx), limit, offset)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetMessages -> h.svc.Messages", err)
		return
	}

	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandlePostMessage godoc
// @Summary      Post to the event chat
// @Description  Attendees and the creator may post
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                          true  "Event ID"
// @Param        request  body      request.PostChatMessageRequest  true  "Message"
// @Success      201      {object}  domain.ChatMessage
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/chat [post]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *ChatHandler) HandlePostMessage(ctx *gin.Context) {
	var req request.PostChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	msg, err := h.svc.Post(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx), req.Message)
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePostMessage -> h.svc.Post", err)
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// HandleGetStatus godoc
// @Summary      Chat status
// @Description  The chat is active from the event start until two hours later
// @Tags         chat
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.ChatStatus
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/chat/status [get]
func (h *ChatHandler) HandleGetStatus(ctx *gin.Context) {
	status, err := h.svc.Status(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetStatus -> h.svc.Status", err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

func queryInt(ctx *gin.Context, key string) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}
