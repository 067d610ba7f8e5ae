package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/request"
	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/api/middleware"
	"github.com/campusconnect/campus-api/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, p *domain.Principal, user domain.User) (domain.User, error)
	Get(ctx context.Context, id string, p *domain.Principal) (domain.User, error)
	GetByEmail(ctx context.Context, email string, p *domain.Principal) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetPrincipal godoc
// @Summary      Current principal
// @Description  Returns the identity the request was authenticated with
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.Principal
// @Failure      401  {object}  response.Err
// @Router       /users/me [get]
// @Router       /getUser [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *UserHandler) HandleGetPrincipal(ctx *gin.Context) {
	p := middleware.Principal(ctx)
	if !p.IsAuthenticated() {
		response.RenderErr(ctx, response.ErrUnauthorized(nil))
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Description  Creates a user and e-mails them a temporary password. Admin only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateUserRequest  true  "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users [post]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Create(ctx.Request.Context(), middleware.Principal(ctx), req.ToUser())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateUser -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleGetUser godoc
// @Summary      Get a user
// @Description  Users may read their own record; admins may read any
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  domain.User
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	user, err := h.svc.Get(ctx.Request.Context(), ctx.Param("userID"), middleware.Principal(ctx))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetUser -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetUserByEmail godoc
// @Summary      Find a user by e-mail
// @Description  Users may look up their own address; admins may look up any
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "E-mail address"
// @Success      200    {object}  domain.User
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /users/email/{email} [get]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *UserHandler) HandleGetUserByEmail(ctx *gin.Context) {
	user, err := h.svc.GetByEmail(ctx.Request.Context(), ctx.Param("email"), middleware.Principal(ctx))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetUserByEmail -> h.svc.GetByEmail", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}
