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

type PhotoService interface {
	Gallery(ctx context.Context, eventID string) (domain.PhotoGallery, error)
	Add(ctx context.Context, eventID string, p *domain.Principal, photo domain.Photo) (domain.Photo, error)
	Delete(ctx context.Context, id string, p *domain.Principal) error
}

type PhotoHandler struct {
	svc PhotoService
}

func NewPhotoHandler(svc PhotoService) *PhotoHandler {
	return &PhotoHandler{
		svc: svc,
	}
}

// HandleGetGallery godoc
// @Summary      Event photos
// @Tags         photos
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.PhotoGallery
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/photos [get]
func (h *PhotoHandler) HandleGetGallery(ctx *gin.Context) {
	gallery, err := h.svc.Gallery(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetGallery -> h.svc.Gallery", err)
		return
	}

	ctx.JSON(http.StatusOK, gallery)
}

// HandleAddPhoto godoc
// @Summary      Add a photo
// @Description  Records a photo already uploaded to storage. Attendees and the creator may add photos.
// @Tags         photos
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                   true  "Event ID"
// @Param        request  body      request.AddPhotoRequest  true  "Photo"
// @Success      201      {object}  domain.Photo
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/photos [post]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *PhotoHandler) HandleAddPhoto(ctx *gin.Context) {
	var req request.AddPhotoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	photo, err := h.svc.Add(ctx.Request.Context(), ctx.Param("eventID"), middleware.Principal(ctx), req.ToPhoto())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAddPhoto -> h.svc.Add", err)
		return
	}

	ctx.JSON(http.StatusCreated, photo)
}

// HandleDeletePhoto godoc
// @Summary      Delete a photo
// @Description  The uploader or an admin may delete a photo. Deleting an unknown photo succeeds.
// @Tags         photos
// @Param        photoID  path  string  true  "Photo ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /photos/{photoID} [delete]
// @Security     ClientPrincipal
// @Security     BearerAuth
func (h *PhotoHandler) HandleDeletePhoto(ctx *gin.Context) {
	if err := h.svc.Delete(ctx.Request.Context(), ctx.Param("photoID"), middleware.Principal(ctx)); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePhoto -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
