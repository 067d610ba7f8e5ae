package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/campusconnect/campus-api/internal/domain"
)

type PhotoMetadata struct {
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}

type AddPhotoRequest struct {
	FileName     string         `json:"fileName"`
	FileURL      string         `json:"fileUrl"`
	ThumbnailURL string         `json:"thumbnailUrl,omitempty"`
	Caption      string         `json:"caption"`
	Metadata     *PhotoMetadata `json:"metadata,omitempty"`
}

func (req *AddPhotoRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.FileURL, validation.Required, is.URL),
		validation.Field(&req.ThumbnailURL, is.URL),
		validation.Field(&req.Caption, validation.RuneLength(0, 500)),
	)
}

func (req *AddPhotoRequest) ToPhoto() domain.Photo {
	photo := domain.Photo{
		FileName:     req.FileName,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		Caption:      req.Caption,
	}
	if req.Metadata != nil {
		metadata := domain.PhotoMetadata(*req.Metadata)
		photo.Metadata = &metadata
	}

	return photo
}
