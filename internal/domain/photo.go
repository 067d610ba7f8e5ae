package domain

import "time"

type PhotoMetadata struct {
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}

type Photo struct {
	ID           string         `json:"id"`
	EventID      string         `json:"eventId"`
	UserID       string         `json:"userId"`
	UserName     string         `json:"userName"`
	FileName     string         `json:"fileName"`
	FileURL      string         `json:"fileUrl"`
	ThumbnailURL string         `json:"thumbnailUrl,omitempty"`
	Caption      string         `json:"caption"`
	UploadedAt   time.Time      `json:"uploadedAt"`
	Metadata     *PhotoMetadata `json:"metadata,omitempty"`
}

type PhotoGallery struct {
	EventID    string  `json:"eventId"`
	Photos     []Photo `json:"photos"`
	TotalCount int     `json:"totalCount"`
}
