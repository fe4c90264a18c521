package upload

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/frostwarlord/portal/core"
)

type Upload struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	FileURL      string    `json:"file_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	UploadedBy   string    `json:"uploaded_by"`
	UploadType   string    `json:"upload_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewUpload contains the metadata of an externally hosted media file.
type NewUpload struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	FileURL      string `json:"file_url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	UploadType   string `json:"upload_type" validate:"required"`
	SizeBytes    int64  `json:"size_bytes" validate:"required,min=1"`
}

func (nu *NewUpload) Validate(validate *validator.Validate) error {
	nu.Title = core.CleanString(nu.Title)
	nu.Description = core.CleanString(nu.Description)
	nu.FileURL = core.CleanString(nu.FileURL)
	nu.ThumbnailURL = core.CleanString(nu.ThumbnailURL)
	nu.UploadType = core.CleanString(nu.UploadType, true /* lower */)
	return validate.Struct(nu)
}
