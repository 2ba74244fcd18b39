package dtos

import (
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type CreateFileUploadRequest struct {
	MimeType string `json:"mime_type" validate:"required,oneof=image/png image/jpeg image/webp"`
	Size     int64  `json:"size" validate:"min=1,max=10485760"`
}

type VerifyFileRequest struct {
	Version int64 `json:"version" validate:"min=1"`
}

type FileResponse struct {
	ID          string     `json:"id"`
	MimeType    string     `json:"mime_type"`
	Size        int64      `json:"size"`
	Verified    bool       `json:"verified"`
	Version     int64      `json:"version"`
	DownloadURL *string    `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"download_url_expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewFileResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:        f.GetID(),
		MimeType:  f.MimeType,
		Size:      f.Size,
		Verified:  f.Verified,
		Version:   f.Version,
		CreatedAt: f.CreatedAt,
	}
}

type FileUploadResponse struct {
	File      FileResponse `json:"file"`
	UploadURL string       `json:"upload_url"`
	ExpiresAt time.Time    `json:"expires_at"`
}
