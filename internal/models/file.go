package models

import (
	"fmt"

	"github.com/google/uuid"
)

const MaxFileSize = 10 << 20

// File is an uploaded object. It becomes usable once the client has
// finished the upload and the record is verified.
type File struct {
	Versioned
	Timestamps
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ObjectKey string    `json:"object_key"`
	MimeType  string    `json:"mime_type" validate:"oneof=image/png image/jpeg image/webp"`
	Size      int64     `json:"size" validate:"min=1,max=10485760"`
	Verified  bool      `json:"verified"`
}

func (f *File) NaturalKey() IDKey { return IDKey{ID: f.ID} }

func (f *File) GetID() string { return FileIDs.Encode(f.NaturalKey()) }

func NewFile(userID uuid.UUID, mimeType string, size int64) *File {
	id := NewID()
	return &File{
		ID:        id,
		UserID:    userID,
		ObjectKey: fmt.Sprintf("uploads/%s/%s", userID, id),
		MimeType:  mimeType,
		Size:      size,
	}
}
