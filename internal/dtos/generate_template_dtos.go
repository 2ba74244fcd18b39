package dtos

import (
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type CreateGenerateTemplateRequest struct {
	Name                  string             `json:"name" validate:"required,max=100"`
	BackgroundImageFileID *string            `json:"background_image_file_id,omitempty"`
	FontColor             string             `json:"font_color" validate:"required,hexcolor"`
	WritingMode           models.WritingMode `json:"writing_mode" validate:"oneof=horizontal vertical"`
	MarginBlockStart      int32              `json:"margin_block_start" validate:"min=0,max=10000"`
	MarginInlineStart     int32              `json:"margin_inline_start" validate:"min=0,max=10000"`
	LineSpacing           int32              `json:"line_spacing" validate:"min=0,max=10000"`
	LetterSpacing         int32              `json:"letter_spacing" validate:"min=-10000,max=10000"`
	FontSize              int32              `json:"font_size" validate:"min=1,max=10000"`
	FontWeight            int32              `json:"font_weight" validate:"min=100,max=900"`
}

// UpdateGenerateTemplateRequest changes only the fields that are set.
// An empty BackgroundImageFileID removes the background.
type UpdateGenerateTemplateRequest struct {
	Name                  *string             `json:"name,omitempty" validate:"omitempty,max=100"`
	BackgroundImageFileID *string             `json:"background_image_file_id,omitempty"`
	FontColor             *string             `json:"font_color,omitempty" validate:"omitempty,hexcolor"`
	WritingMode           *models.WritingMode `json:"writing_mode,omitempty" validate:"omitempty,oneof=horizontal vertical"`
	MarginBlockStart      *int32              `json:"margin_block_start,omitempty"`
	MarginInlineStart     *int32              `json:"margin_inline_start,omitempty"`
	LineSpacing           *int32              `json:"line_spacing,omitempty"`
	LetterSpacing         *int32              `json:"letter_spacing,omitempty"`
	FontSize              *int32              `json:"font_size,omitempty"`
	FontWeight            *int32              `json:"font_weight,omitempty"`
	Disabled              *bool               `json:"disabled,omitempty"`
	Version               int64               `json:"version" validate:"min=1"`
}

type GenerateTemplateResponse struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	BackgroundImageFileID *string            `json:"background_image_file_id,omitempty"`
	FontColor             string             `json:"font_color"`
	WritingMode           models.WritingMode `json:"writing_mode"`
	MarginBlockStart      int32              `json:"margin_block_start"`
	MarginInlineStart     int32              `json:"margin_inline_start"`
	LineSpacing           int32              `json:"line_spacing"`
	LetterSpacing         int32              `json:"letter_spacing"`
	FontSize              int32              `json:"font_size"`
	FontWeight            int32              `json:"font_weight"`
	Disabled              bool               `json:"disabled"`
	Version               int64              `json:"version"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func NewGenerateTemplateResponse(t *models.GenerateTemplate) GenerateTemplateResponse {
	resp := GenerateTemplateResponse{
		ID:                t.GetID(),
		Name:              t.Name,
		FontColor:         t.FontColor,
		WritingMode:       t.WritingMode,
		MarginBlockStart:  t.MarginBlockStart,
		MarginInlineStart: t.MarginInlineStart,
		LineSpacing:       t.LineSpacing,
		LetterSpacing:     t.LetterSpacing,
		FontSize:          t.FontSize,
		FontWeight:        t.FontWeight,
		Disabled:          t.Disabled,
		Version:           t.Version,
		UpdatedAt:         t.UpdatedAt,
	}
	if t.BackgroundImageFileID != nil {
		id := models.FileIDs.Encode(models.IDKey{ID: *t.BackgroundImageFileID})
		resp.BackgroundImageFileID = &id
	}
	return resp
}
