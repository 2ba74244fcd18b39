package models

import "github.com/google/uuid"

type WritingMode string

const (
	WritingModeHorizontal WritingMode = "horizontal"
	WritingModeVertical   WritingMode = "vertical"
)

// GenerateTemplate describes the page layout used when printing
// generated text.
type GenerateTemplate struct {
	Versioned
	Timestamps
	ID                    uuid.UUID   `json:"id"`
	UserID                uuid.UUID   `json:"user_id"`
	Name                  string      `json:"name" validate:"required,max=100"`
	BackgroundImageFileID *uuid.UUID  `json:"background_image_file_id,omitempty"`
	FontColor             string      `json:"font_color" validate:"required,hexcolor"`
	WritingMode           WritingMode `json:"writing_mode" validate:"oneof=horizontal vertical"`
	MarginBlockStart      int32       `json:"margin_block_start" validate:"min=0,max=10000"`
	MarginInlineStart     int32       `json:"margin_inline_start" validate:"min=0,max=10000"`
	LineSpacing           int32       `json:"line_spacing" validate:"min=0,max=10000"`
	LetterSpacing         int32       `json:"letter_spacing" validate:"min=-10000,max=10000"`
	FontSize              int32       `json:"font_size" validate:"min=1,max=10000"`
	FontWeight            int32       `json:"font_weight" validate:"min=100,max=900"`
	Disabled              bool        `json:"disabled"`
}

func (t *GenerateTemplate) NaturalKey() IDKey { return IDKey{ID: t.ID} }

func (t *GenerateTemplate) GetID() string { return GenerateTemplateIDs.Encode(t.NaturalKey()) }
