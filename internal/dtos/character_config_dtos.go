package dtos

import (
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type CreateCharacterConfigRequest struct {
	Character   string `json:"character" validate:"required,character"`
	StrokeCount int32  `json:"stroke_count" validate:"min=1,max=100"`
	Ratio       *int32 `json:"ratio,omitempty" validate:"omitempty,min=1,max=100"`
}

// UpdateCharacterConfigRequest carries the version the client last read;
// the update is rejected if the config changed since.
type UpdateCharacterConfigRequest struct {
	Ratio    *int32 `json:"ratio,omitempty" validate:"omitempty,min=1,max=100"`
	Disabled *bool  `json:"disabled,omitempty"`
	Version  int64  `json:"version" validate:"min=1"`
}

type CharacterConfigResponse struct {
	ID          string     `json:"id"`
	Character   string     `json:"character"`
	StrokeCount int32      `json:"stroke_count"`
	Ratio       int32      `json:"ratio"`
	Disabled    bool       `json:"disabled"`
	Version     int64      `json:"version"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func NewCharacterConfigResponse(c *models.CharacterConfig) CharacterConfigResponse {
	resp := CharacterConfigResponse{
		ID:          c.GetID(),
		Character:   c.Character,
		StrokeCount: c.StrokeCount,
		Ratio:       c.Ratio,
		Disabled:    c.Disabled,
		Version:     c.Version,
	}
	if c.Persisted() {
		resp.CreatedAt = &c.CreatedAt
		resp.UpdatedAt = &c.UpdatedAt
	}
	return resp
}

type CharacterConfigSeedResponse struct {
	ID          string    `json:"id"`
	Character   string    `json:"character"`
	StrokeCount int32     `json:"stroke_count"`
	Ratio       int32     `json:"ratio"`
	SampleCount int64     `json:"sample_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCharacterConfigSeedResponse(s *models.CharacterConfigSeed) CharacterConfigSeedResponse {
	return CharacterConfigSeedResponse{
		ID:          s.GetID(),
		Character:   s.Character,
		StrokeCount: s.StrokeCount,
		Ratio:       s.Ratio,
		SampleCount: s.SampleCount,
		UpdatedAt:   s.UpdatedAt,
	}
}
