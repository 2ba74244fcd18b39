package dtos

import (
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type CreateFigureRecordRequest struct {
	Character string        `json:"character" validate:"required,character"`
	Figure    models.Figure `json:"figure"`
}

type SetFigureRecordDisabledRequest struct {
	Disabled bool  `json:"disabled"`
	Version  int64 `json:"version" validate:"min=1"`
}

type FigureRecordResponse struct {
	ID          string        `json:"id"`
	Character   string        `json:"character"`
	StrokeCount int32         `json:"stroke_count"`
	Figure      models.Figure `json:"figure"`
	Disabled    bool          `json:"disabled"`
	Version     int64         `json:"version"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewFigureRecordResponse(r *models.FigureRecord) FigureRecordResponse {
	return FigureRecordResponse{
		ID:          r.GetID(),
		Character:   r.Character,
		StrokeCount: r.StrokeCount,
		Figure:      r.Figure,
		Disabled:    r.Disabled,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
	}
}

// FigureRecordsByCharacterResponse maps each requested character to its
// page of records.
type FigureRecordsByCharacterResponse map[string]Connection[FigureRecordResponse]
