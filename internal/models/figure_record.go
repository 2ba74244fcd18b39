package models

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type Point struct {
	X float64 `cbor:"1,keyasint" json:"x"`
	Y float64 `cbor:"2,keyasint" json:"y"`
}

type Stroke struct {
	Points []Point `cbor:"1,keyasint" json:"points" validate:"min=1,max=1000"`
}

// Figure is a handwritten sample: strokes in drawing order on a
// Width x Height canvas.
type Figure struct {
	Width   float64  `cbor:"1,keyasint" json:"width" validate:"gt=0"`
	Height  float64  `cbor:"2,keyasint" json:"height" validate:"gt=0"`
	Strokes []Stroke `cbor:"3,keyasint" json:"strokes" validate:"min=1,max=100,dive"`
}

var figureEncMode, _ = cbor.CoreDetEncOptions().EncMode()

// MarshalFigure encodes f deterministically for storage.
func MarshalFigure(f Figure) ([]byte, error) {
	return figureEncMode.Marshal(f)
}

func UnmarshalFigure(b []byte) (Figure, error) {
	var f Figure
	err := cbor.Unmarshal(b, &f)
	return f, err
}

type FigureRecord struct {
	Versioned
	Timestamps
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Character   string    `json:"character" validate:"required,character"`
	StrokeCount int32     `json:"stroke_count" validate:"min=1,max=100"`
	Figure      Figure    `json:"figure"`
	Disabled    bool      `json:"disabled"`
}

func (r *FigureRecord) NaturalKey() IDKey { return IDKey{ID: r.ID} }

func (r *FigureRecord) GetID() string { return FigureRecordIDs.Encode(r.NaturalKey()) }

// NewFigureRecord derives the stroke count from the figure itself.
func NewFigureRecord(userID uuid.UUID, character string, figure Figure) *FigureRecord {
	return &FigureRecord{
		ID:          NewID(),
		UserID:      userID,
		Character:   character,
		StrokeCount: int32(len(figure.Strokes)),
		Figure:      figure,
	}
}
