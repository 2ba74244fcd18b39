package models

import "github.com/google/uuid"

const (
	MinRatio     = 1
	MaxRatio     = 100
	DefaultRatio = 50
)

// CharacterConfig is one user's weighting of a character variant when
// generating averaged glyphs.
type CharacterConfig struct {
	Versioned
	Timestamps
	UserID      uuid.UUID `json:"user_id"`
	Character   string    `json:"character" validate:"required,character"`
	StrokeCount int32     `json:"stroke_count" validate:"min=1,max=100"`
	Ratio       int32     `json:"ratio" validate:"min=1,max=100"`
	Disabled    bool      `json:"disabled"`
}

func (c *CharacterConfig) NaturalKey() CharacterConfigKey {
	return CharacterConfigKey{
		UserID:           c.UserID,
		CharacterVariant: CharacterVariant{Character: c.Character, StrokeCount: c.StrokeCount},
	}
}

func (c *CharacterConfig) GetID() string { return CharacterConfigIDs.Encode(c.NaturalKey()) }

// DefaultCharacterConfig stands in for a variant the user never
// configured. It is not persisted.
func DefaultCharacterConfig(userID uuid.UUID, v CharacterVariant) *CharacterConfig {
	return &CharacterConfig{
		UserID:      userID,
		Character:   v.Character,
		StrokeCount: v.StrokeCount,
		Ratio:       DefaultRatio,
	}
}
