package models

// CharacterConfigSeed is the ratio shared by every user for a variant,
// recomputed periodically from individual configs.
type CharacterConfigSeed struct {
	Versioned
	Timestamps
	Character   string `json:"character" validate:"required,character"`
	StrokeCount int32  `json:"stroke_count" validate:"min=1,max=100"`
	Ratio       int32  `json:"ratio" validate:"min=1,max=100"`
	SampleCount int64  `json:"sample_count" validate:"min=0"`
}

func (s *CharacterConfigSeed) NaturalKey() CharacterConfigSeedKey {
	return CharacterVariant{Character: s.Character, StrokeCount: s.StrokeCount}
}

func (s *CharacterConfigSeed) GetID() string { return CharacterConfigSeedIDs.Encode(s.NaturalKey()) }
