package repositories

import (
	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type CharacterConfigSeedRepository interface {
	VersionedRepository[models.CharacterConfigSeedKey, *models.CharacterConfigSeed]
}

type characterConfigSeedRepo struct {
	*BaseVersionedRepo[models.CharacterConfigSeedKey, *models.CharacterConfigSeed]
}

func NewCharacterConfigSeedRepository(db DB) CharacterConfigSeedRepository {
	return &characterConfigSeedRepo{NewBaseRepo(db, Table[models.CharacterConfigSeedKey, *models.CharacterConfigSeed]{
		Name:           "character_config_seeds",
		KeyColumns:     []string{"character", "stroke_count"},
		MutableColumns: []string{"ratio", "sample_count"},
		Filterable:     []string{"character"},
		Columns: []string{
			"character", "stroke_count", "ratio", "sample_count",
			"version", "created_at", "updated_at",
		},
		KeyArgs: func(k models.CharacterConfigSeedKey) []any {
			return []any{k.Character, k.StrokeCount}
		},
		InsertArgs: func(*models.CharacterConfigSeed) ([]any, error) { return nil, nil },
		MutableArgs: func(s *models.CharacterConfigSeed) ([]any, error) {
			return []any{s.Ratio, s.SampleCount}, nil
		},
		Scan: scanCharacterConfigSeed,
	})}
}

func scanCharacterConfigSeed(row pgx.Row) (*models.CharacterConfigSeed, error) {
	var s models.CharacterConfigSeed
	if err := row.Scan(
		&s.Character, &s.StrokeCount, &s.Ratio, &s.SampleCount,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
