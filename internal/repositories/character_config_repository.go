package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// RatioAverage aggregates every enabled user config of one variant.
type RatioAverage struct {
	models.CharacterVariant
	Ratio   int32
	Samples int64
}

type CharacterConfigRepository interface {
	VersionedRepository[models.CharacterConfigKey, *models.CharacterConfig]
	// AverageRatios returns one row per configured variant, ordered by
	// variant.
	AverageRatios(ctx context.Context) ([]RatioAverage, error)
}

type characterConfigRepo struct {
	*BaseVersionedRepo[models.CharacterConfigKey, *models.CharacterConfig]
	db DB
}

func NewCharacterConfigRepository(db DB) CharacterConfigRepository {
	r := &characterConfigRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, Table[models.CharacterConfigKey, *models.CharacterConfig]{
		Name:           "character_configs",
		KeyColumns:     []string{"user_id", "character", "stroke_count"},
		MutableColumns: []string{"ratio", "disabled"},
		Filterable:     []string{"user_id", "character", "disabled"},
		Columns: []string{
			"user_id", "character", "stroke_count", "ratio", "disabled",
			"version", "created_at", "updated_at",
		},
		KeyArgs: func(k models.CharacterConfigKey) []any {
			return []any{k.UserID, k.Character, k.StrokeCount}
		},
		InsertArgs: func(*models.CharacterConfig) ([]any, error) { return nil, nil },
		MutableArgs: func(c *models.CharacterConfig) ([]any, error) {
			return []any{c.Ratio, c.Disabled}, nil
		},
		Scan: scanCharacterConfig,
	})
	return r
}

func (r *characterConfigRepo) AverageRatios(ctx context.Context) ([]RatioAverage, error) {
	start := time.Now()
	defer func() {
		queryDuration.WithLabelValues("character_configs", "average_ratios").Observe(time.Since(start).Seconds())
	}()

	rows, err := r.db.Query(ctx, `
		SELECT character, stroke_count, ROUND(AVG(ratio))::int, COUNT(*)
		FROM character_configs
		WHERE NOT disabled
		GROUP BY character, stroke_count
		ORDER BY character, stroke_count`)
	if err != nil {
		return nil, utils.Upstream("character_configs.average_ratios", err)
	}
	defer rows.Close()

	var out []RatioAverage
	for rows.Next() {
		var a RatioAverage
		if err := rows.Scan(&a.Character, &a.StrokeCount, &a.Ratio, &a.Samples); err != nil {
			return nil, utils.Upstream("character_configs.average_ratios", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.Upstream("character_configs.average_ratios", err)
	}
	return out, nil
}

func scanCharacterConfig(row pgx.Row) (*models.CharacterConfig, error) {
	var c models.CharacterConfig
	if err := row.Scan(
		&c.UserID, &c.Character, &c.StrokeCount, &c.Ratio, &c.Disabled,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
