package testhelpers

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
)

func unknownColumn(table, column string) any {
	panic(fmt.Sprintf("testhelpers: %s has no filterable column %q", table, column))
}

// MemoryCharacterConfigRepository adds the aggregate read the seed job
// uses.
type MemoryCharacterConfigRepository struct {
	*MemoryRepository[models.CharacterConfigKey, *models.CharacterConfig]
}

func NewCharacterConfigRepository() *MemoryCharacterConfigRepository {
	return &MemoryCharacterConfigRepository{NewMemoryRepository(
		func(c *models.CharacterConfig) *models.CharacterConfig { cp := *c; return &cp },
		func(c *models.CharacterConfig, column string) any {
			switch column {
			case "user_id":
				return c.UserID
			case "character":
				return c.Character
			case "disabled":
				return c.Disabled
			}
			return unknownColumn("character_configs", column)
		},
	)}
}

func (m *MemoryCharacterConfigRepository) AverageRatios(ctx context.Context) ([]repositories.RatioAverage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	sums := make(map[models.CharacterVariant]int64)
	counts := make(map[models.CharacterVariant]int64)
	for _, c := range m.All() {
		if c.Disabled {
			continue
		}
		v := c.NaturalKey().CharacterVariant
		sums[v] += int64(c.Ratio)
		counts[v]++
	}

	out := make([]repositories.RatioAverage, 0, len(counts))
	for v, n := range counts {
		out = append(out, repositories.RatioAverage{
			CharacterVariant: v,
			Ratio:            int32(math.Round(float64(sums[v]) / float64(n))),
			Samples:          n,
		})
	}
	slices.SortFunc(out, func(a, b repositories.RatioAverage) int {
		return a.CharacterVariant.Compare(b.CharacterVariant)
	})
	return out, nil
}

func NewCharacterConfigSeedRepository() *MemoryRepository[models.CharacterConfigSeedKey, *models.CharacterConfigSeed] {
	return NewMemoryRepository(
		func(s *models.CharacterConfigSeed) *models.CharacterConfigSeed { cp := *s; return &cp },
		func(s *models.CharacterConfigSeed, column string) any {
			if column == "character" {
				return s.Character
			}
			return unknownColumn("character_config_seeds", column)
		},
	)
}

func NewFigureRecordRepository() *MemoryRepository[models.IDKey, *models.FigureRecord] {
	return NewMemoryRepository(
		func(r *models.FigureRecord) *models.FigureRecord { cp := *r; return &cp },
		func(r *models.FigureRecord, column string) any {
			switch column {
			case "user_id":
				return r.UserID
			case "character":
				return r.Character
			case "disabled":
				return r.Disabled
			}
			return unknownColumn("figure_records", column)
		},
	)
}

func NewFileRepository() *MemoryRepository[models.IDKey, *models.File] {
	return NewMemoryRepository(
		func(f *models.File) *models.File { cp := *f; return &cp },
		func(f *models.File, column string) any {
			switch column {
			case "user_id":
				return f.UserID
			case "verified":
				return f.Verified
			}
			return unknownColumn("files", column)
		},
	)
}

func NewGenerateTemplateRepository() *MemoryRepository[models.IDKey, *models.GenerateTemplate] {
	return NewMemoryRepository(
		func(t *models.GenerateTemplate) *models.GenerateTemplate { cp := *t; return &cp },
		func(t *models.GenerateTemplate, column string) any {
			switch column {
			case "user_id":
				return t.UserID
			case "disabled":
				return t.Disabled
			}
			return unknownColumn("generate_templates", column)
		},
	)
}
