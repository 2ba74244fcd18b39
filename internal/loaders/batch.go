package loaders

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
)

// characterConfigs falls back to an unpersisted default for variants the
// user never configured.
func characterConfigs(
	repo repositories.VersionedRepository[models.CharacterConfigKey, *models.CharacterConfig],
) dataloader.BatchFunc[uuid.UUID, models.CharacterVariant, *models.CharacterConfig] {
	return func(ctx context.Context, userID uuid.UUID, variants []models.CharacterVariant) (map[models.CharacterVariant]dataloader.Result[*models.CharacterConfig], error) {
		keys := make([]models.CharacterConfigKey, len(variants))
		for i, v := range variants {
			keys[i] = models.CharacterConfigKey{UserID: userID, CharacterVariant: v}
		}
		found, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return nil, err
		}

		out := make(map[models.CharacterVariant]dataloader.Result[*models.CharacterConfig], len(variants))
		for i, v := range variants {
			cfg, ok := found[keys[i]]
			if !ok {
				cfg = models.DefaultCharacterConfig(userID, v)
			}
			out[v] = dataloader.Ok(cfg)
		}
		return out, nil
	}
}

// characterConfigsByCharacter returns every stroke variant a user
// configured, empty when there are none.
func characterConfigsByCharacter(
	repo repositories.VersionedRepository[models.CharacterConfigKey, *models.CharacterConfig],
) dataloader.BatchFunc[uuid.UUID, string, []*models.CharacterConfig] {
	return func(ctx context.Context, userID uuid.UUID, characters []string) (map[string]dataloader.Result[[]*models.CharacterConfig], error) {
		qs := make([]repositories.RangeQuery[models.CharacterConfigKey], len(characters))
		for i, c := range characters {
			qs[i] = repositories.RangeQuery[models.CharacterConfigKey]{
				Where: []repositories.Eq{
					{Column: "user_id", Value: userID},
					{Column: "character", Value: c},
				},
				Limit: constants.MaxStrokeVariants,
			}
		}
		rows, err := repo.QueryBatch(ctx, qs)
		if err != nil {
			return nil, err
		}

		out := make(map[string]dataloader.Result[[]*models.CharacterConfig], len(characters))
		for i, c := range characters {
			configs := rows[i]
			if configs == nil {
				configs = []*models.CharacterConfig{}
			}
			out[c] = dataloader.Ok(configs)
		}
		return out, nil
	}
}

func characterConfigSeeds(
	repo repositories.VersionedRepository[models.CharacterConfigSeedKey, *models.CharacterConfigSeed],
) dataloader.BatchFunc[dataloader.NoParams, models.CharacterConfigSeedKey, *models.CharacterConfigSeed] {
	return func(ctx context.Context, _ dataloader.NoParams, keys []models.CharacterConfigSeedKey) (map[models.CharacterConfigSeedKey]dataloader.Result[*models.CharacterConfigSeed], error) {
		found, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		out := make(map[models.CharacterConfigSeedKey]dataloader.Result[*models.CharacterConfigSeed], len(keys))
		for _, k := range keys {
			out[k] = dataloader.Ok(found[k])
		}
		return out, nil
	}
}

// figureRecordsByCharacter pages through each character's enabled
// records with a single pipelined query.
func figureRecordsByCharacter(
	repo repositories.VersionedRepository[models.IDKey, *models.FigureRecord],
) dataloader.BatchFunc[FigureRecordPage, string, *pagination.Page[*models.FigureRecord]] {
	return func(ctx context.Context, p FigureRecordPage, characters []string) (map[string]dataloader.Result[*pagination.Page[*models.FigureRecord]], error) {
		wheres := make([][]repositories.Eq, len(characters))
		for i, c := range characters {
			wheres[i] = []repositories.Eq{
				{Column: "user_id", Value: p.UserID},
				{Column: "character", Value: c},
				{Column: "disabled", Value: false},
			}
		}
		pages, err := pagination.PaginateBatch[models.IDKey, *models.FigureRecord](ctx, repo, models.FigureRecordIDs, p.Page, wheres)
		if err != nil {
			return nil, err
		}

		out := make(map[string]dataloader.Result[*pagination.Page[*models.FigureRecord]], len(characters))
		for i, c := range characters {
			out[c] = dataloader.Ok(pages[i])
		}
		return out, nil
	}
}

// ownedByID hides rows that belong to another user; both they and
// missing rows load as nil.
func ownedByID[T repositories.EntityWithVersion[models.IDKey]](
	repo repositories.VersionedRepository[models.IDKey, T],
	owner func(T) uuid.UUID,
) dataloader.BatchFunc[uuid.UUID, uuid.UUID, T] {
	return func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]dataloader.Result[T], error) {
		keys := make([]models.IDKey, len(ids))
		for i, id := range ids {
			keys[i] = models.IDKey{ID: id}
		}
		found, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return nil, err
		}

		out := make(map[uuid.UUID]dataloader.Result[T], len(ids))
		for _, id := range ids {
			var v T
			if row, ok := found[models.IDKey{ID: id}]; ok && owner(row) == userID {
				v = row
			}
			out[id] = dataloader.Ok(v)
		}
		return out, nil
	}
}
