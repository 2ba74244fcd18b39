package loaders

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// Repositories are the storage collaborators the loaders read from.
type Repositories struct {
	CharacterConfigs     repositories.VersionedRepository[models.CharacterConfigKey, *models.CharacterConfig]
	CharacterConfigSeeds repositories.VersionedRepository[models.CharacterConfigSeedKey, *models.CharacterConfigSeed]
	FigureRecords        repositories.VersionedRepository[models.IDKey, *models.FigureRecord]
	Files                repositories.VersionedRepository[models.IDKey, *models.File]
	GenerateTemplates    repositories.VersionedRepository[models.IDKey, *models.GenerateTemplate]
}

// FigureRecordPage selects which window of a user's records each
// character loads.
type FigureRecordPage struct {
	UserID uuid.UUID
	Page   pagination.Request
}

// Loaders is the set of loaders for one request. Never share it between
// requests.
type Loaders struct {
	scope *dataloader.Scope

	CharacterConfig             *dataloader.Loader[uuid.UUID, models.CharacterVariant, *models.CharacterConfig]
	CharacterConfigsByCharacter *dataloader.Loader[uuid.UUID, string, []*models.CharacterConfig]
	CharacterConfigSeed         *dataloader.Loader[dataloader.NoParams, models.CharacterConfigSeedKey, *models.CharacterConfigSeed]
	FigureRecordsByCharacter    *dataloader.Loader[FigureRecordPage, string, *pagination.Page[*models.FigureRecord]]
	File                        *dataloader.Loader[uuid.UUID, uuid.UUID, *models.File]
	GenerateTemplate            *dataloader.Loader[uuid.UUID, uuid.UUID, *models.GenerateTemplate]
}

func New(ctx context.Context, repos Repositories, opts dataloader.Options) *Loaders {
	scope := dataloader.NewScope(ctx)
	return &Loaders{
		scope:                       scope,
		CharacterConfig:             dataloader.New(scope, "character_config", characterConfigs(repos.CharacterConfigs), opts),
		CharacterConfigsByCharacter: dataloader.New(scope, "character_configs_by_character", characterConfigsByCharacter(repos.CharacterConfigs), opts),
		CharacterConfigSeed:         dataloader.New(scope, "character_config_seed", characterConfigSeeds(repos.CharacterConfigSeeds), opts),
		FigureRecordsByCharacter:    dataloader.New(scope, "figure_records_by_character", figureRecordsByCharacter(repos.FigureRecords), opts),
		File:                        dataloader.New(scope, "file", ownedByID(repos.Files, func(f *models.File) uuid.UUID { return f.UserID }), opts),
		GenerateTemplate:            dataloader.New(scope, "generate_template", ownedByID(repos.GenerateTemplates, func(t *models.GenerateTemplate) uuid.UUID { return t.UserID }), opts),
	}
}

// Close discards every cache; later loads fail.
func (l *Loaders) Close() { l.scope.Close() }

func NewContext(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, utils.ContextKeyLoaders, l)
}

func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(utils.ContextKeyLoaders).(*Loaders)
	return l, ok
}

// For returns the request's loaders when ctx carries open ones. Otherwise
// it builds a private set, and release closes it. Work that outlives its
// request, such as a detached goroutine, lands in the second case.
func For(ctx context.Context, repos Repositories, opts dataloader.Options) (l *Loaders, release func()) {
	if l, ok := FromContext(ctx); ok && !l.scope.Closed() {
		return l, func() {}
	}
	l = New(ctx, repos, opts)
	return l, l.Close
}
