package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
)

type CharacterConfigService struct {
	repo  repositories.CharacterConfigRepository
	repos loaders.Repositories
	opts  dataloader.Options
}

func NewCharacterConfigService(
	repo repositories.CharacterConfigRepository,
	repos loaders.Repositories,
	opts dataloader.Options,
) *CharacterConfigService {
	return &CharacterConfigService{repo: repo, repos: repos, opts: opts}
}

func (s *CharacterConfigService) Create(ctx context.Context, userID uuid.UUID, req dtos.CreateCharacterConfigRequest) (*models.CharacterConfig, error) {
	cfg := &models.CharacterConfig{
		UserID:      userID,
		Character:   req.Character,
		StrokeCount: req.StrokeCount,
		Ratio:       models.DefaultRatio,
	}
	if req.Ratio != nil {
		cfg.Ratio = *req.Ratio
	}
	if err := validate(req, cfg); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	s.remember(ctx, cfg)
	return cfg, nil
}

// Update applies req on top of the stored config if it is still at
// req.Version.
func (s *CharacterConfigService) Update(ctx context.Context, key models.CharacterConfigKey, req dtos.UpdateCharacterConfigRequest) (*models.CharacterConfig, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	found, err := s.repo.GetByIDs(ctx, []models.CharacterConfigKey{key})
	if err != nil {
		return nil, err
	}
	cfg, ok := found[key]
	if !ok {
		return nil, notFound("character config", key)
	}

	cfg.Version = req.Version
	if req.Ratio != nil {
		cfg.Ratio = *req.Ratio
	}
	if req.Disabled != nil {
		cfg.Disabled = *req.Disabled
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	s.remember(ctx, cfg)
	return cfg, nil
}

// Get never reports not-found: unconfigured variants resolve to the
// default config.
func (s *CharacterConfigService) Get(ctx context.Context, userID uuid.UUID, v models.CharacterVariant) (*models.CharacterConfig, error) {
	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()
	return l.CharacterConfig.Load(ctx, userID, v)
}

// Variants lists every stroke count the user configured for character.
func (s *CharacterConfigService) Variants(ctx context.Context, userID uuid.UUID, character string) ([]*models.CharacterConfig, error) {
	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()
	return l.CharacterConfigsByCharacter.Load(ctx, userID, character)
}

func (s *CharacterConfigService) List(ctx context.Context, userID uuid.UUID, args pagination.Args) (*pagination.Page[*models.CharacterConfig], error) {
	req, err := args.Request()
	if err != nil {
		return nil, err
	}
	return pagination.Paginate[models.CharacterConfigKey, *models.CharacterConfig](
		ctx, s.repo, models.CharacterConfigIDs, req,
		repositories.Eq{Column: "user_id", Value: userID},
	)
}

// remember replaces the request's cached copy of cfg with the written one
// and drops the variant listing it belongs to.
func (s *CharacterConfigService) remember(ctx context.Context, cfg *models.CharacterConfig) {
	if l, ok := loaders.FromContext(ctx); ok {
		key := cfg.NaturalKey()
		l.CharacterConfig.Clear(cfg.UserID, key.CharacterVariant)
		l.CharacterConfig.Prime(cfg.UserID, key.CharacterVariant, cfg)
		l.CharacterConfigsByCharacter.Clear(cfg.UserID, cfg.Character)
	}
}
