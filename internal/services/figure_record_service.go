package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type FigureRecordService struct {
	repo  repositories.FigureRecordRepository
	repos loaders.Repositories
	opts  dataloader.Options
}

func NewFigureRecordService(
	repo repositories.FigureRecordRepository,
	repos loaders.Repositories,
	opts dataloader.Options,
) *FigureRecordService {
	return &FigureRecordService{repo: repo, repos: repos, opts: opts}
}

func (s *FigureRecordService) Create(ctx context.Context, userID uuid.UUID, req dtos.CreateFigureRecordRequest) (*models.FigureRecord, error) {
	rec := models.NewFigureRecord(userID, req.Character, req.Figure)
	if err := validate(req, rec); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.forget(ctx, rec)
	return rec, nil
}

func (s *FigureRecordService) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.FigureRecord, error) {
	key := models.IDKey{ID: id}
	found, err := s.repo.GetByIDs(ctx, []models.IDKey{key})
	if err != nil {
		return nil, err
	}
	rec, ok := found[key]
	if !ok || rec.UserID != userID {
		return nil, notFound("figure record", id)
	}
	return rec, nil
}

// SetDisabled hides or restores a record if it is still at version.
func (s *FigureRecordService) SetDisabled(ctx context.Context, userID uuid.UUID, id uuid.UUID, req dtos.SetFigureRecordDisabledRequest) (*models.FigureRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	rec.Version = req.Version
	rec.Disabled = req.Disabled
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	s.forget(ctx, rec)
	return rec, nil
}

// ListByCharacters returns the same window of the user's enabled records
// for each character. The per-character loads share one batch.
func (s *FigureRecordService) ListByCharacters(
	ctx context.Context,
	userID uuid.UUID,
	characters []string,
	args pagination.Args,
) (map[string]*pagination.Page[*models.FigureRecord], error) {
	req, err := args.Request()
	if err != nil {
		return nil, err
	}
	if len(characters) == 0 {
		return nil, utils.NewValidationError("characters", "at least one character is required")
	}
	if len(characters) > constants.MaxPageSize {
		return nil, utils.NewValidationError("characters", "at most 100 characters per request")
	}

	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()

	params := loaders.FigureRecordPage{UserID: userID, Page: req}
	results := l.FigureRecordsByCharacter.LoadMany(ctx, params, characters)

	out := make(map[string]*pagination.Page[*models.FigureRecord], len(characters))
	for i, res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
		out[characters[i]] = res.Value
	}
	return out, nil
}

// forget drops the owner's cached listings of rec's character, whatever
// window they were loaded with.
func (s *FigureRecordService) forget(ctx context.Context, rec *models.FigureRecord) {
	if l, ok := loaders.FromContext(ctx); ok {
		l.FigureRecordsByCharacter.ClearFunc(func(p loaders.FigureRecordPage, character string) bool {
			return p.UserID == rec.UserID && character == rec.Character
		})
	}
}
