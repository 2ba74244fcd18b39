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
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type GenerateTemplateService struct {
	repo  repositories.GenerateTemplateRepository
	repos loaders.Repositories
	opts  dataloader.Options
}

func NewGenerateTemplateService(
	repo repositories.GenerateTemplateRepository,
	repos loaders.Repositories,
	opts dataloader.Options,
) *GenerateTemplateService {
	return &GenerateTemplateService{repo: repo, repos: repos, opts: opts}
}

func (s *GenerateTemplateService) Create(ctx context.Context, userID uuid.UUID, req dtos.CreateGenerateTemplateRequest) (*models.GenerateTemplate, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	bg, err := s.background(ctx, userID, req.BackgroundImageFileID)
	if err != nil {
		return nil, err
	}

	tmpl := &models.GenerateTemplate{
		ID:                    models.NewID(),
		UserID:                userID,
		Name:                  req.Name,
		BackgroundImageFileID: bg,
		FontColor:             req.FontColor,
		WritingMode:           req.WritingMode,
		MarginBlockStart:      req.MarginBlockStart,
		MarginInlineStart:     req.MarginInlineStart,
		LineSpacing:           req.LineSpacing,
		LetterSpacing:         req.LetterSpacing,
		FontSize:              req.FontSize,
		FontWeight:            req.FontWeight,
	}
	if err := validate(tmpl); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	s.remember(ctx, tmpl)
	return tmpl, nil
}

// Update changes only the fields set in req, provided the template is
// still at req.Version.
func (s *GenerateTemplateService) Update(ctx context.Context, userID, id uuid.UUID, req dtos.UpdateGenerateTemplateRequest) (*models.GenerateTemplate, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	tmpl, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	cp := *tmpl
	tmpl = &cp

	if req.BackgroundImageFileID != nil {
		bg, err := s.background(ctx, userID, req.BackgroundImageFileID)
		if err != nil {
			return nil, err
		}
		tmpl.BackgroundImageFileID = bg
	}
	set(&tmpl.Name, req.Name)
	set(&tmpl.FontColor, req.FontColor)
	set(&tmpl.WritingMode, req.WritingMode)
	set(&tmpl.MarginBlockStart, req.MarginBlockStart)
	set(&tmpl.MarginInlineStart, req.MarginInlineStart)
	set(&tmpl.LineSpacing, req.LineSpacing)
	set(&tmpl.LetterSpacing, req.LetterSpacing)
	set(&tmpl.FontSize, req.FontSize)
	set(&tmpl.FontWeight, req.FontWeight)
	set(&tmpl.Disabled, req.Disabled)
	tmpl.Version = req.Version

	if err := validate(tmpl); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	s.remember(ctx, tmpl)
	return tmpl, nil
}

func (s *GenerateTemplateService) remember(ctx context.Context, tmpl *models.GenerateTemplate) {
	if l, ok := loaders.FromContext(ctx); ok {
		l.GenerateTemplate.Clear(tmpl.UserID, tmpl.ID)
		l.GenerateTemplate.Prime(tmpl.UserID, tmpl.ID, tmpl)
	}
}

func (s *GenerateTemplateService) Get(ctx context.Context, userID, id uuid.UUID) (*models.GenerateTemplate, error) {
	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()

	tmpl, err := l.GenerateTemplate.Load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, notFound("generate template", id)
	}
	return tmpl, nil
}

func (s *GenerateTemplateService) List(ctx context.Context, userID uuid.UUID, args pagination.Args) (*pagination.Page[*models.GenerateTemplate], error) {
	req, err := args.Request()
	if err != nil {
		return nil, err
	}
	return pagination.Paginate[models.IDKey, *models.GenerateTemplate](
		ctx, s.repo, models.GenerateTemplateIDs, req,
		repositories.Eq{Column: "user_id", Value: userID},
	)
}

// background resolves an opaque file id. An empty id clears the
// background; anything else must be the user's own verified upload.
func (s *GenerateTemplateService) background(ctx context.Context, userID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	key, ok := models.FileIDs.Decode(*raw)
	if !ok {
		return nil, utils.NewValidationError("background_image_file_id", "malformed file id")
	}

	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()
	file, err := l.File.Load(ctx, userID, key.ID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, utils.NewValidationError("background_image_file_id", "file does not exist")
	}
	if !file.Verified {
		return nil, utils.NewValidationError("background_image_file_id", "file upload is not verified")
	}
	return &key.ID, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
