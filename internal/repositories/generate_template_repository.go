package repositories

import (
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type GenerateTemplateRepository interface {
	VersionedRepository[models.IDKey, *models.GenerateTemplate]
}

type generateTemplateRepo struct {
	*BaseVersionedRepo[models.IDKey, *models.GenerateTemplate]
}

func NewGenerateTemplateRepository(db DB) GenerateTemplateRepository {
	return &generateTemplateRepo{NewBaseRepo(db, Table[models.IDKey, *models.GenerateTemplate]{
		Name:          "generate_templates",
		KeyColumns:    []string{"id"},
		InsertColumns: []string{"user_id"},
		MutableColumns: []string{
			"name", "background_image_file_id", "font_color", "writing_mode",
			"margin_block_start", "margin_inline_start", "line_spacing", "letter_spacing",
			"font_size", "font_weight", "disabled",
		},
		Filterable: []string{"user_id", "disabled"},
		Columns: []string{
			"id", "user_id", "name", "background_image_file_id", "font_color", "writing_mode",
			"margin_block_start", "margin_inline_start", "line_spacing", "letter_spacing",
			"font_size", "font_weight", "disabled",
			"version", "created_at", "updated_at",
		},
		KeyArgs: func(k models.IDKey) []any { return []any{k.ID} },
		InsertArgs: func(t *models.GenerateTemplate) ([]any, error) {
			return []any{t.UserID}, nil
		},
		MutableArgs: func(t *models.GenerateTemplate) ([]any, error) {
			bg := pgtype.UUID{Status: pgtype.Null}
			if t.BackgroundImageFileID != nil {
				bg = pgtype.UUID{Bytes: *t.BackgroundImageFileID, Status: pgtype.Present}
			}
			return []any{
				t.Name, bg, t.FontColor, string(t.WritingMode),
				t.MarginBlockStart, t.MarginInlineStart, t.LineSpacing, t.LetterSpacing,
				t.FontSize, t.FontWeight, t.Disabled,
			}, nil
		},
		Scan: scanGenerateTemplate,
	})}
}

func scanGenerateTemplate(row pgx.Row) (*models.GenerateTemplate, error) {
	var t models.GenerateTemplate
	var bg pgtype.UUID
	var mode string
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &bg, &t.FontColor, &mode,
		&t.MarginBlockStart, &t.MarginInlineStart, &t.LineSpacing, &t.LetterSpacing,
		&t.FontSize, &t.FontWeight, &t.Disabled,
		&t.Version, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if bg.Status == pgtype.Present {
		id := uuid.UUID(bg.Bytes)
		t.BackgroundImageFileID = &id
	}
	t.WritingMode = models.WritingMode(mode)
	return &t, nil
}
