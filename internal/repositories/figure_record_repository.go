package repositories

import (
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type FigureRecordRepository interface {
	VersionedRepository[models.IDKey, *models.FigureRecord]
}

type figureRecordRepo struct {
	*BaseVersionedRepo[models.IDKey, *models.FigureRecord]
}

func NewFigureRecordRepository(db DB) FigureRecordRepository {
	return &figureRecordRepo{NewBaseRepo(db, Table[models.IDKey, *models.FigureRecord]{
		Name:           "figure_records",
		KeyColumns:     []string{"id"},
		InsertColumns:  []string{"user_id", "character", "stroke_count", "figure"},
		MutableColumns: []string{"disabled"},
		Filterable:     []string{"user_id", "character", "disabled"},
		Columns: []string{
			"id", "user_id", "character", "stroke_count", "figure", "disabled",
			"version", "created_at", "updated_at",
		},
		KeyArgs: func(k models.IDKey) []any { return []any{k.ID} },
		InsertArgs: func(r *models.FigureRecord) ([]any, error) {
			figure, err := models.MarshalFigure(r.Figure)
			if err != nil {
				return nil, fmt.Errorf("encode figure: %w", err)
			}
			return []any{r.UserID, r.Character, r.StrokeCount, figure}, nil
		},
		MutableArgs: func(r *models.FigureRecord) ([]any, error) {
			return []any{r.Disabled}, nil
		},
		Scan: scanFigureRecord,
	})}
}

func scanFigureRecord(row pgx.Row) (*models.FigureRecord, error) {
	var r models.FigureRecord
	var figure []byte
	if err := row.Scan(
		&r.ID, &r.UserID, &r.Character, &r.StrokeCount, &figure, &r.Disabled,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f, err := models.UnmarshalFigure(figure)
	if err != nil {
		return nil, fmt.Errorf("decode figure %s: %w", r.ID, err)
	}
	r.Figure = f
	return &r, nil
}
