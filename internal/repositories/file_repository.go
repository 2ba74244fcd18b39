package repositories

import (
	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

type FileRepository interface {
	VersionedRepository[models.IDKey, *models.File]
}

type fileRepo struct {
	*BaseVersionedRepo[models.IDKey, *models.File]
}

func NewFileRepository(db DB) FileRepository {
	return &fileRepo{NewBaseRepo(db, Table[models.IDKey, *models.File]{
		Name:           "files",
		KeyColumns:     []string{"id"},
		InsertColumns:  []string{"user_id", "object_key", "mime_type", "size"},
		MutableColumns: []string{"verified"},
		Filterable:     []string{"user_id", "verified"},
		Columns: []string{
			"id", "user_id", "object_key", "mime_type", "size", "verified",
			"version", "created_at", "updated_at",
		},
		KeyArgs: func(k models.IDKey) []any { return []any{k.ID} },
		InsertArgs: func(f *models.File) ([]any, error) {
			return []any{f.UserID, f.ObjectKey, f.MimeType, f.Size}, nil
		},
		MutableArgs: func(f *models.File) ([]any, error) {
			return []any{f.Verified}, nil
		},
		Scan: scanFile,
	})}
}

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	if err := row.Scan(
		&f.ID, &f.UserID, &f.ObjectKey, &f.MimeType, &f.Size, &f.Verified,
		&f.Version, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
