package services

import (
	"errors"
	"fmt"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, utils.ErrNotFound)
}

// validate runs both the request's and the resulting model's tags.
func validate(values ...any) error {
	for _, v := range values {
		if err := models.Validate(v); err != nil {
			return err
		}
	}
	return nil
}

// errUnchanged aborts a retry loop whose mutation would be a no-op.
var errUnchanged = errors.New("unchanged")
