package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
)

// TestHelper bundles in-memory repositories for unit tests of the layers
// above storage.
type TestHelper struct {
	T   *testing.T
	Ctx context.Context

	CharacterConfigRepo     *MemoryCharacterConfigRepository
	CharacterConfigSeedRepo *MemoryRepository[models.CharacterConfigSeedKey, *models.CharacterConfigSeed]
	FigureRecordRepo        *MemoryRepository[models.IDKey, *models.FigureRecord]
	FileRepo                *MemoryRepository[models.IDKey, *models.File]
	GenerateTemplateRepo    *MemoryRepository[models.IDKey, *models.GenerateTemplate]
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	return &TestHelper{
		T:                       t,
		Ctx:                     ctx,
		CharacterConfigRepo:     NewCharacterConfigRepository(),
		CharacterConfigSeedRepo: NewCharacterConfigSeedRepository(),
		FigureRecordRepo:        NewFigureRecordRepository(),
		FileRepo:                NewFileRepository(),
		GenerateTemplateRepo:    NewGenerateTemplateRepository(),
	}
}

func (h *TestHelper) Repositories() loaders.Repositories {
	return loaders.Repositories{
		CharacterConfigs:     h.CharacterConfigRepo,
		CharacterConfigSeeds: h.CharacterConfigSeedRepo,
		FigureRecords:        h.FigureRecordRepo,
		Files:                h.FileRepo,
		GenerateTemplates:    h.GenerateTemplateRepo,
	}
}

// LoaderOptions keeps the batch window short but wide enough for
// goroutines started together to share a batch.
func LoaderOptions() dataloader.Options {
	return dataloader.Options{Wait: 10 * time.Millisecond, MaxBatch: 100}
}

// RequestContext returns a context carrying a fresh loader scope, closed
// when the test ends.
func (h *TestHelper) RequestContext() (context.Context, *loaders.Loaders) {
	l := loaders.New(h.Ctx, h.Repositories(), LoaderOptions())
	h.T.Cleanup(l.Close)
	return loaders.NewContext(h.Ctx, l), l
}
