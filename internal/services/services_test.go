package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/storage"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/testhelpers"
)

type fixture struct {
	*testhelpers.TestHelper

	Configs   *services.CharacterConfigService
	Figures   *services.FigureRecordService
	Seeds     *services.CharacterConfigSeedService
	Files     *services.FileService
	Templates *services.GenerateTemplateService
	Lock      *services.LocalJobLock
}

func newFixture(t *testing.T) *fixture {
	h := testhelpers.NewTestHelper(t)
	repos := h.Repositories()
	opts := testhelpers.LoaderOptions()

	presigner, err := storage.NewTokenPresigner("https://objects.example.test/bucket", []byte("test-signing-key"), 15*time.Minute)
	require.NoError(t, err)
	lock := services.NewLocalJobLock()

	return &fixture{
		TestHelper: h,
		Configs:    services.NewCharacterConfigService(h.CharacterConfigRepo, repos, opts),
		Figures:    services.NewFigureRecordService(h.FigureRecordRepo, repos, opts),
		Seeds:      services.NewCharacterConfigSeedService(h.CharacterConfigRepo, h.CharacterConfigSeedRepo, repos, opts, lock),
		Files:      services.NewFileService(h.FileRepo, repos, opts, presigner),
		Templates:  services.NewGenerateTemplateService(h.GenerateTemplateRepo, repos, opts),
		Lock:       lock,
	}
}

func figureWithStrokes(n int) models.Figure {
	f := models.Figure{Width: 256, Height: 256}
	for i := 0; i < n; i++ {
		f.Strokes = append(f.Strokes, models.Stroke{Points: []models.Point{
			{X: float64(i), Y: 0},
			{X: float64(i), Y: 10},
		}})
	}
	return f
}

func seedConfig(f *fixture, userID uuid.UUID, character string, strokes, ratio int32, disabled bool) {
	f.CharacterConfigRepo.Put(&models.CharacterConfig{
		UserID:      userID,
		Character:   character,
		StrokeCount: strokes,
		Ratio:       ratio,
		Disabled:    disabled,
	})
}
