package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

func TestCharacterConfigCreate(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	cfg, err := f.Configs.Create(f.Ctx, user, dtos.CreateCharacterConfigRequest{
		Character:   "あ",
		StrokeCount: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.Version)
	assert.Equal(t, int32(models.DefaultRatio), cfg.Ratio)

	_, err = f.Configs.Create(f.Ctx, user, dtos.CreateCharacterConfigRequest{
		Character:   "あ",
		StrokeCount: 3,
		Ratio:       utils.Ptr(int32(10)),
	})
	require.ErrorIs(t, err, utils.ErrAlreadyExists)

	stored, ok := f.CharacterConfigRepo.Get(cfg.NaturalKey())
	require.True(t, ok)
	assert.Equal(t, int32(models.DefaultRatio), stored.Ratio, "losing create must not overwrite")
}

func TestCharacterConfigCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.Configs.Create(f.Ctx, uuid.New(), dtos.CreateCharacterConfigRequest{
		Character:   "ab",
		StrokeCount: 3,
	})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Character", verr.Field)
	assert.Zero(t, f.CharacterConfigRepo.Creates.Load())
}

func TestCharacterConfigGetFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	seedConfig(f, user, "い", 2, 80, false)

	got, err := f.Configs.Get(f.Ctx, user, models.CharacterVariant{Character: "い", StrokeCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(80), got.Ratio)

	def, err := f.Configs.Get(f.Ctx, user, models.CharacterVariant{Character: "い", StrokeCount: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(models.DefaultRatio), def.Ratio)
	assert.False(t, def.Persisted())
}

func TestCharacterConfigUpdate(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	seedConfig(f, user, "う", 2, 80, false)
	key := models.CharacterConfigKey{UserID: user, CharacterVariant: models.CharacterVariant{Character: "う", StrokeCount: 2}}

	updated, err := f.Configs.Update(f.Ctx, key, dtos.UpdateCharacterConfigRequest{
		Ratio:   utils.Ptr(int32(20)),
		Version: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, int32(20), updated.Ratio)

	t.Run("stale version conflicts", func(t *testing.T) {
		_, err := f.Configs.Update(f.Ctx, key, dtos.UpdateCharacterConfigRequest{
			Disabled: utils.Ptr(true),
			Version:  1,
		})
		require.ErrorIs(t, err, utils.ErrConflict)

		stored, _ := f.CharacterConfigRepo.Get(key)
		assert.False(t, stored.Disabled)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		missing := key
		missing.StrokeCount = 9
		_, err := f.Configs.Update(f.Ctx, missing, dtos.UpdateCharacterConfigRequest{Version: 1})
		require.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestCharacterConfigWritesClearRequestCache(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	ctx, _ := f.RequestContext()
	v := models.CharacterVariant{Character: "え", StrokeCount: 4}

	before, err := f.Configs.Get(ctx, user, v)
	require.NoError(t, err)
	require.False(t, before.Persisted())

	_, err = f.Configs.Create(ctx, user, dtos.CreateCharacterConfigRequest{
		Character:   v.Character,
		StrokeCount: v.StrokeCount,
		Ratio:       utils.Ptr(int32(70)),
	})
	require.NoError(t, err)

	reads := f.CharacterConfigRepo.GetByIDsCalls.Load()
	after, err := f.Configs.Get(ctx, user, v)
	require.NoError(t, err)
	assert.Equal(t, int32(70), after.Ratio)
	assert.True(t, after.Persisted())
	assert.Equal(t, reads, f.CharacterConfigRepo.GetByIDsCalls.Load(), "written config is served from the request cache")

	variants, err := f.Configs.Variants(ctx, user, v.Character)
	require.NoError(t, err)
	require.Len(t, variants, 1)
}

func TestCharacterConfigVariantsAndList(t *testing.T) {
	f := newFixture(t)
	user, other := uuid.New(), uuid.New()
	seedConfig(f, user, "お", 3, 10, false)
	seedConfig(f, user, "お", 4, 20, false)
	seedConfig(f, user, "か", 3, 30, false)
	seedConfig(f, other, "お", 3, 40, false)

	variants, err := f.Configs.Variants(f.Ctx, user, "お")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, int32(3), variants[0].StrokeCount)
	assert.Equal(t, int32(4), variants[1].StrokeCount)

	none, err := f.Configs.Variants(f.Ctx, user, "き")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	page, err := f.Configs.List(f.Ctx, user, pagination.Args{First: utils.Ptr(2)})
	require.NoError(t, err)
	require.Len(t, page.Values, 2)
	assert.True(t, page.HasNextPage)

	rest, err := f.Configs.List(f.Ctx, user, pagination.Args{First: utils.Ptr(2), After: page.EndCursor})
	require.NoError(t, err)
	require.Len(t, rest.Values, 1)
	assert.False(t, rest.HasNextPage)
	assert.Equal(t, user, rest.Values[0].UserID)
}
