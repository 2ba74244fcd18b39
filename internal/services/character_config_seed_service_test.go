package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/testhelpers"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

func TestSeedRecompute(t *testing.T) {
	f := newFixture(t)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	seedConfig(f, a, "な", 2, 10, false)
	seedConfig(f, b, "な", 2, 21, false)
	seedConfig(f, c, "な", 2, 99, true)
	seedConfig(f, a, "に", 3, 60, false)

	res, err := f.Seeds.Recompute(f.Ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 2, res.Variants)
	assert.Equal(t, int64(2), res.Written)

	na, err := f.Seeds.Get(f.Ctx, models.CharacterVariant{Character: "な", StrokeCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(16), na.Ratio, "round(15.5) with disabled configs excluded")
	assert.Equal(t, int64(2), na.SampleCount)

	t.Run("second run leaves seeds untouched", func(t *testing.T) {
		updates := f.CharacterConfigSeedRepo.Updates.Load()
		res, err := f.Seeds.Recompute(f.Ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Written)
		assert.Equal(t, int64(2), res.Unchanged)
		assert.Equal(t, updates, f.CharacterConfigSeedRepo.Updates.Load())
	})

	t.Run("changed averages bump the version", func(t *testing.T) {
		seedConfig(f, c, "に", 3, 80, false)
		_, err := f.Seeds.Recompute(f.Ctx)
		require.NoError(t, err)

		ni, ok := f.CharacterConfigSeedRepo.Get(models.CharacterVariant{Character: "に", StrokeCount: 3})
		require.True(t, ok)
		assert.Equal(t, int32(70), ni.Ratio)
		assert.Equal(t, int64(2), ni.Version)
	})
}

func TestSeedRecomputeSkipsWhileLocked(t *testing.T) {
	f := newFixture(t)
	seedConfig(f, uuid.New(), "の", 1, 40, false)

	release, ok, err := f.Lock.TryLock(f.Ctx, "character_config_seed_recompute", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.Seeds.Recompute(f.Ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, f.CharacterConfigSeedRepo.Len())

	release()
	res, err = f.Seeds.Recompute(f.Ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, f.CharacterConfigSeedRepo.Len())
}

func TestSeedRecomputePropagatesStorageErrors(t *testing.T) {
	f := newFixture(t)
	seedConfig(f, uuid.New(), "は", 1, 40, false)
	f.CharacterConfigSeedRepo.Err = utils.Upstream("seed", assert.AnError)

	_, err := f.Seeds.Recompute(f.Ctx)
	require.ErrorIs(t, err, utils.ErrUpstream)

	// the lock is released even on failure
	_, ok, err := f.Lock.TryLock(f.Ctx, "character_config_seed_recompute", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedGetAndList(t *testing.T) {
	f := newFixture(t)
	f.CharacterConfigSeedRepo.Put(&models.CharacterConfigSeed{Character: "ひ", StrokeCount: 2, Ratio: 30, SampleCount: 4})
	f.CharacterConfigSeedRepo.Put(&models.CharacterConfigSeed{Character: "ふ", StrokeCount: 4, Ratio: 60, SampleCount: 1})

	_, err := f.Seeds.Get(f.Ctx, models.CharacterVariant{Character: "へ", StrokeCount: 1})
	require.ErrorIs(t, err, utils.ErrNotFound)

	page, err := f.Seeds.List(f.Ctx, pagination.Args{Last: utils.Ptr(1)})
	require.NoError(t, err)
	require.Len(t, page.Values, 1)
	assert.Equal(t, "ふ", page.Values[0].Character)
	assert.True(t, page.HasPreviousPage)
}

func TestSeedRecomputeResetsSeedsWithoutEnabledConfigs(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	v := models.CharacterVariant{Character: "ま", StrokeCount: 3}
	seedConfig(f, user, v.Character, v.StrokeCount, 10, false)
	seedConfig(f, user, "み", 2, 30, false)

	_, err := f.Seeds.Recompute(f.Ctx)
	require.NoError(t, err)
	seed, ok := f.CharacterConfigSeedRepo.Get(v)
	require.True(t, ok)
	require.Equal(t, int32(10), seed.Ratio)
	require.Equal(t, int64(1), seed.SampleCount)

	seedConfig(f, user, v.Character, v.StrokeCount, 10, true)

	res, err := f.Seeds.Recompute(f.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Variants)
	assert.Equal(t, int64(1), res.Reset)
	assert.Equal(t, int64(1), res.Unchanged)

	seed, ok = f.CharacterConfigSeedRepo.Get(v)
	require.True(t, ok)
	assert.Equal(t, int32(models.DefaultRatio), seed.Ratio)
	assert.Zero(t, seed.SampleCount)
	assert.Equal(t, int64(2), seed.Version)

	t.Run("an emptied seed is not rewritten", func(t *testing.T) {
		updates := f.CharacterConfigSeedRepo.Updates.Load()
		res, err := f.Seeds.Recompute(f.Ctx)
		require.NoError(t, err)
		assert.Zero(t, res.Reset)
		assert.Equal(t, updates, f.CharacterConfigSeedRepo.Updates.Load())
	})

	t.Run("re-enabling a config repopulates the seed", func(t *testing.T) {
		seedConfig(f, user, v.Character, v.StrokeCount, 40, false)
		res, err := f.Seeds.Recompute(f.Ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Written)

		seed, ok := f.CharacterConfigSeedRepo.Get(v)
		require.True(t, ok)
		assert.Equal(t, int32(40), seed.Ratio)
		assert.Equal(t, int64(1), seed.SampleCount)
	})
}

// deadlineRecorder notes the deadline AverageRatios was called with.
type deadlineRecorder struct {
	*testhelpers.MemoryCharacterConfigRepository
	deadline time.Time
	ok       bool
}

func (d *deadlineRecorder) AverageRatios(ctx context.Context) ([]repositories.RatioAverage, error) {
	d.deadline, d.ok = ctx.Deadline()
	return d.MemoryCharacterConfigRepository.AverageRatios(ctx)
}

func TestSeedRecomputeEndsBeforeLockExpires(t *testing.T) {
	f := newFixture(t)
	configs := &deadlineRecorder{MemoryCharacterConfigRepository: f.CharacterConfigRepo}
	svc := services.NewCharacterConfigSeedService(configs, f.CharacterConfigSeedRepo, f.Repositories(), testhelpers.LoaderOptions(), f.Lock)

	start := time.Now()
	_, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	require.True(t, configs.ok, "recompute must run with a deadline")
	assert.False(t, configs.deadline.After(start.Add(constants.SeedRecomputeLockTTL+time.Second)))
}
