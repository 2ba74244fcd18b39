package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

const seedRecomputeJob = "character_config_seed_recompute"

// RecomputeResult summarizes one run of the seed job.
type RecomputeResult struct {
	Skipped   bool
	Variants  int
	Written   int64
	Unchanged int64
	// Reset counts seeds cleared because no enabled config is left.
	Reset int64
}

type CharacterConfigSeedService struct {
	configs repositories.CharacterConfigRepository
	seeds   repositories.CharacterConfigSeedRepository
	repos   loaders.Repositories
	opts    dataloader.Options
	lock    JobLock
}

func NewCharacterConfigSeedService(
	configs repositories.CharacterConfigRepository,
	seeds repositories.CharacterConfigSeedRepository,
	repos loaders.Repositories,
	opts dataloader.Options,
	lock JobLock,
) *CharacterConfigSeedService {
	return &CharacterConfigSeedService{
		configs: configs,
		seeds:   seeds,
		repos:   repos,
		opts:    opts,
		lock:    lock,
	}
}

func (s *CharacterConfigSeedService) Get(ctx context.Context, v models.CharacterVariant) (*models.CharacterConfigSeed, error) {
	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()

	seed, err := l.CharacterConfigSeed.Load(ctx, dataloader.NoParams{}, v)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		return nil, notFound("character config seed", v)
	}
	return seed, nil
}

func (s *CharacterConfigSeedService) List(ctx context.Context, args pagination.Args) (*pagination.Page[*models.CharacterConfigSeed], error) {
	req, err := args.Request()
	if err != nil {
		return nil, err
	}
	return pagination.Paginate[models.CharacterConfigSeedKey, *models.CharacterConfigSeed](
		ctx, s.seeds, models.CharacterConfigSeedIDs, req,
	)
}

// Recompute refreshes every seed from the current average of enabled
// configs. Seeds whose variant has no enabled config left go back to the
// default ratio with no samples. A run already in progress elsewhere
// makes this one a no-op.
func (s *CharacterConfigSeedService) Recompute(ctx context.Context) (RecomputeResult, error) {
	var res RecomputeResult

	release, ok, err := s.lock.TryLock(ctx, seedRecomputeJob, constants.SeedRecomputeLockTTL)
	if err != nil {
		return res, utils.Upstream("acquire seed job lock", err)
	}
	if !ok {
		utils.Logger.Debug("Seed recompute already running, skipping")
		res.Skipped = true
		return res, nil
	}
	defer release()

	// Work stops before the lock can expire and admit another instance.
	ctx, cancel := context.WithTimeout(ctx, constants.SeedRecomputeLockTTL)
	defer cancel()

	start := time.Now()
	averages, err := s.configs.AverageRatios(ctx)
	if err != nil {
		return res, err
	}
	res.Variants = len(averages)

	live := make(map[models.CharacterConfigSeedKey]bool, len(averages))
	for _, avg := range averages {
		live[avg.CharacterVariant] = true
	}
	stale, err := s.staleSeeds(ctx, live)
	if err != nil {
		return res, err
	}

	var written, unchanged, reset atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SeedRecomputeWorkers)
	for _, avg := range averages {
		g.Go(func() error {
			changed, err := s.upsertSeed(gctx, avg)
			if err != nil {
				return err
			}
			if changed {
				written.Add(1)
			} else {
				unchanged.Add(1)
			}
			return nil
		})
	}
	for _, key := range stale {
		g.Go(func() error {
			changed, err := s.resetSeed(gctx, key)
			if changed {
				reset.Add(1)
			}
			return err
		})
	}
	err = g.Wait()
	res.Written = written.Load()
	res.Unchanged = unchanged.Load()
	res.Reset = reset.Load()

	entry := utils.Logger.WithFields(logrus.Fields{
		"variants":  res.Variants,
		"written":   res.Written,
		"unchanged": res.Unchanged,
		"reset":     res.Reset,
		"duration":  time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("Seed recompute failed")
		return res, err
	}
	entry.Info("Seed recompute finished")
	return res, nil
}

// upsertSeed reports whether it wrote anything.
func (s *CharacterConfigSeedService) upsertSeed(ctx context.Context, avg repositories.RatioAverage) (bool, error) {
	changed := true
	err := repositories.UpsertWithRetry[models.CharacterConfigSeedKey, *models.CharacterConfigSeed](
		ctx, s.seeds, constants.UpdateMaxRetries, avg.CharacterVariant,
		func() (*models.CharacterConfigSeed, error) {
			return &models.CharacterConfigSeed{
				Character:   avg.Character,
				StrokeCount: avg.StrokeCount,
				Ratio:       avg.Ratio,
				SampleCount: avg.Samples,
			}, nil
		},
		func(seed *models.CharacterConfigSeed) error {
			if seed.Ratio == avg.Ratio && seed.SampleCount == avg.Samples {
				changed = false
				return errUnchanged
			}
			changed = true
			seed.Ratio = avg.Ratio
			seed.SampleCount = avg.Samples
			return nil
		},
	)
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return changed, err
}

// staleSeeds finds seeds that still carry samples although their variant
// has no enabled config left.
func (s *CharacterConfigSeedService) staleSeeds(ctx context.Context, live map[models.CharacterConfigSeedKey]bool) ([]models.CharacterConfigSeedKey, error) {
	var stale []models.CharacterConfigSeedKey
	q := repositories.RangeQuery[models.CharacterConfigSeedKey]{Limit: constants.SeedScanBatch}
	for {
		seeds, err := s.seeds.Query(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, seed := range seeds {
			if key := seed.NaturalKey(); seed.SampleCount > 0 && !live[key] {
				stale = append(stale, key)
			}
		}
		if len(seeds) < q.Limit {
			return stale, nil
		}
		last := seeds[len(seeds)-1].NaturalKey()
		q.After = &last
	}
}

// resetSeed puts a seed back to the default ratio with no samples.
func (s *CharacterConfigSeedService) resetSeed(ctx context.Context, key models.CharacterConfigSeedKey) (bool, error) {
	err := repositories.WithRetry[models.CharacterConfigSeedKey, *models.CharacterConfigSeed](
		ctx, s.seeds, constants.UpdateMaxRetries, key,
		func(seed *models.CharacterConfigSeed) error {
			if seed.SampleCount == 0 {
				return errUnchanged
			}
			seed.Ratio = models.DefaultRatio
			seed.SampleCount = 0
			return nil
		},
	)
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return err == nil, err
}
