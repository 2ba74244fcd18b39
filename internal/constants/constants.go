package constants

import "time"

const (
	// MaxPageSize bounds first/last on every connection.
	MaxPageSize = 100

	// MaxStrokeVariants bounds how many stroke counts one character can
	// carry per user.
	MaxStrokeVariants = 100

	LoaderWait     = 2 * time.Millisecond
	LoaderMaxBatch = 100

	SeedRecomputeSchedule = "@every 10m"
	SeedRecomputeLockTTL  = 5 * time.Minute
	SeedRecomputeWorkers  = 8
	// SeedScanBatch is how many seeds one read fetches while looking for
	// variants that lost every enabled config.
	SeedScanBatch = 500

	UpdateMaxRetries = 3

	PresignTTL = 15 * time.Minute
)
