package dataloader

import "time"

type Options struct {
	// Wait is how long the first key of a batch waits for company.
	Wait time.Duration
	// MaxBatch caps the keys passed to one batch call. A full batch is
	// dispatched without waiting.
	MaxBatch int
}

func DefaultOptions() Options {
	return Options{Wait: 2 * time.Millisecond, MaxBatch: 100}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Wait < 0 {
		o.Wait = 0
	}
	if o.MaxBatch <= 0 {
		o.MaxBatch = d.MaxBatch
	}
	return o
}
