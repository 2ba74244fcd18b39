package models

import "time"

// Versioned adds optimistic-lock helpers. Embed it anonymously.
// Version 0 marks a value that was never persisted.
type Versioned struct {
	Version int64 `json:"version"`
}

// ----- interface helpers -----
func (v *Versioned) GetVersion() int64  { return v.Version }
func (v *Versioned) SetVersion(n int64) { v.Version = n }
func (v *Versioned) Persisted() bool    { return v.Version > 0 }

// Timestamps are maintained by storage; values set by callers are
// ignored on write.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Timestamps) SetCreated(at time.Time) { t.CreatedAt, t.UpdatedAt = at, at }
func (t *Timestamps) SetUpdated(at time.Time) { t.UpdatedAt = at }
