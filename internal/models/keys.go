package models

import (
	"bytes"
	"cmp"
	"strings"

	"github.com/google/uuid"
)

// IDKey is the natural key of entities addressed by a generated UUID.
// UUIDv7 values sort by creation time.
type IDKey struct {
	ID uuid.UUID
}

func (k IDKey) Compare(o IDKey) int {
	return bytes.Compare(k.ID[:], o.ID[:])
}

// CharacterVariant identifies one way of writing a character.
type CharacterVariant struct {
	Character   string
	StrokeCount int32
}

func (k CharacterVariant) Compare(o CharacterVariant) int {
	if c := strings.Compare(k.Character, o.Character); c != 0 {
		return c
	}
	return cmp.Compare(k.StrokeCount, o.StrokeCount)
}

type CharacterConfigKey struct {
	UserID uuid.UUID
	CharacterVariant
}

func (k CharacterConfigKey) Compare(o CharacterConfigKey) int {
	if c := bytes.Compare(k.UserID[:], o.UserID[:]); c != 0 {
		return c
	}
	return k.CharacterVariant.Compare(o.CharacterVariant)
}

// CharacterConfigSeedKey orders seeds the same way as the variants they
// aggregate.
type CharacterConfigSeedKey = CharacterVariant

// NewID returns a time-ordered identifier for a new entity.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
