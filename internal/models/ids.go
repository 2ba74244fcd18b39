package models

import (
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/opaqueid"
)

const (
	TagCharacterConfig     = "CharacterConfig"
	TagCharacterConfigSeed = "CharacterConfigSeed"
	TagFigureRecord        = "FigureRecord"
	TagFile                = "File"
	TagGenerateTemplate    = "GenerateTemplate"
)

var (
	CharacterConfigIDs = opaqueid.NewCodec(TagCharacterConfig,
		func(e *opaqueid.Encoder, k CharacterConfigKey) {
			e.UUID(k.UserID).String(k.Character).Int(int64(k.StrokeCount))
		},
		func(d *opaqueid.Decoder) CharacterConfigKey {
			var k CharacterConfigKey
			k.UserID = d.ReadUUID()
			k.Character = d.ReadString()
			k.StrokeCount = d.ReadInt32()
			return k
		},
	)

	CharacterConfigSeedIDs = opaqueid.NewCodec(TagCharacterConfigSeed, encodeVariant, decodeVariant)

	FigureRecordIDs     = newIDKeyCodec(TagFigureRecord)
	FileIDs             = newIDKeyCodec(TagFile)
	GenerateTemplateIDs = newIDKeyCodec(TagGenerateTemplate)
)

func encodeVariant(e *opaqueid.Encoder, k CharacterVariant) {
	e.String(k.Character).Int(int64(k.StrokeCount))
}

func decodeVariant(d *opaqueid.Decoder) CharacterVariant {
	var k CharacterVariant
	k.Character = d.ReadString()
	k.StrokeCount = d.ReadInt32()
	return k
}

func newIDKeyCodec(tag string) opaqueid.Codec[IDKey] {
	return opaqueid.NewCodec(tag,
		func(e *opaqueid.Encoder, k IDKey) { e.UUID(k.ID) },
		func(d *opaqueid.Decoder) IDKey { return IDKey{ID: d.ReadUUID()} },
	)
}
