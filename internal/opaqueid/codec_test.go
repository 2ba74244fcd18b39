package opaqueid

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairKey struct {
	Owner uuid.UUID
	Name  string
	N     int32
}

var pairCodec = NewCodec("Pair",
	func(e *Encoder, k pairKey) { e.UUID(k.Owner).String(k.Name).Int(int64(k.N)) },
	func(d *Decoder) pairKey {
		owner := d.ReadUUID()
		name := d.ReadString()
		n := d.ReadInt32()
		return pairKey{Owner: owner, Name: name, N: n}
	},
)

var nameCodec = NewCodec("Name",
	func(e *Encoder, s string) { e.String(s) },
	func(d *Decoder) string { return d.ReadString() },
)

var intCodec = NewCodec("Int",
	func(e *Encoder, n int64) { e.Int(n) },
	func(d *Decoder) int64 { return d.ReadInt() },
)

func TestRoundTripCompositeKeys(t *testing.T) {
	keys := []pairKey{
		{Owner: uuid.Nil, Name: "", N: 0},
		{Owner: uuid.MustParse("0190c3a4-2b6e-7d11-8f00-0123456789ab"), Name: "あ", N: 3},
		{Owner: uuid.New(), Name: "a\x00b", N: -7},
		{Owner: uuid.New(), Name: strings.Repeat("漢", 40), N: math.MaxInt32},
	}
	for _, k := range keys {
		id := pairCodec.Encode(k)
		got, ok := pairCodec.Decode(id)
		require.True(t, ok, "decode %q", id)
		assert.Equal(t, k, got)
	}
}

func TestRoundTripScalars(t *testing.T) {
	for _, n := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
		got, ok := intCodec.Decode(intCodec.Encode(n))
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
	for _, s := range []string{"", "\x00", "\x00\x00", "\xff", "abc"} {
		got, ok := nameCodec.Decode(nameCodec.Encode(s))
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestIDsAreURLSafe(t *testing.T) {
	id := pairCodec.Encode(pairKey{Owner: uuid.New(), Name: "x/y?z", N: 2})
	assert.NotContains(t, id, "=")
	for _, r := range id {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'A' && r <= 'V'), "unexpected rune %q", r)
	}
}

func TestStringOrderMatchesKeyOrder(t *testing.T) {
	ints := []int64{math.MinInt64, -300, -1, 0, 1, 2, 255, 256, 1 << 40, math.MaxInt64}
	ids := make([]string, len(ints))
	for i, n := range ints {
		ids[i] = intCodec.Encode(n)
	}
	assert.True(t, sort.StringsAreSorted(ids))

	names := []string{"", "\x00", "a", "a\x00", "a\x00b", "aa", "b", "あ", "い"}
	ids = ids[:0]
	for _, s := range names {
		ids = append(ids, nameCodec.Encode(s))
	}
	assert.True(t, sort.StringsAreSorted(ids))

	owner := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	pairs := []pairKey{
		{Owner: owner, Name: "a", N: 1},
		{Owner: owner, Name: "a", N: 2},
		{Owner: owner, Name: "a", N: 10},
		{Owner: owner, Name: "b", N: 1},
	}
	ids = ids[:0]
	for _, p := range pairs {
		ids = append(ids, pairCodec.Encode(p))
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	valid := pairCodec.Encode(pairKey{Owner: uuid.New(), Name: "k", N: 1})

	cases := map[string]string{
		"empty":          "",
		"not base32":     "hello-world!",
		"lowercase junk": "zzzz",
		"wrong tag":      nameCodec.Encode("k"),
		"truncated":      valid[:len(valid)-4],
		"trailing bytes": NewEncoder("Pair").UUID(uuid.New()).String("k").Int(1).Int(2).Finish(),
		"wrong type":     NewEncoder("Pair").String("not-a-uuid").String("k").Int(1).Finish(),
		"int32 overflow": NewEncoder("Pair").UUID(uuid.New()).String("k").Int(math.MaxInt32 + 1).Finish(),
		"unterminated":   encoding.EncodeToString([]byte{typeString, 'P', 'a'}),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := pairCodec.Decode(in)
				assert.False(t, ok)
			})
		})
	}
}

func TestFormattingDecoderDoesNotConsumeIt(t *testing.T) {
	id := pairCodec.Encode(pairKey{Owner: uuid.New(), Name: "ab", N: 7})
	d := NewDecoder("Pair", id)
	require.True(t, d.OK())

	_, isStringer := any(d).(fmt.Stringer)
	assert.False(t, isStringer)
	_ = fmt.Sprintf("%v", d)

	d.ReadUUID()
	assert.Equal(t, "ab", d.ReadString())
	assert.Equal(t, int32(7), d.ReadInt32())
	assert.True(t, d.Finish())
}
