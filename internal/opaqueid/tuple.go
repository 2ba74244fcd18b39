package opaqueid

import (
	"encoding/base32"
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	typeString byte = 0x01
	typeInt    byte = 0x02
	typeUUID   byte = 0x03
)

var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// Encoder appends tuple elements. The zero value is not usable; start
// with NewEncoder.
type Encoder struct {
	buf []byte
}

func NewEncoder(tag string) *Encoder {
	e := &Encoder{buf: make([]byte, 0, 32)}
	return e.String(tag)
}

// String writes s with every 0x00 escaped as 0x00 0xFF and a single
// 0x00 terminator, so shorter prefixes sort first.
func (e *Encoder) String(s string) *Encoder {
	e.buf = append(e.buf, typeString)
	for i := 0; i < len(s); i++ {
		e.buf = append(e.buf, s[i])
		if s[i] == 0x00 {
			e.buf = append(e.buf, 0xFF)
		}
	}
	e.buf = append(e.buf, 0x00)
	return e
}

// Int writes n big-endian with the sign bit flipped.
func (e *Encoder) Int(n int64) *Encoder {
	e.buf = append(e.buf, typeInt)
	e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(n)^(1<<63))
	return e
}

func (e *Encoder) UUID(id uuid.UUID) *Encoder {
	e.buf = append(e.buf, typeUUID)
	e.buf = append(e.buf, id[:]...)
	return e
}

func (e *Encoder) Finish() string {
	return encoding.EncodeToString(e.buf)
}

// Decoder reads tuple elements back in the order they were written.
// The first failure sticks; check OK (or Finish) after reading every
// field.
type Decoder struct {
	buf []byte
	ok  bool
}

// NewDecoder decodes s and checks that its tag is tag.
func NewDecoder(tag, s string) *Decoder {
	buf, err := encoding.DecodeString(s)
	if err != nil {
		return &Decoder{}
	}
	d := &Decoder{buf: buf, ok: true}
	if got := d.ReadString(); !d.ok || got != tag {
		d.ok = false
	}
	return d
}

func (d *Decoder) ReadString() string {
	if !d.take(typeString) {
		return ""
	}
	out := make([]byte, 0, len(d.buf))
	for i := 0; i < len(d.buf); i++ {
		c := d.buf[i]
		if c != 0x00 {
			out = append(out, c)
			continue
		}
		if i+1 < len(d.buf) && d.buf[i+1] == 0xFF {
			out = append(out, 0x00)
			i++
			continue
		}
		d.buf = d.buf[i+1:]
		return string(out)
	}
	d.ok = false
	return ""
}

func (d *Decoder) ReadInt() int64 {
	if !d.take(typeInt) || len(d.buf) < 8 {
		d.ok = false
		return 0
	}
	n := int64(binary.BigEndian.Uint64(d.buf[:8]) ^ (1 << 63))
	d.buf = d.buf[8:]
	return n
}

// ReadInt32 reads an Int element and rejects values outside int32.
func (d *Decoder) ReadInt32() int32 {
	n := d.ReadInt()
	if n < -1<<31 || n > 1<<31-1 {
		d.ok = false
		return 0
	}
	return int32(n)
}

func (d *Decoder) ReadUUID() uuid.UUID {
	if !d.take(typeUUID) || len(d.buf) < 16 {
		d.ok = false
		return uuid.Nil
	}
	var id uuid.UUID
	copy(id[:], d.buf[:16])
	d.buf = d.buf[16:]
	return id
}

func (d *Decoder) OK() bool { return d.ok }

// Finish reports whether every read succeeded and no bytes remain.
func (d *Decoder) Finish() bool {
	return d.ok && len(d.buf) == 0
}

func (d *Decoder) take(typ byte) bool {
	if !d.ok || len(d.buf) == 0 || d.buf[0] != typ {
		d.ok = false
		return false
	}
	d.buf = d.buf[1:]
	return true
}
