package opaqueid

// Codec converts one key type to and from IDs carrying a fixed tag.
type Codec[K any] struct {
	tag    string
	encode func(*Encoder, K)
	decode func(*Decoder) K
}

func NewCodec[K any](tag string, encode func(*Encoder, K), decode func(*Decoder) K) Codec[K] {
	return Codec[K]{tag: tag, encode: encode, decode: decode}
}

func (c Codec[K]) Tag() string { return c.tag }

func (c Codec[K]) Encode(key K) string {
	e := NewEncoder(c.tag)
	c.encode(e, key)
	return e.Finish()
}

// Decode never panics: a wrong tag, wrong field shape, corrupt text or
// trailing bytes all return ok == false.
func (c Codec[K]) Decode(s string) (key K, ok bool) {
	d := NewDecoder(c.tag, s)
	if !d.OK() {
		return key, false
	}
	k := c.decode(d)
	if !d.Finish() {
		return key, false
	}
	return k, true
}
