package merge

import "encoding/json"

// Codec turns snapshots and sync messages into bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Transform is a reversible byte-level step applied after marshaling:
// compression, encryption.
type Transform interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type transformCodec struct {
	inner      Codec
	transforms []Transform
}

// WithTransforms wraps inner so Marshal applies transforms in order and
// Unmarshal undoes them in reverse order.
func WithTransforms(inner Codec, transforms ...Transform) Codec {
	if len(transforms) == 0 {
		return inner
	}
	return &transformCodec{inner: inner, transforms: transforms}
}

func (c *transformCodec) Marshal(v any) ([]byte, error) {
	data, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	for _, t := range c.transforms {
		if data, err = t.Encode(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (c *transformCodec) Unmarshal(data []byte, v any) error {
	var err error
	for i := len(c.transforms) - 1; i >= 0; i-- {
		if data, err = c.transforms[i].Decode(data); err != nil {
			return err
		}
	}
	return c.inner.Unmarshal(data, v)
}
