package merge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/prefkeeper/internal/crypto"
)

type xorTransform byte

func (x xorTransform) Encode(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ byte(x)
	}
	return out, nil
}

func (x xorTransform) Decode(data []byte) ([]byte, error) { return x.Encode(data) }

type failingTransform struct{}

var errTransform = errors.New("transform failed")

func (failingTransform) Encode([]byte) ([]byte, error) { return nil, errTransform }
func (failingTransform) Decode([]byte) ([]byte, error) { return nil, errTransform }

func TestWithTransforms_NoTransforms(t *testing.T) {
	codec := WithTransforms(JSONCodec{})
	assert.Equal(t, JSONCodec{}, codec)
}

func TestWithTransforms_Order(t *testing.T) {
	zstd, err := NewZstdTransform()
	require.NoError(t, err)
	defer zstd.Close()

	// xor после сжатия: при обратном порядке zstd не распознает данные
	codec := WithTransforms(JSONCodec{}, zstd, xorTransform(0x5A))

	in := map[string]string{"theme": "dark", "payload": string(bytes.Repeat([]byte("a"), 1024))}
	data, err := codec.Marshal(in)
	require.NoError(t, err)
	assert.Less(t, len(data), 1024, "Data should be compressed")

	var out map[string]string
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWithTransforms_Errors(t *testing.T) {
	codec := WithTransforms(JSONCodec{}, failingTransform{})

	_, err := codec.Marshal(1)
	require.ErrorIs(t, err, errTransform)

	var out int
	require.ErrorIs(t, codec.Unmarshal([]byte("1"), &out), errTransform)
}

func TestZstdTransform_InvalidInput(t *testing.T) {
	zstd, err := NewZstdTransform()
	require.NoError(t, err)
	defer zstd.Close()

	_, err = zstd.Decode([]byte("not zstd"))
	require.Error(t, err)
}

func TestZstdTransform_DecodeLimit(t *testing.T) {
	zstd, err := NewZstdTransform()
	require.NoError(t, err)
	defer zstd.Close()

	const limit = 64 << 10

	tests := []struct {
		wantErr error
		name    string
		size    int
	}{
		{name: "Below limit", size: limit / 2},
		{name: "Exactly limit", size: limit},
		{name: "One byte over", size: limit + 1, wantErr: ErrTooLarge},
		{name: "Far over", size: 64 * limit, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := zstd.Encode(bytes.Repeat([]byte("a"), tt.size))
			require.NoError(t, err)

			out, err := zstd.DecodeLimit(data, limit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Len(t, out, tt.size)
		})
	}

	t.Run("Invalid input", func(t *testing.T) {
		_, err := zstd.DecodeLimit([]byte("not zstd"), limit)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTooLarge)
	})
}

func TestSealTransform(t *testing.T) {
	salt, err := crypto.GenerateSalt()
	require.NoError(t, err)
	sealer, err := crypto.NewSealer("passphrase", salt)
	require.NoError(t, err)

	codec := WithTransforms(JSONCodec{}, NewSealTransform(sealer))

	data, err := codec.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Greater(t, len(data), crypto.SaltSize+crypto.NonceSize+crypto.TagSize)

	var out map[string]int
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, map[string]int{"a": 1}, out)

	data[len(data)-1] ^= 0xFF
	require.ErrorIs(t, codec.Unmarshal(data, &out), crypto.ErrDecrypt)
}
