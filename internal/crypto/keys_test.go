package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2, "соли должны различаться")
}

func TestDeriveKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	tests := []struct {
		name       string
		passphrase string
		salt       []byte
		wantErr    error
	}{
		{"successful key derivation", "correct horse battery staple", salt, nil},
		{"empty passphrase", "", salt, ErrEmptyPassphrase},
		{"short salt", "passphrase", salt[:16], ErrInvalidSalt},
		{"nil salt", "passphrase", nil, ErrInvalidSalt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(tt.passphrase, tt.salt)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, key)
				return
			}

			require.NoError(t, err)
			assert.Len(t, key, KeySize)
		})
	}
}

func TestDeriveKey_Determinism(t *testing.T) {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	key1, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	key2, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2, "одинаковые входные данные дают одинаковый ключ")

	other, err := DeriveKey("another", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, other)

	salt[0] ^= 0xFF
	otherSalt, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, otherSalt)
}
