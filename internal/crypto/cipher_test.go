package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncrypt(t *testing.T) {
	validKey := randomKey(t)

	tests := []struct {
		name      string
		plaintext []byte
		key       []byte
		wantErr   error
	}{
		{
			name:      "successful encryption",
			plaintext: []byte(`{"type":"lww-map","state":{}}`),
			key:       validKey,
		},
		{
			name:      "empty plaintext",
			plaintext: []byte{},
			key:       validKey,
		},
		{
			name:      "invalid key length - too short",
			plaintext: []byte("test"),
			key:       make([]byte, 16), // неправильная длина
			wantErr:   ErrInvalidKey,
		},
		{
			name:      "invalid key length - too long",
			plaintext: []byte("test"),
			key:       make([]byte, 64), // неправильная длина
			wantErr:   ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := Encrypt(tt.plaintext, tt.key)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, encrypted)
				return
			}

			require.NoError(t, err)
			// Минимум: NonceSize (12) + len(plaintext) + auth_tag (16)
			assert.Len(t, encrypted, NonceSize+len(tt.plaintext)+TagSize,
				"зашифрованные данные должны содержать nonce, ciphertext и auth_tag")
		})
	}
}

func TestDecrypt(t *testing.T) {
	key := randomKey(t)
	plaintext := []byte("test message")

	valid, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	tampered := append([]byte(nil), valid...)
	tampered[len(tampered)-1] ^= 0xFF

	tests := []struct {
		name      string
		encrypted []byte
		key       []byte
		wantErr   error
	}{
		{"successful decryption", valid, key, nil},
		{"wrong key", valid, randomKey(t), ErrDecrypt},
		{"tampered data", tampered, key, ErrDecrypt},
		{"too short", valid[:NonceSize], key, ErrDecrypt},
		{"invalid key", valid, make([]byte, 10), ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decrypted, err := Decrypt(tt.encrypted, tt.key)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, decrypted)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}
}

func TestEncrypt_Randomness(t *testing.T) {
	// Одинаковые данные шифруются по-разному из-за случайного nonce
	key := randomKey(t)
	plaintext := []byte("same data")

	encrypted1, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	encrypted2, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	assert.NotEqual(t, encrypted1, encrypted2)

	decrypted1, err := Decrypt(encrypted1, key)
	require.NoError(t, err)
	decrypted2, err := Decrypt(encrypted2, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted1)
	assert.Equal(t, plaintext, decrypted2)
}
