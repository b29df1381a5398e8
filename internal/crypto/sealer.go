package crypto

import (
	"bytes"
	"fmt"
	"sync"
)

// Sealer шифрует снимки CRDT ключом, полученным из парольной фразы.
//
// Формат результата: salt (32 bytes) + nonce (12 bytes) + ciphertext + auth_tag.
// Соль передается вместе с данными, поэтому реплики одного пользователя
// могут иметь разные соли: при Open ключ выводится из соли отправителя.
type Sealer struct {
	passphrase string
	salt       []byte
	key        []byte

	mu   sync.Mutex
	keys map[string][]byte // соль -> ключ, Argon2 слишком дорог для каждого сообщения
}

// NewSealer создает Sealer для локальной соли salt.
func NewSealer(passphrase string, salt []byte) (*Sealer, error) {
	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return &Sealer{
		passphrase: passphrase,
		salt:       bytes.Clone(salt),
		key:        key,
		keys:       map[string][]byte{string(salt): key},
	}, nil
}

// Seal шифрует plaintext локальным ключом.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	encrypted, err := Encrypt(plaintext, s.key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, SaltSize+len(encrypted))
	out = append(out, s.salt...)
	return append(out, encrypted...), nil
}

// Open расшифровывает данные, запечатанные любой репликой с той же
// парольной фразой.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < SaltSize {
		return nil, fmt.Errorf("%w: sealed data too short", ErrDecrypt)
	}

	key, err := s.keyFor(sealed[:SaltSize])
	if err != nil {
		return nil, err
	}
	return Decrypt(sealed[SaltSize:], key)
}

func (s *Sealer) keyFor(salt []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[string(salt)]; ok {
		return key, nil
	}

	key, err := DeriveKey(s.passphrase, salt)
	if err != nil {
		return nil, err
	}
	s.keys[string(salt)] = key
	return key, nil
}
