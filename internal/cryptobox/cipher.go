package cryptobox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Cipher — сменная стратегия шифрования полезной нагрузки конверта.
// Ключ выводится из секрета домена и соли конверта.
type Cipher interface {
	Seal(secret, salt, plaintext []byte) ([]byte, error)
	Open(secret, salt, payload []byte) ([]byte, error)
}

// AEADCipher — основной шифр: ChaCha20-Poly1305 с ключом, выведенным
// через HKDF-SHA256 из секрета домена и соли. Подмена или повреждение
// полезной нагрузки обнаруживаются при Open.
type AEADCipher struct{}

func (AEADCipher) Seal(secret, salt, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(secret, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

func (AEADCipher) Open(secret, salt, payload []byte) ([]byte, error) {
	aead, err := newAEAD(secret, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	plaintext, err := aead.Open(nil, nonce, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("open envelope payload: %w", err)
	}
	return plaintext, nil
}

// Ключ уникален для каждого конверта за счет случайной соли, поэтому
// нулевой nonce не переиспользуется с одним ключом.
func newAEAD(secret, salt []byte) (interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, nil), key); err != nil {
		return nil, fmt.Errorf("derive envelope key: %w", err)
	}
	return chacha20poly1305.New(key)
}

// LegacyXORCipher воспроизводит исторический слабый шифр: повторяющийся
// ключ из hex-представления секрета и hex-соли, XOR по байтам. Оставлен
// только для одноразовой миграции старых данных при чтении.
type LegacyXORCipher struct{}

func (LegacyXORCipher) Seal(secret, salt, plaintext []byte) ([]byte, error) {
	return legacyXOR(secret, salt, plaintext), nil
}

func (LegacyXORCipher) Open(secret, salt, payload []byte) ([]byte, error) {
	return legacyXOR(secret, salt, payload), nil
}

func legacyXOR(secret, salt, data []byte) []byte {
	key := []byte(hex.EncodeToString(secret) + hex.EncodeToString(salt))
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
