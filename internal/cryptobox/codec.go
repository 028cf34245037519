package cryptobox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const saltSize = 16

// ErrDecode — конверт не удалось расшифровать ни одним шифром. Хранилище
// считается нечитаемым; это не то же самое, что отсутствие данных.
var ErrDecode = errors.New("cannot decode stored envelope")

var saltHexRE = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)

// Codec упаковывает данные в конверт формата saltHex ":" base64(payload)
// с изолированным секретом на каждый домен. Запись всегда идет основным
// шифром; чтение дополнительно пробует устаревший XOR для миграции.
type Codec struct {
	keyring *Keyring
	primary Cipher
	legacy  Cipher
}

// NewCodec создает кодек с AEAD-шифром и legacy-фолбэком на чтении.
func NewCodec(keyring *Keyring) *Codec {
	return &Codec{
		keyring: keyring,
		primary: AEADCipher{},
		legacy:  LegacyXORCipher{},
	}
}

// Encode упаковывает plaintext в конверт домена.
func (c *Codec) Encode(plaintext []byte, domain Domain) (string, error) {
	secret, err := c.keyring.Key(domain)
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate envelope salt: %w", err)
	}

	payload, err := c.primary.Seal(secret, salt, plaintext)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(payload), nil
}

// Decode распаковывает конверт домена. Сначала основной шифр; при неудаче
// пробуется устаревший XOR, но его результат принимается только как
// валидный JSON — иначе возвращается ErrDecode.
func (c *Codec) Decode(envelope string, domain Domain) ([]byte, error) {
	saltPart, payloadPart, ok := strings.Cut(envelope, ":")
	if !ok || !saltHexRE.MatchString(saltPart) {
		return nil, ErrDecode
	}

	salt, err := hex.DecodeString(saltPart)
	if err != nil {
		return nil, ErrDecode
	}
	payload, err := base64.StdEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, ErrDecode
	}

	secret, err := c.keyring.Key(domain)
	if err != nil {
		return nil, err
	}

	if plaintext, err := c.primary.Open(secret, salt, payload); err == nil {
		return plaintext, nil
	}

	plaintext, err := c.legacy.Open(secret, salt, payload)
	if err != nil || !json.Valid(plaintext) {
		return nil, ErrDecode
	}
	return plaintext, nil
}

// IsEncoded распознает конверт по формату: 32 hex-символа соли,
// двоеточие и base64-полезная нагрузка.
func IsEncoded(blob string) bool {
	saltPart, payloadPart, ok := strings.Cut(blob, ":")
	if !ok || strings.Contains(payloadPart, ":") {
		return false
	}
	if !saltHexRE.MatchString(saltPart) || len(payloadPart) == 0 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payloadPart)
	return err == nil
}

// ResetKeys удаляет все секреты доменов.
func (c *Codec) ResetKeys() error {
	return c.keyring.Reset()
}
