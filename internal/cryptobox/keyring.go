package cryptobox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Domain выбирает изолированный секрет для класса данных.
type Domain string

const (
	DomainDebt    Domain = "debt"
	DomainProfile Domain = "profile"
	DomainPayment Domain = "payment"
)

const keySize = 32

var domains = []Domain{DomainDebt, DomainProfile, DomainPayment}

// Keyring выдает и хранит секреты по доменам. Секреты генерируются
// локально при первом обращении и лежат в отдельных файлах с правами 0600.
type Keyring struct {
	dir string

	mu    sync.Mutex
	cache map[Domain][]byte
}

// NewKeyring создает keyring поверх каталога секретов.
func NewKeyring(dir string) *Keyring {
	return &Keyring{
		dir:   dir,
		cache: make(map[Domain][]byte),
	}
}

// Key возвращает секрет домена, генерируя новый при отсутствии.
func (k *Keyring) Key(domain Domain) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if key, ok := k.cache[domain]; ok {
		return key, nil
	}

	path := k.keyPath(domain)
	raw, err := os.ReadFile(path)
	if err == nil {
		key, decodeErr := hex.DecodeString(string(raw))
		if decodeErr != nil || len(key) != keySize {
			return nil, fmt.Errorf("secret for domain %s is corrupt", domain)
		}
		k.cache[domain] = key
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read secret for domain %s: %w", domain, err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate secret for domain %s: %w", domain, err)
	}

	if err := os.MkdirAll(k.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create secrets dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("store secret for domain %s: %w", domain, err)
	}

	k.cache[domain] = key
	return key, nil
}

// Reset удаляет секреты всех доменов. Данные, зашифрованные старыми
// секретами, после этого восстановить нельзя.
func (k *Keyring) Reset() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.cache = make(map[Domain][]byte)

	for _, domain := range domains {
		if err := os.Remove(k.keyPath(domain)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove secret for domain %s: %w", domain, err)
		}
	}
	return nil
}

func (k *Keyring) keyPath(domain Domain) string {
	return filepath.Join(k.dir, string(domain)+".key")
}
