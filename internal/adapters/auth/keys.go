package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

const publicKeyExt = ".pem"

// Keys is the public key directory: the key each account signs its tokens with.
type Keys map[domain.AccountID]*rsa.PublicKey

// LoadSigningKey reads a PEM encoded RSA private key.
func LoadSigningKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", path, err)
	}
	return key, nil
}

// LoadPublicKeys reads every <account>.pem file in dir. The file name without
// the extension is the account id the key belongs to.
func LoadPublicKeys(dir string) (Keys, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read public key directory: %w", err)
	}

	keys := make(Keys)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != publicKeyExt {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read public key %s: %w", name, err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(raw)
		if err != nil {
			return nil, fmt.Errorf("parse public key %s: %w", name, err)
		}
		keys[domain.AccountID(strings.TrimSuffix(name, publicKeyExt))] = key
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no public keys found in %s", dir)
	}
	return keys, nil
}
