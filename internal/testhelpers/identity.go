package testhelpers

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/stretchr/testify/require"
)

// AuthConfig is the token settings shared by test parties.
var AuthConfig = config.AuthConfig{
	Issuer:   "oracle-relay-test",
	TokenTTL: time.Minute,
}

// Keys are generated once per account per test binary.
var keyCache sync.Map

// SigningKey returns the private key test code signs as account with.
func SigningKey(t testing.TB, account domain.AccountID) *rsa.PrivateKey {
	t.Helper()
	if key, ok := keyCache.Load(account); ok {
		return key.(*rsa.PrivateKey)
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	actual, _ := keyCache.LoadOrStore(account, key)
	return actual.(*rsa.PrivateKey)
}

// Identities is a set of accounts with their own keys and the public key
// directory that registers them.
type Identities struct {
	t    testing.TB
	Keys auth.Keys
}

func NewIdentities(t testing.TB, accounts ...domain.AccountID) *Identities {
	t.Helper()
	keys := make(auth.Keys, len(accounts))
	for _, account := range accounts {
		keys[account] = &SigningKey(t, account).PublicKey
	}
	return &Identities{t: t, Keys: keys}
}

// Issuer signs as account with account's own key, registered or not.
func (i *Identities) Issuer(account domain.AccountID) *auth.Issuer {
	return auth.NewIssuer(AuthConfig, account, SigningKey(i.t, account))
}

func (i *Identities) Verifier() *auth.Verifier {
	return auth.NewVerifier(AuthConfig, i.Keys)
}

// Token returns a bearer token for account.
func (i *Identities) Token(account domain.AccountID) string {
	i.t.Helper()
	token, _, err := i.Issuer(account).Issue()
	require.NoError(i.t, err)
	return token
}
