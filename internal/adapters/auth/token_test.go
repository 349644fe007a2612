package auth_test

import (
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	client  domain.AccountID = "client.near"
	owner   domain.AccountID = "fetcher.near"
	outside domain.AccountID = "outsider.near"
)

func TestIssueAndVerify(t *testing.T) {
	ids := testhelpers.NewIdentities(t, client, owner)

	token, expiry, err := ids.Issuer(client).Issue()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiry, 2*time.Second)

	subject, err := ids.Verifier().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, client, subject)
}

func TestVerify_OnlyTheNamedAccountsKeyVerifies(t *testing.T) {
	ids := testhelpers.NewIdentities(t, client, owner)

	// client signs a token naming the owner with its own key.
	forged := auth.NewIssuer(testhelpers.AuthConfig, owner, testhelpers.SigningKey(t, client))
	token, _, err := forged.Issue()
	require.NoError(t, err)

	_, err = ids.Verifier().Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Rejects(t *testing.T) {
	ids := testhelpers.NewIdentities(t, client)
	token := ids.Token(client)

	otherIssuer := testhelpers.AuthConfig
	otherIssuer.Issuer = "someone-else"

	expired := testhelpers.AuthConfig
	expired.TokenTTL = -time.Minute
	expiredToken, _, err := auth.NewIssuer(expired, client, testhelpers.SigningKey(t, client)).Issue()
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *auth.Verifier
		token    string
	}{
		{"unregistered account", ids.Verifier(), ids.Token(outside)},
		{"wrong issuer", auth.NewVerifier(otherIssuer, ids.Keys), token},
		{"expired", ids.Verifier(), expiredToken},
		{"garbage", ids.Verifier(), "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestHTTPClientAttachesBearer(t *testing.T) {
	ids := testhelpers.NewIdentities(t, owner)
	verifier := ids.Verifier()

	var seen domain.AccountID
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		require.True(t, ok)
		subject, err := verifier.Verify(token)
		require.NoError(t, err)
		seen = subject
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := ids.Issuer(owner).HTTPClient(time.Second).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, owner, seen)
}

func TestLoadKeysFromDisk(t *testing.T) {
	dir := t.TempDir()
	key := testhelpers.SigningKey(t, client)

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	keyFile := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(keyFile, privPEM, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.near.pem"), pubPEM, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), 0o600))

	signing, err := auth.LoadSigningKey(keyFile)
	require.NoError(t, err)
	keys, err := auth.LoadPublicKeys(dir)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	token, _, err := auth.NewIssuer(testhelpers.AuthConfig, client, signing).Issue()
	require.NoError(t, err)
	subject, err := auth.NewVerifier(testhelpers.AuthConfig, keys).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, client, subject)
}

func TestLoadPublicKeys_EmptyDirectory(t *testing.T) {
	_, err := auth.LoadPublicKeys(t.TempDir())
	assert.Error(t, err)
}
