// Package auth issues and verifies the identity tokens every party presents.
// Each account signs its own tokens with a private RS256 key; verifiers hold a
// directory of public keys keyed by account id. The token subject selects the
// key, so a token only verifies if it was signed by the account it names.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrUnknownKey   = errors.New("no public key registered for account")
)

// Issuer signs RS256 tokens for one account with that account's private key.
type Issuer struct {
	key     *rsa.PrivateKey
	issuer  string
	subject domain.AccountID
	ttl     time.Duration
	now     func() time.Time
}

func NewIssuer(cfg config.AuthConfig, subject domain.AccountID, key *rsa.PrivateKey) *Issuer {
	return &Issuer{
		key:     key,
		issuer:  cfg.Issuer,
		subject: subject,
		ttl:     cfg.TokenTTL,
		now:     time.Now,
	}
}

func (i *Issuer) Subject() domain.AccountID {
	return i.subject
}

// Issue returns a signed token for the issuer's subject.
func (i *Issuer) Issue() (string, time.Time, error) {
	now := i.now()
	expiry := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   string(i.subject),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = string(i.subject)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiry, nil
}

// Token implements oauth2.TokenSource.
func (i *Issuer) Token() (*oauth2.Token, error) {
	signed, expiry, err := i.Issue()
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		TokenType:   "Bearer",
		AccessToken: signed,
		Expiry:      expiry,
	}, nil
}

// HTTPClient returns a client that attaches a bearer token for the issuer's
// subject to every request. Tokens are reused until they are about to expire.
func (i *Issuer) HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, i),
			Base:   http.DefaultTransport,
		},
	}
}

// Verifier checks tokens against the public key of the account they name.
type Verifier struct {
	keys   Keys
	issuer string
}

func NewVerifier(cfg config.AuthConfig, keys Keys) *Verifier {
	return &Verifier{
		keys:   keys,
		issuer: cfg.Issuer,
	}
}

// Verify returns the account id carried in a valid token.
func (v *Verifier) Verify(tokenString string) (domain.AccountID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFor,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return domain.AccountID(claims.Subject), nil
}

func (v *Verifier) keyFor(token *jwt.Token) (any, error) {
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	key, ok := v.keys[domain.AccountID(subject)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, subject)
	}
	return key, nil
}
