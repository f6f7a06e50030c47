package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/auth"
	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
)

const (
	testIssuer   = "https://tenant.example.com/"
	testAudience = "https://api.example.com"
	testKid      = "test-key-1"
)

func newJWKSServer(t *testing.T, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]string{
			{
				"kty": "RSA",
				"kid": testKid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifier_Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, &key.PublicKey)
	defer srv.Close()

	verifier := auth.NewVerifier(config.IdentityProvider{
		IssuerURL: testIssuer,
		Audience:  testAudience,
		JWKSURL:   srv.URL,
		Timeout:   5 * time.Second,
	})

	validClaims := jwt.RegisteredClaims{
		Subject:   "auth0|user1",
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("валидный токен возвращает subject", func(t *testing.T) {
		claims, err := verifier.Verify(context.Background(), signToken(t, key, testKid, validClaims))
		require.NoError(t, err)
		assert.Equal(t, "auth0|user1", claims.Subject)
	})

	t.Run("истёкший токен отклоняется", func(t *testing.T) {
		expired := validClaims
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := verifier.Verify(context.Background(), signToken(t, key, testKid, expired))
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("чужая audience отклоняется", func(t *testing.T) {
		wrongAud := validClaims
		wrongAud.Audience = jwt.ClaimStrings{"https://other.example.com"}
		_, err := verifier.Verify(context.Background(), signToken(t, key, testKid, wrongAud))
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("подпись чужим ключом отклоняется", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = verifier.Verify(context.Background(), signToken(t, otherKey, testKid, validClaims))
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("мусор вместо токена отклоняется", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})
}

func TestVerifier_JWKSUnavailable(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, &key.PublicKey)
	srv.Close() // эндпоинт недоступен с самого начала

	verifier := auth.NewVerifier(config.IdentityProvider{
		IssuerURL: testIssuer,
		Audience:  testAudience,
		JWKSURL:   srv.URL,
		Timeout:   time.Second,
	})

	claims := jwt.RegisteredClaims{
		Subject:   "auth0|user1",
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	_, err = verifier.Verify(context.Background(), signToken(t, key, testKid, claims))
	assert.ErrorIs(t, err, auth.ErrKeysetUnavailable)
	assert.NotErrorIs(t, err, errs.ErrUnauthenticated)
}
