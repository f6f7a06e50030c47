// Package auth реализует проверку bearer-токенов внешнего identity-провайдера.
//
// Токены подписаны RS256, публичные ключи берутся из JWKS-эндпоинта провайдера
// и кешируются. Проверяются подпись, алгоритм, issuer и audience. Недоступность
// JWKS — транзиентная ошибка зависимости, а не отказ в аутентификации.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
)

// ErrKeysetUnavailable возвращается, когда JWKS не удалось получить.
// Такой отказ нельзя трактовать как невалидный токен.
var ErrKeysetUnavailable = errors.New("jwks unavailable")

// Claims описывает полезные данные токена. Системе нужен только subject,
// остальные стандартные поля проверяются библиотекой.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier проверяет подпись и claims bearer-токена по ключам JWKS.
type Verifier struct {
	issuer   string
	audience string
	keys     *keySet
}

// NewVerifier создаёт Verifier для заданного identity-провайдера.
func NewVerifier(cfg config.IdentityProvider) *Verifier {
	return &Verifier{
		issuer:   cfg.IssuerURL,
		audience: cfg.Audience,
		keys: newKeySet(cfg.JWKSURL, &http.Client{Timeout: cfg.Timeout},
			30*time.Second),
	}
}

// Verify разбирает и проверяет токен, возвращая claims с subject.
// Ошибки валидации токена заворачиваются в errs.ErrUnauthenticated,
// недоступность JWKS — в ErrKeysetUnavailable.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	const op = "auth.Verify"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, v.keyFunc(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		if errors.Is(err, ErrKeysetUnavailable) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
	}
	return claims, nil
}

// keyFunc отдаёт публичный ключ по kid из заголовка токена,
// при неизвестном kid пробует обновить набор ключей.
func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if key := v.keys.lookup(kid); key != nil {
			return key, nil
		}
		if err := v.keys.refresh(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeysetUnavailable, err)
		}
		if key := v.keys.lookup(kid); key != nil {
			return key, nil
		}
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
}
