package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// keySet хранит RSA-ключи из JWKS-документа провайдера.
// Повторные обновления ограничены minInterval, чтобы невалидные токены
// с выдуманным kid не превращались в поток запросов к провайдеру.
type keySet struct {
	url         string
	httpClient  *http.Client
	minInterval time.Duration

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func newKeySet(url string, httpClient *http.Client, minInterval time.Duration) *keySet {
	return &keySet{
		url:         url,
		httpClient:  httpClient,
		minInterval: minInterval,
		keys:        make(map[string]*rsa.PublicKey),
	}
}

// lookup возвращает ключ по kid или nil.
func (ks *keySet) lookup(kid string) *rsa.PublicKey {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.keys[kid]
}

// refresh перечитывает JWKS-документ. Если предыдущее обновление было
// меньше minInterval назад, повторный запрос не выполняется.
func (ks *keySet) refresh(ctx context.Context) error {
	const op = "auth.keySet.refresh"

	ks.mu.Lock()
	defer ks.mu.Unlock()
	if time.Since(ks.fetchedAt) < ks.minInterval {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := ks.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var doc struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			Use string `json:"use"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			return fmt.Errorf("%s: key %q: %w", op, k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	ks.keys = keys
	ks.fetchedAt = time.Now()
	return nil
}

// parseRSAKey собирает rsa.PublicKey из base64url-полей n и e.
func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}
	exp := 0
	for _, b := range eBytes {
		exp = exp<<8 | int(b)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: exp,
	}, nil
}
