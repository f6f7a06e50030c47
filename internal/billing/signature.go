package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
)

// DefaultTolerance — допустимый возраст подписи webhook.
const DefaultTolerance = 5 * time.Minute

// ConstructEvent проверяет подпись заголовка вида "t=<unix>,v1=<hex>"
// против сырого тела запроса и разбирает событие только после успешной
// проверки. Любой дефект подписи заворачивается в errs.ErrSignatureInvalid,
// состояние при этом не меняется.
func ConstructEvent(payload []byte, sigHeader, secret string, tolerance time.Duration) (*Event, error) {
	const op = "billing.ConstructEvent"

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, errs.ErrSignatureInvalid, err)
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > tolerance || age < -tolerance {
		return nil, fmt.Errorf("%s: %w: timestamp outside tolerance", op, errs.ErrSignatureInvalid)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	// Во время ротации секрета провайдер шлёт несколько значений v1;
	// достаточно совпадения любого из них.
	verified := false
	for _, signature := range signatures {
		got, decodeErr := hex.DecodeString(signature)
		if decodeErr == nil && hmac.Equal(expected, got) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, fmt.Errorf("%s: %w: signature mismatch", op, errs.ErrSignatureInvalid)
	}

	var event Event
	if err = json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &event, nil
}

// Sign формирует значение заголовка подписи для тела payload.
// Используется провайдером; здесь нужен для тестов и локальной отладки.
func Sign(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("bad timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			if value != "" {
				signatures = append(signatures, value)
			}
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("missing timestamp or signature")
	}
	return timestamp, signatures, nil
}
