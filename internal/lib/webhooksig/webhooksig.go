// Package webhooksig проверяет подписи вебхуков провайдера идентификации.
//
// Провайдер подписывает доставку по схеме svix: HMAC-SHA256 от строки
// "{id}.{timestamp}.{body}" секретом вида "whsec_<base64>". Заголовок
// подписи может содержать несколько версионированных подписей через
// пробел, каждая в формате "v1,<base64>". Доставка принимается, если
// хотя бы одна подпись версии v1 совпала.
package webhooksig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tolerance — допустимое расхождение метки времени доставки с текущим
// временем. Старые и будущие доставки за пределами окна отклоняются,
// чтобы исключить повтор перехваченного запроса.
const Tolerance = 5 * time.Minute

var (
	// ErrInvalidSignature — ни одна подпись из заголовка не совпала.
	ErrInvalidSignature = errors.New("webhook signature mismatch")
	// ErrInvalidTimestamp — метка времени не распарсилась или вне окна допуска.
	ErrInvalidTimestamp = errors.New("webhook timestamp out of tolerance")
	// ErrInvalidSecret — секрет не в формате whsec_<base64>.
	ErrInvalidSecret = errors.New("malformed webhook secret")
)

// Verifier проверяет подписи доставок одним общим секретом.
type Verifier struct {
	key []byte
	now func() time.Time
}

// NewVerifier разбирает секрет провайдера и возвращает Verifier.
// Префикс whsec_ допускается, но не обязателен.
func NewVerifier(secret string) (*Verifier, error) {
	const op = "webhooksig.NewVerifier"
	raw := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSecret)
	}
	return &Verifier{key: key, now: time.Now}, nil
}

// Verify проверяет подпись доставки: msgID и timestamp берутся из
// заголовков svix-id и svix-timestamp, sigHeader — из svix-signature.
func (v *Verifier) Verify(msgID, timestamp, sigHeader string, body []byte) error {
	const op = "webhooksig.Verify"

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidTimestamp)
	}
	diff := v.now().Sub(time.Unix(ts, 0))
	if diff > Tolerance || diff < -Tolerance {
		return fmt.Errorf("%s: %w", op, ErrInvalidTimestamp)
	}

	expected := v.sign(msgID, timestamp, body)
	for _, part := range strings.Split(sigHeader, " ") {
		version, sig, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrInvalidSignature)
}

// Sign возвращает подпись версии v1 для доставки. Используется в тестах
// и при локальной эмуляции провайдера.
func (v *Verifier) Sign(msgID, timestamp string, body []byte) string {
	return "v1," + v.sign(msgID, timestamp, body)
}

func (v *Verifier) sign(msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
