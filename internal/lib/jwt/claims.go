// Package jwt реализует парсинг и генерацию сессионных токенов
// провайдера идентификации с пользовательскими claim-полями.
//
// Токен несёт идентификатор пользователя и его роль из метаданных
// провайдера. Роль читается только отсюда — единый источник истины
// для проверки прав администратора.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов.
type Maker interface {
	// GenerateToken создаёт токен с uid пользователя и ролью.
	GenerateToken(userUID, role string) (string, error)
	// ParseToken проверяет подпись токена и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
