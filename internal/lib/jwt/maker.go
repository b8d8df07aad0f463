// Package jwt реализует выпуск и проверку подписанных токенов доступа.
//
// Maker определяет интерфейс для создания и проверки JWT с subject (email пользователя).
// MakerImpl — реализация на симметричном ключе HMAC с фиксированным алгоритмом
// и временем жизни токена.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm используется, если алгоритм не указан в конфигурации.
const DefaultAlgorithm = "HS256"

var (
	// ErrUnsupportedAlgorithm — алгоритм не из семейства HS.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrEmptySecret — ключ подписи не задан.
	ErrEmptySecret = errors.New("signing secret is empty")
	// ErrMissingSubject — в токене нет subject.
	ErrMissingSubject = errors.New("token has no subject")
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для subject и возвращает момент его истечения.
	GenerateToken(subject string) (string, time.Time, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte                 // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration          // Время жизни токена.
	method    *jwt.SigningMethodHMAC // Единственный допустимый алгоритм.
	now       func() time.Time
}

var _ Maker = (*MakerImpl)(nil)

// NewJWTMaker создаёт MakerImpl. Пустой algorithm означает HS256.
func NewJWTMaker(secretKey string, ttl time.Duration, algorithm string) (*MakerImpl, error) {
	const op = "jwt.NewJWTMaker"
	if secretKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedAlgorithm, algorithm)
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		method:    method,
		now:       time.Now,
	}, nil
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}

// Algorithm возвращает имя алгоритма подписи.
func (j *MakerImpl) Algorithm() string {
	return j.method.Alg()
}
