package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPurpose string

const (
	// TokenPurposeReset — подтверждение необратимого удаления всех
	// данных. Двухшаговый сценарий: токен выдается на первом явном
	// подтверждении и предъявляется на втором.
	TokenPurposeReset TokenPurpose = "reset"
)

type Claims struct {
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager инициализирует менеджер подписанных токенов подтверждения.
func NewTokenManager(secret string, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// NewResetToken создает короткоживущий токен подтверждения сброса.
func (m *TokenManager) NewResetToken() (string, time.Time, error) {
	return m.newToken(TokenPurposeReset, m.ttl)
}

// ParseResetToken валидирует токен подтверждения сброса.
func (m *TokenManager) ParseResetToken(tokenString string) (*Claims, error) {
	return m.parseToken(tokenString, TokenPurposeReset)
}

func (m *TokenManager) newToken(purpose TokenPurpose, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) parseToken(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuer(m.issuer))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	if claims.Purpose != purpose {
		return nil, errors.New("token purpose mismatch")
	}

	return claims, nil
}
