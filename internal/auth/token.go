package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind различает access и refresh токены в claims.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token used for wrong purpose")
)

type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair содержит подписанные access/refresh токены и сроки их жизни.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenManager подписывает и проверяет JWT (HS256) для мобильного клиента.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair выпускает новую пару токенов. refreshID должен совпадать с
// идентификатором строки refresh-токена в хранилище: при ротации по нему
// находят и отзывают старый токен.
func (m *TokenManager) IssuePair(userID, refreshID uuid.UUID) (TokenPair, error) {
	access, accessExp, err := m.sign(userID, uuid.New(), KindAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, refreshExp, err := m.sign(userID, refreshID, KindRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess проверяет подпись и срок access-токена.
func (m *TokenManager) VerifyAccess(raw string) (*Claims, error) {
	return m.verify(raw, KindAccess)
}

// VerifyRefresh проверяет подпись и срок refresh-токена.
func (m *TokenManager) VerifyRefresh(raw string) (*Claims, error) {
	return m.verify(raw, KindRefresh)
}

func (m *TokenManager) sign(userID, tokenID uuid.UUID, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			ID:        tokenID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) verify(raw string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenUse
	}

	return claims, nil
}
