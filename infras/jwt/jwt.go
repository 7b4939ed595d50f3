// Package jwt issues and verifies the HS256 access/refresh token pairs used by
// the API. Each token type has its own secret and lifetime.
package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"meetingbook/config"
	"meetingbook/shared/timezone"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const bearer = "Bearer"

// Subject is the identity a token pair is issued for.
type Subject struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name,omitempty"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) Subject() Subject {
	return Subject{UserID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(subject Subject) (*TokenPair, error)
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
}

type key struct {
	secret []byte
	ttl    time.Duration
}

type Service struct {
	issuer string
	keys   map[TokenType]key
}

func New(cfg *config.Config) JWT {
	return &Service{
		issuer: cfg.App.Name,
		keys: map[TokenType]key{
			AccessToken:  {secret: []byte(cfg.JWT.AccessSecret), ttl: time.Duration(cfg.JWT.AccessExpireMin) * time.Minute},
			RefreshToken: {secret: []byte(cfg.JWT.RefreshSecret), ttl: time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute},
		},
	}
}

func (s *Service) key(tokenType TokenType) (key, error) {
	k, ok := s.keys[tokenType]
	if !ok {
		return key{}, fmt.Errorf("unknown token type %q", tokenType)
	}

	return k, nil
}

func (s *Service) GenerateTokenPair(subject Subject) (*TokenPair, error) {
	now := timezone.Now()
	pair := &TokenPair{TokenType: bearer}

	for tokenType, dest := range map[TokenType]*string{AccessToken: &pair.AccessToken, RefreshToken: &pair.RefreshToken} {
		signed, err := s.sign(subject, tokenType, now)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s token: %w", tokenType, err)
		}

		*dest = signed
	}

	pair.ExpiresIn = int64(s.keys[AccessToken].ttl.Seconds())

	return pair, nil
}

func (s *Service) sign(subject Subject, tokenType TokenType, issuedAt time.Time) (string, error) {
	k, err := s.key(tokenType)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	claims := Claims{
		UserID:  subject.UserID,
		Email:   subject.Email,
		Name:    subject.Name,
		Role:    subject.Role,
		TokenID: id,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    s.issuer,
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(k.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies signature, expiry and that the token is of the expected type.
// A refresh token presented as an access token fails with ErrInvalidClaim.
func (s *Service) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	k, err := s.key(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return k.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *Service) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return s.GenerateTokenPair(claims.Subject())
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	token, found := strings.CutPrefix(authHeader, bearer+" ")
	if !found || token == "" {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return token, nil
}
