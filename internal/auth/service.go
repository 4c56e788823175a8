package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JuanaSF/BilleteraVirtual/internal/config"
)

// ErrInvalidToken indicates a token that failed signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies HS256 access tokens.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService builds a token service from configuration.
func NewService(cfg config.Config) *Service {
	return &Service{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.AppName,
		ttl:    cfg.AccessTokenTTL,
	}
}

// Token describes an issued access token.
type Token struct {
	Value     string `json:"access_token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Issue signs an access token for the given user.
func (s *Service) Issue(userID, email string) (Token, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresIn: int64(s.ttl.Seconds())}, nil
}

// Verify parses the token and returns the subject user id.
func (s *Service) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
