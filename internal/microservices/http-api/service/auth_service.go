package service

import (
	"errors"

	"recipehub/internal/config"
	"recipehub/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// AuthService resolves bearer tokens to identities. Tokens are issued elsewhere.
type AuthService interface {
	ValidateToken(tokenString string) (*shared.AuthClaims, error)
}

type authService struct {
	jwtSecret []byte
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{jwtSecret: []byte(cfg.JWTSecret)}
}

// ValidateToken checks the HS256 signature and expiry and extracts user_id and role.
func (s *authService) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	role := claims.Role
	if role == "" {
		role = "user"
	}
	return &shared.AuthClaims{UserID: claims.UserID, Role: role}, nil
}
