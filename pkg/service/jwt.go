package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "os-sistema/pkg/errors"
)

type JwtCustomClaim struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// JWTService emite e valida tokens de acesso. Não há refresh token: após
// expirar, o usuário faz login de novo.
type JWTService interface {
	GenerateToken(userID int64) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey      string
	AccessTokenExp time.Duration
}

func NewJWTService(secretKey string, accessTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:      secretKey,
		AccessTokenExp: accessTokenExp,
	}
}

func (s *jwtService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaim{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTokenExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.SecretKey))
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.SecretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now()) {
		return nil, apperrors.ErrTokenNotYetValid
	}

	return claims, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.AccessTokenExp
}
