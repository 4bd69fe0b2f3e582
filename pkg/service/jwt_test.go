package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "os-sistema/pkg/errors"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("segredo-de-teste-com-mais-de-32-caracteres", time.Hour)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("segredo-de-teste-com-mais-de-32-caracteres", -time.Minute)

	token, err := svc.GenerateToken(7)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsTokenFromOtherSecret(t *testing.T) {
	issuer := NewJWTService("segredo-a-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", time.Hour)
	verifier := NewJWTService("segredo-b-bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", time.Hour)

	token, err := issuer.GenerateToken(7)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
