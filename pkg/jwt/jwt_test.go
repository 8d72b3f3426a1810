package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inmobiliaria-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin@x.com", "admin", "tenant-1", "building-1", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)

	// los claims son una proyección pura de los campos del usuario al emitir
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@x.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "building-1", claims.BuildingID)
	assert.Equal(t, pkgjwt.Issuer, claims.Issuer)
	assert.Contains(t, claims.Audience, pkgjwt.Audience)
	assert.NotNil(t, claims.ExpiresAt)
}

// Verificar dos veces el mismo token válido produce claims idénticos.
func TestParse_Idempotente(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "a@x.com", "sales", "t-1", "", 60)
	require.NoError(t, err)

	c1, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	c2, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestParse_TokenExpirado(t *testing.T) {
	// expiración -1 minuto: ya expirado al emitir
	tok, err := pkgjwt.Generate(testSecret, "u-1", "a@x.com", "admin", "", "", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken,
		"expirado se colapsa al mismo error que cualquier otro fallo")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "a@x.com", "admin", "", "", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_IssuerOAudienceAjenos(t *testing.T) {
	// token firmado con el mismo secret pero emitido por otra aplicación
	now := time.Now()
	ajena := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Issuer:    "otra-app",
		Audience:  gojwt.ClaimStrings{"otros-clientes"},
		Subject:   "u-1",
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
	})
	tok, err := ajena.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken,
		"issuer/audience ajenos no se distinguen de un token alterado")
}

func TestParse_TokenMalformado(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "token.invalido.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "a@x.com", "admin", "", "", 60)
	assert.Error(t, err)
}
