package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer y audience fijos, embebidos al emitir y verificados al parsear.
const (
	Issuer   = "inmobiliaria-api"
	Audience = "inmobiliaria-clients"
)

// ErrInvalidToken colapsa todos los fallos de verificación (firma, expiración,
// issuer, audience) en un único error: el caller no distingue entre ellos.
// El detalle real queda disponible vía errors.Unwrap para el log del servidor.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más la proyección del usuario al
// momento de emisión. Role y los scopes viajan en el token para que el
// middleware RBAC decida sin consultar la DB; eso implica una ventana de
// staleness: un usuario desactivado o con rol cambiado conserva un token
// válido hasta su expiración (no existe lista de revocación).
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id,omitempty"`
	BuildingID string `json:"building_id,omitempty"`
}

// Generate genera un token JWT HS256 firmado con la proyección del usuario.
// expMinutes controla el TTL (default de la app: 7 días).
func Generate(secret, userID, email, role, tenantID, buildingID string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     userID,
		Email:      email,
		Role:       role,
		TenantID:   tenantID,
		BuildingID: buildingID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración, issuer y audience (en ese orden, dentro de
// la librería) y devuelve los claims decodificados. Cualquier fallo retorna
// ErrInvalidToken envolviendo la causa real.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
