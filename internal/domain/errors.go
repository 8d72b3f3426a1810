package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInactiveAccount    = errors.New("cuenta inactiva")
	ErrRateLimited        = errors.New("demasiados intentos, espere antes de reintentar")
	ErrConflict           = errors.New("conflicto con el estado actual")
)
