package ratelimit

import (
	"sync"
	"time"
)

// Limiter es un contador de ventana fija por clave, en memoria y seguro para
// uso concurrente: el chequeo y el incremento ocurren dentro de la misma
// sección crítica, así dos peticiones simultáneas con la misma clave nunca
// observan un contador obsoleto. Se construye en el arranque y se inyecta;
// no hay instancia global.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int           // máximo de intentos por ventana
	window  time.Duration // duración de la ventana
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New crea un limiter con el límite e intervalo dados.
func New(limit int, windowDur time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowDur,
		now:     time.Now,
	}
}

// Allow registra un intento para la clave y decide si se permite.
// Al expirar la ventana el contador se reinicia (reset-on-expiry).
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.window)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining devuelve los intentos que quedan para la clave en la ventana actual.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || l.now().After(w.expiresAt) {
		return l.limit
	}
	if rem := l.limit - w.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset limpia el contador de una clave (p.ej. tras un login exitoso).
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Prune elimina ventanas ya expiradas; pensado para invocarse periódicamente
// si el proceso vive mucho tiempo con muchas claves distintas.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}
