package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
)

// Pinger abstrae el round-trip a la base para el health check (lo implementa
// el cliente de Mongo vía un adaptador; en tests, un fake).
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapta una función a Pinger.
type PingFunc func(ctx context.Context) error

// Ping implementa Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler responde el estado del servicio con uptime y latencia a la DB.
type HealthHandler struct {
	pinger    Pinger
	startedAt time.Time
	log       *logger.Logger
}

// NewHealthHandler construye el handler de health.
func NewHealthHandler(pinger Pinger, startedAt time.Time, log *logger.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, startedAt: startedAt, log: log}
}

type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	DBRoundTripMS int64   `json:"db_round_trip_ms"`
	Error         string  `json:"error,omitempty"`
}

// Serve godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      500  {object}  healthResponse
// @Router       /health [get]
func (h *HealthHandler) Serve(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := h.pinger.Ping(ctx)
	roundTrip := time.Since(start).Milliseconds()

	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		DBRoundTripMS: roundTrip,
	}
	if err != nil {
		h.log.Error().Err(err).Msg("health: ping a la base falló")
		resp.Status = "error"
		resp.Error = err.Error()
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(resp)
}
