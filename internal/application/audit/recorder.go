package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
)

// writeTimeout acota la escritura en background para que una DB lenta no
// acumule goroutines indefinidamente.
const writeTimeout = 5 * time.Second

// Recorder graba eventos de auditoría en MongoDB y en el log estructurado.
// La grabación jamás bloquea ni hace fallar la petición que la origina: la
// escritura a DB corre en una goroutine con su propio timeout y un error de
// la DB solo se loguea. Un Recorder nil es un no-op (útil en tests).
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder. repo puede ser nil (solo log).
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record registra el evento: siempre al log, y a la DB en background.
func (r *Recorder) Record(ev entity.AuditEvent) {
	if r == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	r.logEvent(ev)

	if r.repo == nil {
		return
	}
	go func(ev entity.AuditEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.repo.Insert(ctx, &ev); err != nil && r.log != nil {
			r.log.Error().Err(err).
				Str("event_type", ev.EventType).
				Msg("auditoría: no se pudo persistir el evento")
		}
	}(ev)
}

func (r *Recorder) logEvent(ev entity.AuditEvent) {
	if r.log == nil {
		return
	}
	e := r.log.Info()
	if !ev.Success {
		e = r.log.Warn()
	}
	e.Bool("audit", true).
		Str("category", ev.Category).
		Str("event_type", ev.EventType).
		Str("decision", ev.Decision).
		Bool("success", ev.Success)
	if ev.ActorID != "" {
		e.Str("actor_id", ev.ActorID)
	}
	if ev.ActorEmail != "" {
		e.Str("actor_email", ev.ActorEmail)
	}
	if ev.Route != "" {
		e.Str("route", ev.Route)
	}
	if ev.Reason != "" {
		e.Str("reason", ev.Reason)
	}
	if ev.IP != "" {
		e.Str("ip", ev.IP)
	}
	e.Msg("evento de auditoría")
}
