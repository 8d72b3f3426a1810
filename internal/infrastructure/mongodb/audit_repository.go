package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

type auditDoc struct {
	ID         string    `bson:"_id"`
	Timestamp  time.Time `bson:"timestamp"`
	Category   string    `bson:"category"`
	EventType  string    `bson:"event_type"`
	ActorID    string    `bson:"actor_id,omitempty"`
	ActorEmail string    `bson:"actor_email,omitempty"`
	Route      string    `bson:"route,omitempty"`
	Decision   string    `bson:"decision,omitempty"`
	Reason     string    `bson:"reason,omitempty"`
	IP         string    `bson:"ip,omitempty"`
	Success    bool      `bson:"success"`
}

// AuditRepo persiste eventos de auditoría en la colección audit_events.
type AuditRepo struct {
	c *mongo.Collection
}

// NewAuditRepository construye el adaptador de persistencia de auditoría.
func NewAuditRepository(db *mongo.Database) *AuditRepo {
	return &AuditRepo{c: db.Collection("audit_events")}
}

// EnsureIndexes crea los índices de consulta por tiempo y por actor.
func (r *AuditRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("crear índices de audit_events: %w", err)
	}
	return nil
}

// Insert graba un evento.
func (r *AuditRepo) Insert(ctx context.Context, ev *entity.AuditEvent) error {
	doc := auditDoc{
		ID:         ev.ID,
		Timestamp:  ev.Timestamp,
		Category:   ev.Category,
		EventType:  ev.EventType,
		ActorID:    ev.ActorID,
		ActorEmail: ev.ActorEmail,
		Route:      ev.Route,
		Decision:   ev.Decision,
		Reason:     ev.Reason,
		IP:         ev.IP,
		Success:    ev.Success,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insertar evento de auditoría: %w", err)
	}
	return nil
}
