package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

var _ repository.BuildingRepository = (*BuildingRepo)(nil)

type buildingDoc struct {
	ID        string    `bson:"_id"`
	TenantID  string    `bson:"tenant_id"`
	Name      string    `bson:"name"`
	Address   string    `bson:"address"`
	Units     int       `bson:"units"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d buildingDoc) toEntity() *entity.Building {
	return &entity.Building{
		ID:        d.ID,
		TenantID:  d.TenantID,
		Name:      d.Name,
		Address:   d.Address,
		Units:     d.Units,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// BuildingRepo implementación del puerto BuildingRepository sobre la colección buildings.
type BuildingRepo struct {
	c *mongo.Collection
}

// NewBuildingRepository construye el adaptador de persistencia para edificios.
func NewBuildingRepository(db *mongo.Database) *BuildingRepo {
	return &BuildingRepo{c: db.Collection("buildings")}
}

// EnsureIndexes crea los índices de consulta por tenant.
func (r *BuildingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("crear índices de buildings: %w", err)
	}
	return nil
}

// Create persiste un nuevo edificio.
func (r *BuildingRepo) Create(ctx context.Context, b *entity.Building) error {
	doc := buildingDoc{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Address:   b.Address,
		Units:     b.Units,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insertar edificio: %w", err)
	}
	return nil
}

// GetByID obtiene un edificio por ID; (nil, nil) si no existe.
func (r *BuildingRepo) GetByID(ctx context.Context, id string) (*entity.Building, error) {
	var d buildingDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar edificio: %w", err)
	}
	return d.toEntity(), nil
}

// ListByTenant devuelve una página de edificios del tenant y el total.
// tenantID vacío lista todos (solo llega vacío para actores con override).
func (r *BuildingRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Building, int64, error) {
	query := bson.M{}
	if tenantID != "" {
		query["tenant_id"] = tenantID
	}

	total, err := r.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("contar edificios: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listar edificios: %w", err)
	}
	defer cur.Close(ctx)

	var list []*entity.Building
	for cur.Next(ctx) {
		var d buildingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decodificar edificio: %w", err)
		}
		list = append(list, d.toEntity())
	}
	return list, total, cur.Err()
}
