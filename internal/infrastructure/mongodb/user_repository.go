package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// userDoc es la representación persistida de entity.User.
// El email se guarda ya normalizado a minúsculas; el índice único sobre él
// hace el chequeo de duplicados a nivel de base, no de aplicación.
type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Name         string    `bson:"name"`
	Role         string    `bson:"role"`
	TenantID     string    `bson:"tenant_id,omitempty"`
	BuildingID   string    `bson:"building_id,omitempty"`
	IsActive     bool      `bson:"is_active"`
	Modules      []string  `bson:"modules,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *entity.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		TenantID:     u.TenantID,
		BuildingID:   u.BuildingID,
		IsActive:     u.IsActive,
		Modules:      u.Modules,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         d.Role,
		TenantID:     d.TenantID,
		BuildingID:   d.BuildingID,
		IsActive:     d.IsActive,
		Modules:      d.Modules,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserRepo implementación del puerto UserRepository sobre la colección users.
type UserRepo struct {
	c *mongo.Collection
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db *mongo.Database) *UserRepo {
	return &UserRepo{c: db.Collection("users")}
}

// EnsureIndexes crea el índice único sobre email. Debe invocarse al arranque.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("crear índices de users: %w", err)
	}
	return nil
}

// Create persiste un nuevo usuario. Email duplicado: domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.c.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insertar usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var d userDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar usuario por id: %w", err)
	}
	return d.toEntity(), nil
}

// GetByEmail obtiene un usuario por email (ya en minúsculas); (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var d userDoc
	err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar usuario por email: %w", err)
	}
	return d.toEntity(), nil
}

// Update reemplaza los campos mutables del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	res, err := r.c.UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"name":          user.Name,
			"role":          user.Role,
			"tenant_id":     user.TenantID,
			"building_id":   user.BuildingID,
			"is_active":     user.IsActive,
			"modules":       user.Modules,
			"updated_at":    user.UpdatedAt,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("actualizar usuario: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List devuelve una página de usuarios (orden: más recientes primero) y el total.
func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, int64, error) {
	query := bson.M{}
	if filter.TenantID != "" {
		query["tenant_id"] = filter.TenantID
	}

	total, err := r.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("contar usuarios: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Offset))
	cur, err := r.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listar usuarios: %w", err)
	}
	defer cur.Close(ctx)

	var list []*entity.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decodificar usuario: %w", err)
		}
		list = append(list, d.toEntity())
	}
	return list, total, cur.Err()
}
