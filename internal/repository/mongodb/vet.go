package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/persistence"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

type vetDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	Name         string        `bson:"name"`
	CRMV         string        `bson:"crmv"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

func (d vetDoc) toDomain() *domain.Vet {
	return &domain.Vet{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		CRMV:         d.CRMV,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type vetRepository struct {
	coll *mongo.Collection
}

// NewVetRepository returns a MongoDB-backed implementation.
func NewVetRepository(db *mongo.Database) repository.VetRepository {
	return &vetRepository{coll: db.Collection(persistence.CollectionVets)}
}

func (r *vetRepository) Create(ctx context.Context, vet *domain.Vet) error {
	ts := now()
	doc := vetDoc{
		ID:           bson.NewObjectID(),
		Name:         vet.Name,
		CRMV:         vet.CRMV,
		Email:        vet.Email,
		PasswordHash: vet.PasswordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return wrapErr("create vet", err)
	}
	vet.ID = doc.ID.Hex()
	vet.CreatedAt = ts
	vet.UpdatedAt = ts
	return nil
}

func (r *vetRepository) GetByID(ctx context.Context, id string) (*domain.Vet, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc vetDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr("get vet by id", err)
	}
	return doc.toDomain(), nil
}

func (r *vetRepository) GetByEmail(ctx context.Context, email string) (*domain.Vet, error) {
	var doc vetDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, wrapErr("get vet by email", err)
	}
	return doc.toDomain(), nil
}

func (r *vetRepository) List(ctx context.Context) ([]domain.Vet, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("list vets", err)
	}
	var docs []vetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("list vets", err)
	}

	vets := make([]domain.Vet, 0, len(docs))
	for _, doc := range docs {
		vets = append(vets, domain.Vet{ID: doc.ID.Hex(), Name: doc.Name})
	}
	return vets, nil
}

func (r *vetRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": now()}})
	if err != nil {
		return wrapErr("update vet password", err)
	}
	if res.MatchedCount == 0 {
		return wrapErr("update vet password", apperrors.ErrRecordNotFound)
	}
	return nil
}
