package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/persistence"
	"github.com/spec-kit/vetclinic-service/internal/repository"
)

type refreshTokenDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Vet       bson.ObjectID `bson:"vet"`
	Token     string        `bson:"token"`
	ExpiresAt time.Time     `bson:"expiresAt"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type refreshTokenRepository struct {
	coll *mongo.Collection
}

// NewRefreshTokenRepository returns a MongoDB-backed implementation.
// Expired documents are also removed by the TTL index on expiresAt.
func NewRefreshTokenRepository(db *mongo.Database) repository.RefreshTokenRepository {
	return &refreshTokenRepository{coll: db.Collection(persistence.CollectionRefreshTokens)}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	vetID, err := objectID(token.VetID)
	if err != nil {
		return err
	}
	doc := refreshTokenDoc{
		ID:        bson.NewObjectID(),
		Vet:       vetID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC(),
		CreatedAt: now(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return wrapErr("create refresh token", err)
	}
	token.ID = doc.ID.Hex()
	token.CreatedAt = doc.CreatedAt
	return nil
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var doc refreshTokenDoc
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		return nil, wrapErr("get refresh token", err)
	}
	return &domain.RefreshToken{
		ID:        doc.ID.Hex(),
		VetID:     doc.Vet.Hex(),
		Token:     doc.Token,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *refreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return wrapErr("delete refresh token", err)
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return 0, wrapErr("delete refresh token by value", err)
	}
	return res.DeletedCount, nil
}

func (r *refreshTokenRepository) DeleteByVet(ctx context.Context, vetID string) (int64, error) {
	oid, err := objectID(vetID)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"vet": oid})
	if err != nil {
		return 0, wrapErr("delete refresh tokens by vet", err)
	}
	return res.DeletedCount, nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": at}})
	if err != nil {
		return 0, wrapErr("delete expired refresh tokens", err)
	}
	return res.DeletedCount, nil
}
