package persistence

import (
	"context"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/config"
)

// Collection names shared with the mongodb repositories.
const (
	CollectionVets          = "vets"
	CollectionRefreshTokens = "refresh_tokens"
	CollectionClients       = "clients"
	CollectionPets          = "pets"
	CollectionAnamneses     = "anamneses"
)

// Mongo wraps a connected client and the service database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects to MongoDB and verifies the server is reachable.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	errb := oops.In("persistence").With("operation", "connect mongo")

	opts := options.Client().ApplyURI(cfg.URI)
	if d := cfg.ServerSelectionTimeout(); d > 0 {
		opts.SetServerSelectionTimeout(d)
	}
	if d := cfg.OperationTimeout(); d > 0 {
		opts.SetTimeout(d)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errb.Wrap(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errb.Wrap(err)
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &Mongo{Client: client, Database: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the unique and TTL indexes the repositories rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context, logger *zap.Logger) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{CollectionVets, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{CollectionVets, mongo.IndexModel{
			Keys:    bson.D{{Key: "crmv", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{CollectionRefreshTokens, mongo.IndexModel{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		// expired sessions are reaped by the server
		{CollectionRefreshTokens, mongo.IndexModel{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		}},
		{CollectionRefreshTokens, mongo.IndexModel{
			Keys: bson.D{{Key: "vet", Value: 1}},
		}},
		{CollectionPets, mongo.IndexModel{
			Keys: bson.D{{Key: "owner", Value: 1}},
		}},
		{CollectionAnamneses, mongo.IndexModel{
			Keys: bson.D{{Key: "pet", Value: 1}, {Key: "date", Value: -1}},
		}},
	}

	for _, idx := range indexes {
		name, err := m.Database.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return oops.With("operation", "create index", "collection", idx.collection).Wrap(err)
		}
		logger.Debug("mongo index ready", zap.String("collection", idx.collection), zap.String("index", name))
	}
	return nil
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return oops.Errorf("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}
