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
)

type clientDoc struct {
	ID        bson.ObjectID   `bson:"_id"`
	Name      string          `bson:"name"`
	Phone     string          `bson:"phone"`
	Email     string          `bson:"email,omitempty"`
	Address   string          `bson:"address,omitempty"`
	Vets      []bson.ObjectID `bson:"vets"`
	Pets      []bson.ObjectID `bson:"pets"`
	CreatedAt time.Time       `bson:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

func (d clientDoc) toDomain() domain.Client {
	return domain.Client{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Address:   d.Address,
		VetIDs:    hexIDs(d.Vets),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

var clientList = listSpec{
	searchFields: []string{"name", "email", "phone", "address"},
	dateField:    "createdAt",
	sortFields: map[string]string{
		"createdAt": "createdAt",
		"updatedAt": "updatedAt",
		"name":      "name",
		"email":     "email",
	},
}

type clientRepository struct {
	clients   *mongo.Collection
	pets      *mongo.Collection
	anamneses *mongo.Collection
}

// NewClientRepository returns a MongoDB-backed implementation.
func NewClientRepository(db *mongo.Database) repository.ClientRepository {
	return &clientRepository{
		clients:   db.Collection(persistence.CollectionClients),
		pets:      db.Collection(persistence.CollectionPets),
		anamneses: db.Collection(persistence.CollectionAnamneses),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	vets, err := objectIDs(client.VetIDs)
	if err != nil {
		return err
	}
	ts := now()
	doc := clientDoc{
		ID:        bson.NewObjectID(),
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     client.Email,
		Address:   client.Address,
		Vets:      vets,
		Pets:      []bson.ObjectID{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.clients.InsertOne(ctx, doc); err != nil {
		return wrapErr("create client", err)
	}
	client.ID = doc.ID.Hex()
	client.CreatedAt = ts
	client.UpdatedAt = ts
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc clientDoc
	if err := r.clients.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr("get client", err)
	}
	client := doc.toDomain()
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error) {
	filter := clientList.filter(opts)

	total, err := r.clients.CountDocuments(ctx, filter)
	if err != nil {
		return nil, wrapErr("list clients", err)
	}
	cursor, err := r.clients.Find(ctx, filter, clientList.findOptions(opts))
	if err != nil {
		return nil, wrapErr("list clients", err)
	}
	var docs []clientDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("list clients", err)
	}

	items := make([]domain.Client, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return &domain.Page[domain.Client]{Items: items, Total: total}, nil
}

func (r *clientRepository) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if len(patch.VetIDs) > 0 {
		vets, err := objectIDs(patch.VetIDs)
		if err != nil {
			return nil, err
		}
		set["vets"] = vets
	}

	var doc clientDoc
	err = r.clients.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, wrapErr("update client", err)
	}
	client := doc.toDomain()
	return &client, nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	var doc clientDoc
	if err := r.clients.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return wrapErr("delete client", err)
	}

	petIDs, err := r.petIDsOf(ctx, oid)
	if err != nil {
		return err
	}
	if len(petIDs) > 0 {
		if _, err := r.anamneses.DeleteMany(ctx, bson.M{"pet": bson.M{"$in": petIDs}}); err != nil {
			return wrapErr("delete client anamneses", err)
		}
	}
	if _, err := r.pets.DeleteMany(ctx, bson.M{"owner": oid}); err != nil {
		return wrapErr("delete client pets", err)
	}
	return nil
}

func (r *clientRepository) petIDsOf(ctx context.Context, owner bson.ObjectID) ([]bson.ObjectID, error) {
	cursor, err := r.pets.Find(ctx, bson.M{"owner": owner}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, wrapErr("list client pets", err)
	}
	var docs []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("list client pets", err)
	}
	ids := make([]bson.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

