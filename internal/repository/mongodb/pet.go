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

type petDoc struct {
	ID        bson.ObjectID   `bson:"_id"`
	Owner     bson.ObjectID   `bson:"owner"`
	Name      string          `bson:"name"`
	Species   string          `bson:"species"`
	Breed     string          `bson:"breed,omitempty"`
	Age       *int            `bson:"age,omitempty"`
	Weight    *float64        `bson:"weight,omitempty"`
	Anamneses []bson.ObjectID `bson:"anamneses"`
	CreatedAt time.Time       `bson:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

func (d petDoc) toDomain() domain.Pet {
	return domain.Pet{
		ID:        d.ID.Hex(),
		OwnerID:   d.Owner.Hex(),
		Name:      d.Name,
		Species:   d.Species,
		Breed:     d.Breed,
		Age:       d.Age,
		Weight:    d.Weight,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

var petList = listSpec{
	searchFields: []string{"name", "species", "breed"},
	dateField:    "createdAt",
	sortFields: map[string]string{
		"createdAt": "createdAt",
		"updatedAt": "updatedAt",
		"name":      "name",
		"species":   "species",
		"age":       "age",
		"weight":    "weight",
	},
}

type petRepository struct {
	pets      *mongo.Collection
	clients   *mongo.Collection
	anamneses *mongo.Collection
}

// NewPetRepository returns a MongoDB-backed implementation.
func NewPetRepository(db *mongo.Database) repository.PetRepository {
	return &petRepository{
		pets:      db.Collection(persistence.CollectionPets),
		clients:   db.Collection(persistence.CollectionClients),
		anamneses: db.Collection(persistence.CollectionAnamneses),
	}
}

func (r *petRepository) Create(ctx context.Context, pet *domain.Pet) error {
	owner, err := objectID(pet.OwnerID)
	if err != nil {
		return err
	}
	ts := now()
	doc := petDoc{
		ID:        bson.NewObjectID(),
		Owner:     owner,
		Name:      pet.Name,
		Species:   pet.Species,
		Breed:     pet.Breed,
		Age:       pet.Age,
		Weight:    pet.Weight,
		Anamneses: []bson.ObjectID{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.pets.InsertOne(ctx, doc); err != nil {
		return wrapErr("create pet", err)
	}
	if _, err := r.clients.UpdateByID(ctx, owner, bson.M{"$push": bson.M{"pets": doc.ID}}); err != nil {
		return wrapErr("link pet to client", err)
	}
	pet.ID = doc.ID.Hex()
	pet.CreatedAt = ts
	pet.UpdatedAt = ts
	return nil
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc petDoc
	if err := r.pets.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr("get pet", err)
	}
	pet := doc.toDomain()
	return &pet, nil
}

func (r *petRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Pet], error) {
	filter := petList.filter(opts)

	total, err := r.pets.CountDocuments(ctx, filter)
	if err != nil {
		return nil, wrapErr("list pets", err)
	}
	cursor, err := r.pets.Find(ctx, filter, petList.findOptions(opts))
	if err != nil {
		return nil, wrapErr("list pets", err)
	}
	items, err := decodePets(ctx, cursor)
	if err != nil {
		return nil, wrapErr("list pets", err)
	}
	return &domain.Page[domain.Pet]{Items: items, Total: total}, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.pets.Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, wrapErr("list pets by owner", err)
	}
	items, err := decodePets(ctx, cursor)
	return items, wrapErr("list pets by owner", err)
}

func (r *petRepository) Update(ctx context.Context, id string, patch domain.PetPatch) (*domain.Pet, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Species != nil {
		set["species"] = *patch.Species
	}
	if patch.Breed != nil {
		set["breed"] = *patch.Breed
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Weight != nil {
		set["weight"] = *patch.Weight
	}

	var doc petDoc
	err = r.pets.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, wrapErr("update pet", err)
	}
	pet := doc.toDomain()
	return &pet, nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	var doc petDoc
	if err := r.pets.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return wrapErr("delete pet", err)
	}
	if _, err := r.clients.UpdateByID(ctx, doc.Owner, bson.M{"$pull": bson.M{"pets": oid}}); err != nil {
		return wrapErr("unlink pet from client", err)
	}
	if _, err := r.anamneses.DeleteMany(ctx, bson.M{"pet": oid}); err != nil {
		return wrapErr("delete pet anamneses", err)
	}
	return nil
}

func decodePets(ctx context.Context, cursor *mongo.Cursor) ([]domain.Pet, error) {
	var docs []petDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]domain.Pet, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}
