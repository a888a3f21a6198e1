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

type anamneseDoc struct {
	ID              bson.ObjectID          `bson:"_id"`
	Pet             bson.ObjectID          `bson:"pet"`
	Date            time.Time              `bson:"date"`
	Reason          string                 `bson:"reason"`
	ClinicalHistory domain.ClinicalHistory `bson:"clinicalHistory"`
	Symptoms        domain.Symptoms        `bson:"symptoms"`
	PhysicalExam    domain.PhysicalExam    `bson:"physicalExam"`
	Assessment      string                 `bson:"assessment,omitempty"`
	Plan            string                 `bson:"plan,omitempty"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
}

func (d anamneseDoc) toDomain() domain.Anamnese {
	return domain.Anamnese{
		ID:              d.ID.Hex(),
		PetID:           d.Pet.Hex(),
		Date:            d.Date,
		Reason:          d.Reason,
		ClinicalHistory: d.ClinicalHistory,
		Symptoms:        d.Symptoms,
		PhysicalExam:    d.PhysicalExam,
		Assessment:      d.Assessment,
		Plan:            d.Plan,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

var anamneseList = listSpec{
	searchFields: []string{"reason", "assessment", "plan"},
	dateField:    "date",
	sortFields: map[string]string{
		"createdAt": "createdAt",
		"updatedAt": "updatedAt",
		"date":      "date",
		"reason":    "reason",
	},
}

type anamneseRepository struct {
	anamneses *mongo.Collection
	pets      *mongo.Collection
}

// NewAnamneseRepository returns a MongoDB-backed implementation.
func NewAnamneseRepository(db *mongo.Database) repository.AnamneseRepository {
	return &anamneseRepository{
		anamneses: db.Collection(persistence.CollectionAnamneses),
		pets:      db.Collection(persistence.CollectionPets),
	}
}

func (r *anamneseRepository) Create(ctx context.Context, a *domain.Anamnese) error {
	pet, err := objectID(a.PetID)
	if err != nil {
		return err
	}
	ts := now()
	doc := anamneseDoc{
		ID:              bson.NewObjectID(),
		Pet:             pet,
		Date:            a.Date.UTC().Truncate(time.Millisecond),
		Reason:          a.Reason,
		ClinicalHistory: a.ClinicalHistory,
		Symptoms:        a.Symptoms,
		PhysicalExam:    a.PhysicalExam,
		Assessment:      a.Assessment,
		Plan:            a.Plan,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	if _, err := r.anamneses.InsertOne(ctx, doc); err != nil {
		return wrapErr("create anamnese", err)
	}
	if _, err := r.pets.UpdateByID(ctx, pet, bson.M{"$push": bson.M{"anamneses": doc.ID}}); err != nil {
		return wrapErr("link anamnese to pet", err)
	}
	a.ID = doc.ID.Hex()
	a.Date = doc.Date
	a.CreatedAt = ts
	a.UpdatedAt = ts
	return nil
}

func (r *anamneseRepository) GetByID(ctx context.Context, id string) (*domain.Anamnese, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc anamneseDoc
	if err := r.anamneses.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr("get anamnese", err)
	}
	a := doc.toDomain()
	return &a, nil
}

func (r *anamneseRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Anamnese], error) {
	filter := anamneseList.filter(opts)

	total, err := r.anamneses.CountDocuments(ctx, filter)
	if err != nil {
		return nil, wrapErr("list anamneses", err)
	}
	cursor, err := r.anamneses.Find(ctx, filter, anamneseList.findOptions(opts))
	if err != nil {
		return nil, wrapErr("list anamneses", err)
	}
	items, err := decodeAnamneses(ctx, cursor)
	if err != nil {
		return nil, wrapErr("list anamneses", err)
	}
	return &domain.Page[domain.Anamnese]{Items: items, Total: total}, nil
}

func (r *anamneseRepository) ListByPet(ctx context.Context, petID string) ([]domain.Anamnese, error) {
	pet, err := objectID(petID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.anamneses.Find(ctx, bson.M{"pet": pet}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, wrapErr("list anamneses by pet", err)
	}
	items, err := decodeAnamneses(ctx, cursor)
	return items, wrapErr("list anamneses by pet", err)
}

func decodeAnamneses(ctx context.Context, cursor *mongo.Cursor) ([]domain.Anamnese, error) {
	var docs []anamneseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]domain.Anamnese, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}
