package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// PetRepository persists pets.
type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
	List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Pet], error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error)
	Update(ctx context.Context, id string, patch domain.PetPatch) (*domain.Pet, error)
	Delete(ctx context.Context, id string) error
}

type petRepository struct {
	db DBTX
}

// NewPetRepository returns a Postgres-backed implementation.
func NewPetRepository(db DBTX) PetRepository {
	return &petRepository{db: db}
}

const petColumns = `id, owner_id, name, species, breed, age, weight, created_at, updated_at`

var petList = listSpec{
	table:      "pets",
	columns:    petColumns,
	searchCols: []string{"name", "species", "breed"},
	dateCol:    "created_at",
	sortColumns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"name":      "name",
		"species":   "species",
		"age":       "age",
		"weight":    "weight",
	},
}

func scanPet(row pgx.Row) (domain.Pet, error) {
	var pet domain.Pet
	err := row.Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Age,
		&pet.Weight,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	)
	return pet, err
}

func (r *petRepository) Create(ctx context.Context, pet *domain.Pet) error {
	if err := parseID(pet.OwnerID); err != nil {
		return err
	}

	const query = `
        INSERT INTO pets (owner_id, name, species, breed, age, weight)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		pet.OwnerID,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Age,
		pet.Weight,
	).Scan(&pet.ID, &pet.CreatedAt, &pet.UpdatedAt)
	return wrapErr("create pet", err)
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	pet, err := scanPet(r.db.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id=$1`, id))
	if err != nil {
		return nil, wrapErr("get pet", err)
	}
	return &pet, nil
}

func (r *petRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Pet], error) {
	return listPage(ctx, r.db, "list pets", petList, opts, scanPet)
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	if err := parseID(ownerID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+petColumns+` FROM pets WHERE owner_id=$1 ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, wrapErr("list pets by owner", err)
	}
	defer rows.Close()

	pets := make([]domain.Pet, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, wrapErr("list pets by owner", err)
		}
		pets = append(pets, pet)
	}
	return pets, wrapErr("list pets by owner", rows.Err())
}

func (r *petRepository) Update(ctx context.Context, id string, patch domain.PetPatch) (*domain.Pet, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	const query = `
        UPDATE pets SET
            name=COALESCE($2, name),
            species=COALESCE($3, species),
            breed=COALESCE($4, breed),
            age=COALESCE($5, age),
            weight=COALESCE($6, weight),
            updated_at=NOW()
        WHERE id=$1
        RETURNING ` + petColumns

	pet, err := scanPet(r.db.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Species,
		patch.Breed,
		patch.Age,
		patch.Weight,
	))
	if err != nil {
		return nil, wrapErr("update pet", err)
	}
	return &pet, nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM pets WHERE id=$1`, id)
	if err != nil {
		return wrapErr("delete pet", err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr("delete pet", apperrors.ErrRecordNotFound)
	}
	return nil
}
