package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// VetRepository is the credential store.
type VetRepository interface {
	Create(ctx context.Context, vet *domain.Vet) error
	GetByID(ctx context.Context, id string) (*domain.Vet, error)
	GetByEmail(ctx context.Context, email string) (*domain.Vet, error)
	List(ctx context.Context) ([]domain.Vet, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type vetRepository struct {
	db DBTX
}

// NewVetRepository returns a Postgres-backed implementation.
func NewVetRepository(db DBTX) VetRepository {
	return &vetRepository{db: db}
}

const vetColumns = `id, name, crmv, email, password_hash, created_at, updated_at`

func scanVet(row pgx.Row) (*domain.Vet, error) {
	var vet domain.Vet
	if err := row.Scan(
		&vet.ID,
		&vet.Name,
		&vet.CRMV,
		&vet.Email,
		&vet.PasswordHash,
		&vet.CreatedAt,
		&vet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &vet, nil
}

func (r *vetRepository) Create(ctx context.Context, vet *domain.Vet) error {
	const query = `
        INSERT INTO vets (name, crmv, email, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		vet.Name,
		vet.CRMV,
		vet.Email,
		vet.PasswordHash,
	).Scan(&vet.ID, &vet.CreatedAt, &vet.UpdatedAt)
	return wrapErr("create vet", err)
}

func (r *vetRepository) GetByID(ctx context.Context, id string) (*domain.Vet, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	vet, err := scanVet(r.db.QueryRow(ctx, `SELECT `+vetColumns+` FROM vets WHERE id=$1`, id))
	if err != nil {
		return nil, wrapErr("get vet by id", err)
	}
	return vet, nil
}

func (r *vetRepository) GetByEmail(ctx context.Context, email string) (*domain.Vet, error) {
	vet, err := scanVet(r.db.QueryRow(ctx, `SELECT `+vetColumns+` FROM vets WHERE email=$1`, email))
	if err != nil {
		return nil, wrapErr("get vet by email", err)
	}
	return vet, nil
}

func (r *vetRepository) List(ctx context.Context) ([]domain.Vet, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM vets ORDER BY name ASC`)
	if err != nil {
		return nil, wrapErr("list vets", err)
	}
	defer rows.Close()

	vets := make([]domain.Vet, 0)
	for rows.Next() {
		var vet domain.Vet
		if err := rows.Scan(&vet.ID, &vet.Name); err != nil {
			return nil, wrapErr("list vets", err)
		}
		vets = append(vets, vet)
	}
	return vets, wrapErr("list vets", rows.Err())
}

func (r *vetRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if err := parseID(id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE vets SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	if err != nil {
		return wrapErr("update vet password", err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr("update vet password", apperrors.ErrRecordNotFound)
	}
	return nil
}
