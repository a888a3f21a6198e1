package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vetclinic-service/internal/domain"
)

// AnamneseRepository persists clinical intake records.
type AnamneseRepository interface {
	Create(ctx context.Context, anamnese *domain.Anamnese) error
	GetByID(ctx context.Context, id string) (*domain.Anamnese, error)
	List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Anamnese], error)
	ListByPet(ctx context.Context, petID string) ([]domain.Anamnese, error)
}

type anamneseRepository struct {
	db DBTX
}

// NewAnamneseRepository returns a Postgres-backed implementation.
func NewAnamneseRepository(db DBTX) AnamneseRepository {
	return &anamneseRepository{db: db}
}

const anamneseColumns = `id, pet_id, date, reason, clinical_history, symptoms, physical_exam, assessment, plan, created_at, updated_at`

var anamneseList = listSpec{
	table:      "anamneses",
	columns:    anamneseColumns,
	searchCols: []string{"reason", "assessment", "plan"},
	dateCol:    "date",
	sortColumns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"date":      "date",
		"reason":    "reason",
	},
}

func scanAnamnese(row pgx.Row) (domain.Anamnese, error) {
	var a domain.Anamnese
	err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.Date,
		&a.Reason,
		&a.ClinicalHistory,
		&a.Symptoms,
		&a.PhysicalExam,
		&a.Assessment,
		&a.Plan,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *anamneseRepository) Create(ctx context.Context, a *domain.Anamnese) error {
	if err := parseID(a.PetID); err != nil {
		return err
	}

	const query = `
        INSERT INTO anamneses (pet_id, date, reason, clinical_history, symptoms, physical_exam, assessment, plan)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		a.PetID,
		a.Date,
		a.Reason,
		a.ClinicalHistory,
		a.Symptoms,
		a.PhysicalExam,
		a.Assessment,
		a.Plan,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return wrapErr("create anamnese", err)
}

func (r *anamneseRepository) GetByID(ctx context.Context, id string) (*domain.Anamnese, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	a, err := scanAnamnese(r.db.QueryRow(ctx, `SELECT `+anamneseColumns+` FROM anamneses WHERE id=$1`, id))
	if err != nil {
		return nil, wrapErr("get anamnese", err)
	}
	return &a, nil
}

func (r *anamneseRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Anamnese], error) {
	return listPage(ctx, r.db, "list anamneses", anamneseList, opts, scanAnamnese)
}

func (r *anamneseRepository) ListByPet(ctx context.Context, petID string) ([]domain.Anamnese, error) {
	if err := parseID(petID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+anamneseColumns+` FROM anamneses WHERE pet_id=$1 ORDER BY date DESC`, petID)
	if err != nil {
		return nil, wrapErr("list anamneses by pet", err)
	}
	defer rows.Close()

	out := make([]domain.Anamnese, 0)
	for rows.Next() {
		a, err := scanAnamnese(rows)
		if err != nil {
			return nil, wrapErr("list anamneses by pet", err)
		}
		out = append(out, a)
	}
	return out, wrapErr("list anamneses by pet", rows.Err())
}
