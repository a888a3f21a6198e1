package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// ClientRepository persists pet owners.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error)
	Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error)
	// Delete removes the client together with its pets and their anamneses.
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db DBTX
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, phone, email, address, vet_ids, created_at, updated_at`

var clientList = listSpec{
	table:      "clients",
	columns:    clientColumns,
	searchCols: []string{"name", "email", "phone", "address"},
	dateCol:    "created_at",
	sortColumns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"name":      "name",
		"email":     "email",
	},
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Email,
		&client.Address,
		&client.VetIDs,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	return client, err
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	for _, vetID := range client.VetIDs {
		if err := parseID(vetID); err != nil {
			return err
		}
	}

	const query = `
        INSERT INTO clients (name, phone, email, address, vet_ids)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		client.Name,
		client.Phone,
		client.Email,
		client.Address,
		client.VetIDs,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	return wrapErr("create client", err)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	client, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
	if err != nil {
		return nil, wrapErr("get client", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error) {
	return listPage(ctx, r.db, "list clients", clientList, opts, scanClient)
}

func (r *clientRepository) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	var vetIDs any
	if len(patch.VetIDs) > 0 {
		for _, vetID := range patch.VetIDs {
			if err := parseID(vetID); err != nil {
				return nil, err
			}
		}
		vetIDs = patch.VetIDs
	}

	const query = `
        UPDATE clients SET
            name=COALESCE($2, name),
            phone=COALESCE($3, phone),
            email=COALESCE($4, email),
            address=COALESCE($5, address),
            vet_ids=COALESCE($6, vet_ids),
            updated_at=NOW()
        WHERE id=$1
        RETURNING ` + clientColumns

	client, err := scanClient(r.db.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Phone,
		patch.Email,
		patch.Address,
		vetIDs,
	))
	if err != nil {
		return nil, wrapErr("update client", err)
	}
	return &client, nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	// pets and anamneses go with it through ON DELETE CASCADE
	cmd, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return wrapErr("delete client", err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr("delete client", apperrors.ErrRecordNotFound)
	}
	return nil
}
