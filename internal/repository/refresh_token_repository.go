package repository

import (
	"context"
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
)

// RefreshTokenRepository is the session store.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteByVet(ctx context.Context, vetID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db DBTX
}

// NewRefreshTokenRepository returns a Postgres-backed implementation.
func NewRefreshTokenRepository(db DBTX) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (vet_id, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, token.VetID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	return wrapErr("create refresh token", err)
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const query = `
        SELECT id, vet_id, token, expires_at, created_at
        FROM refresh_tokens WHERE token=$1`

	var rt domain.RefreshToken
	if err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID,
		&rt.VetID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	); err != nil {
		return nil, wrapErr("get refresh token", err)
	}
	return &rt, nil
}

func (r *refreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE id=$1`, id)
	return wrapErr("delete refresh token", err)
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token=$1`, token)
	if err != nil {
		return 0, wrapErr("delete refresh token by value", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *refreshTokenRepository) DeleteByVet(ctx context.Context, vetID string) (int64, error) {
	if err := parseID(vetID); err != nil {
		return 0, err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE vet_id=$1`, vetID)
	if err != nil {
		return 0, wrapErr("delete refresh tokens by vet", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrapErr("delete expired refresh tokens", err)
	}
	return cmd.RowsAffected(), nil
}
