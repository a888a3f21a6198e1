package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const testVetID = "6f1c2a4e-1b7a-4c9e-9a53-0d5d0b7b2f11"

func TestVetRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	vet := &domain.Vet{
		Name:         gofakeit.Name(),
		CRMV:         gofakeit.Numerify("#####"),
		Email:        "vet@test.com",
		PasswordHash: "$2a$10$hash",
	}

	mock.ExpectQuery(`INSERT INTO vets`).
		WithArgs(vet.Name, vet.CRMV, vet.Email, vet.PasswordHash).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testVetID, now, now))

	require.NoError(t, NewVetRepository(mock).Create(context.Background(), vet))
	assert.Equal(t, testVetID, vet.ID)
	assert.Equal(t, now, vet.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVetRepository_CreateDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO vets`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, TableName: "vets", ConstraintName: "vets_email_key"})

	err = NewVetRepository(mock).Create(context.Background(), &domain.Vet{Email: "vet@test.com"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Message, "email")
}

func TestVetRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				now := time.Now()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+vetColumns+` FROM vets WHERE email=$1`)).
					WithArgs("vet@test.com").
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "crmv", "email", "password_hash", "created_at", "updated_at"}).
						AddRow(testVetID, "Dr. Test", "1", "vet@test.com", "hash", now, now))
			},
		},
		{
			name: "missing maps to record not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM vets WHERE email`).
					WithArgs("vet@test.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: apperrors.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			vet, err := NewVetRepository(mock).GetByEmail(context.Background(), "vet@test.com")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testVetID, vet.ID)
			assert.Equal(t, "Dr. Test", vet.Name)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVetRepository_GetByIDRejectsMalformedID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewVetRepository(mock).GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVetRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name FROM vets`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(testVetID, "Dr. A").
			AddRow("0b7e6f0c-8f7a-4c1e-9d7e-1f0b2c3d4e5f", "Dr. B"))

	vets, err := NewVetRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, vets, 2)
	assert.Equal(t, "Dr. B", vets[1].Name)
}

func TestVetRepository_UpdatePasswordMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE vets SET password_hash`).
		WithArgs("newhash", testVetID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewVetRepository(mock).UpdatePassword(context.Background(), testVetID, "newhash")
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
}
