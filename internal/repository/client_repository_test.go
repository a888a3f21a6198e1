package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const testClientID = "a3d9c1e2-7f4b-4e2a-8c6d-5b1a0f9e8d7c"

func clientRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "phone", "email", "address", "vet_ids", "created_at", "updated_at"})
}

func TestClientRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	opts := domain.ListOptions{Page: 2, Limit: 1, Search: "ana"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM clients WHERE`)).
		WithArgs("%ana%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT .+ FROM clients WHERE .+ LIMIT \$2 OFFSET \$3`).
		WithArgs("%ana%", 1, 1).
		WillReturnRows(clientRows().AddRow(testClientID, "Ana", "11999999999", "", "", []string{testVetID}, now, now))

	page, err := NewClientRepository(mock).List(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, []string{testVetID}, page.Items[0].VetIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_UpdatePartial(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	name := "Ana Maria"
	mock.ExpectQuery(`UPDATE clients SET`).
		WithArgs(testClientID, &name, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(clientRows().AddRow(testClientID, name, "11999999999", "", "", []string{testVetID}, now, now))

	client, err := NewClientRepository(mock).Update(context.Background(), testClientID, domain.ClientPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, client.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_DeleteMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM clients`).
		WithArgs(testClientID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = NewClientRepository(mock).Delete(context.Background(), testClientID)
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
}

func TestClientRepository_CreateRejectsBadVetID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = NewClientRepository(mock).Create(context.Background(), &domain.Client{Name: "Ana", VetIDs: []string{"nope"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
