package tags

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestUpsert_NormalizesName(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(sqlmock.AnyArg(), "school").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "usage_count"}).AddRow("t1", "school", 3))

	tag, err := repo.Upsert(context.Background(), "  School ")
	require.NoError(t, err)
	assert.Equal(t, "school", tag.Name)
	assert.Equal(t, 3, tag.UsageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssociate_IsIdempotent(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO entry_tags").
		WithArgs("e1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Associate(context.Background(), "e1", "t1")
	assert.NoError(t, err, "conflict on existing association must not error")
}

func TestGetByEntryID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT t.id, t.name, t.usage_count").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "usage_count"}).
			AddRow("t1", "school", 2).
			AddRow("t2", "sports", 1))

	got, err := repo.GetByEntryID(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "school", got[0].Name)
	assert.Equal(t, "sports", got[1].Name)
}

func TestDissociateAll(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM entry_tags").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DissociateAll(context.Background(), "e1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
