package submissions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE submissions (
  id                  TEXT PRIMARY KEY,
  hash                TEXT NOT NULL,
  subject_id          INTEGER NOT NULL,
  article_score       INTEGER NOT NULL,
  shipping_score      INTEGER NOT NULL,
  communication_score INTEGER NOT NULL,
  comment             TEXT NOT NULL DEFAULT '',
  submitted_at        INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestAdd_AssignsIDAndLists(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.UnixMilli(1_700_000_000_000)
	older := &Submission{Hash: "0xaa", SubjectID: 7, Article: 5, Shipping: 4, Communication: 3, Comment: "ok", SubmittedAt: base}
	newer := &Submission{Hash: "0xbb", SubjectID: 8, Article: 1, Shipping: 1, Communication: 1, SubmittedAt: base.Add(time.Minute)}

	require.NoError(t, r.Add(ctx, older))
	require.NoError(t, r.Add(ctx, newer))
	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	got, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0xbb", got[0].Hash)
	assert.Equal(t, "0xaa", got[1].Hash)
	assert.Equal(t, *older, got[1])

	limited, err := r.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "0xbb", limited[0].Hash)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, &Submission{Hash: "0x01", SubjectID: 1, Article: 1, Shipping: 1, Communication: 1}))
	require.NoError(t, r.Clear(ctx))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestList_QueryErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery("SELECT id, hash").WillReturnError(boom)

	_, err = NewSQLiteRepository(db).List(context.Background(), 0)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_ExecErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("constraint failed")
	mock.ExpectExec("INSERT INTO submissions").WillReturnError(boom)

	err = NewSQLiteRepository(db).Add(context.Background(), &Submission{ID: "x", Hash: "0xff", SubmittedAt: time.Now()})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "0xff")
	require.NoError(t, mock.ExpectationsWereMet())
}
