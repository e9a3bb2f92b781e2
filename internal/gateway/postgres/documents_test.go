package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

func setupDocuments(t *testing.T) (*Documents, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewDocuments(db), mock, db
}

func TestDocuments_List(t *testing.T) {
	docs, mock, db := setupDocuments(t)
	defer db.Close()

	t.Run("orders by a data field", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1 ORDER BY data -> \$2 DESC`).
			WithArgs("products", "createdAt").
			WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
				AddRow("p2", []byte(`{"title":"Table","createdAt":200}`)).
				AddRow("p1", []byte(`{"title":"Chaise","images":["x.jpg"],"createdAt":100}`)))

		list, err := docs.List(context.Background(), "products", gateway.Query{OrderBy: "createdAt", Desc: true})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "p2", list[0].ID)
		assert.Equal(t, "Chaise", list[1].Data["title"])
		assert.Equal(t, []interface{}{"x.jpg"}, list[1].Data["images"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unsafe order fields", func(t *testing.T) {
		_, err := docs.List(context.Background(), "products", gateway.Query{OrderBy: "x; DROP TABLE documents"})
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocuments_Get(t *testing.T) {
	docs, mock, db := setupDocuments(t)
	defer db.Close()

	t.Run("returns data", func(t *testing.T) {
		mock.ExpectQuery(`SELECT data FROM documents`).
			WithArgs("users", "u1").
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"name":"Ada","role":"admin"}`)))

		doc, err := docs.Get(context.Background(), "users", "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", doc.ID)
		assert.Equal(t, "admin", doc.Data["role"])
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT data FROM documents`).
			WithArgs("users", "missing").
			WillReturnError(sql.ErrNoRows)

		_, err := docs.Get(context.Background(), "users", "missing")
		assert.ErrorIs(t, err, gateway.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocuments_Writes(t *testing.T) {
	docs, mock, db := setupDocuments(t)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO documents \(collection, id, data\) VALUES`).
		WithArgs("products", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	id, err := docs.Add(ctx, "products", map[string]interface{}{"title": "Chaise"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	mock.ExpectExec(`ON CONFLICT \(collection, id\) DO UPDATE`).
		WithArgs("users", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, docs.Set(ctx, "users", "u1", map[string]interface{}{"name": "Ada"}))

	mock.ExpectExec(`UPDATE documents SET data = data \|\| \$3::jsonb`).
		WithArgs("products", id, []byte(`{"price":5000}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, docs.Update(ctx, "products", id, map[string]interface{}{"price": 5000}))

	mock.ExpectExec(`UPDATE documents SET data`).
		WithArgs("products", "gone", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, docs.Update(ctx, "products", "gone", map[string]interface{}{"price": 1}), gateway.ErrNotFound)

	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("products", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, docs.Delete(ctx, "products", id))

	require.NoError(t, mock.ExpectationsWereMet())
}
