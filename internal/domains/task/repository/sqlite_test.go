package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	otelMocks "todoevo/infras/otel/mocks"
	"todoevo/internal/domains/task/model"
	"todoevo/internal/domains/task/repository"
	"todoevo/shared/constant"
)

func newSqliteRepo(t *testing.T) (repository.Task, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, constant.DriverSqlite)

	return repository.NewSqlite(sqlxDB, otelMocks.NewOtel()), mock
}

func taskColumns() []string {
	return []string{
		"id", "owner_id", "title", "completed", "created_at", "updated_at",
		"description", "priority", "tags", "due_date", "recurrence_pattern",
	}
}

func taskRow(id int64, owner, title string, completed bool) *sqlmock.Rows {
	now := time.Now()

	return sqlmock.NewRows(taskColumns()).
		AddRow(id, owner, title, completed, now, now, nil, nil, nil, nil, nil)
}

func TestSqliteRepository_Insert(t *testing.T) {
	repo, mock := newSqliteRepo(t)

	mock.ExpectExec("INSERT INTO tasks").
		WillReturnResult(sqlmock.NewResult(7, 1))

	now := time.Now()
	id, err := repo.Insert(context.Background(), model.Task{
		OwnerID:   "alice",
		Title:     "Buy milk",
		CreatedAt: now,
		UpdatedAt: now,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqliteRepository_FindOne(t *testing.T) {
	t.Run("the lookup is always scoped to the owner", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \? AND id = \?`).
			WithArgs("alice", int64(1)).
			WillReturnRows(taskRow(1, "alice", "Buy milk", false))

		task, err := repo.FindOne(context.Background(), "alice", 1)

		assert.NoError(t, err)
		assert.Equal(t, model.OwnerID("alice"), task.OwnerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("another owner's row answers not found", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \? AND id = \?`).
			WithArgs("bob", int64(1)).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		_, err := repo.FindOne(context.Background(), "bob", 1)

		assert.ErrorIs(t, err, repository.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSqliteRepository_FindByOwner(t *testing.T) {
	t.Run("rows come back in insertion order", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		rows := taskRow(1, "alice", "First", false).
			AddRow(2, "alice", "Second", true, time.Now(), time.Now(), nil, nil, nil, nil, nil)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \? ORDER BY id ASC`).
			WithArgs("alice").
			WillReturnRows(rows)

		tasks, err := repo.FindByOwner(context.Background(), "alice")

		assert.NoError(t, err)
		assert.Len(t, tasks, 2)
		assert.Equal(t, int64(1), tasks[0].ID)
		assert.Equal(t, int64(2), tasks[1].ID)
	})

	t.Run("an unknown owner gets an empty list", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \?`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		tasks, err := repo.FindByOwner(context.Background(), "nobody")

		assert.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestSqliteRepository_Update(t *testing.T) {
	t.Run("zero affected rows is not found", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectExec(`UPDATE tasks SET (.+) WHERE owner_id = \? AND id = \?`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		title := "New title"
		_, err := repo.Update(context.Background(), "bob", 1, model.Patch{Title: &title, UpdatedAt: time.Now()})

		assert.ErrorIs(t, err, repository.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a matched row is re-read after the write", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectExec(`UPDATE tasks SET (.+) WHERE owner_id = \? AND id = \?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \? AND id = \?`).
			WithArgs("alice", int64(1)).
			WillReturnRows(taskRow(1, "alice", "New title", false))

		title := "New title"
		task, err := repo.Update(context.Background(), "alice", 1, model.Patch{Title: &title, UpdatedAt: time.Now()})

		assert.NoError(t, err)
		assert.Equal(t, "New title", task.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSqliteRepository_Delete(t *testing.T) {
	t.Run("a matched row is removed", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectExec(`DELETE FROM tasks WHERE owner_id = \? AND id = \?`).
			WithArgs("alice", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "alice", 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero affected rows is not found", func(t *testing.T) {
		repo, mock := newSqliteRepo(t)

		mock.ExpectExec(`DELETE FROM tasks WHERE owner_id = \? AND id = \?`).
			WithArgs("alice", int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "alice", 404)

		assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	})
}

// Every adapter method runs inside one scope that is ended and given the
// chance to trace its error, read paths included.
func TestSqliteRepository_ScopeInstrumentation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	recorder := otelMocks.NewOtelRecorder()
	repo := repository.NewSqlite(sqlx.NewDb(db, constant.DriverSqlite), recorder)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \? AND id = \?`).
		WillReturnRows(sqlmock.NewRows(taskColumns()))
	mock.ExpectExec(`DELETE FROM tasks WHERE owner_id = \? AND id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, _ = repo.FindOne(context.Background(), "alice", 1)
	_ = repo.Delete(context.Background(), "alice", 1)

	assert.Len(t, recorder.Scopes, 2)
	for _, scope := range recorder.Scopes {
		assert.True(t, scope.Ended, "%s must end its scope", scope.SpanName)
		assert.Equal(t, 1, scope.TraceIfErrorCalls, "%s must report its outcome to the scope", scope.SpanName)
	}
}
