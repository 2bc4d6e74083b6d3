package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"todoevo/infras/otel"
	"todoevo/internal/domains/task/model"
	"todoevo/shared/constant"
	"todoevo/shared/logger"
)

const sqliteTaskColumns = `id, owner_id, title, completed, created_at, updated_at,
	description, priority, tags, due_date, recurrence_pattern`

type sqliteRepository struct {
	db   *sqlx.DB
	otel otel.Otel
}

// NewSqlite returns the embedded-backend implementation of the adapter. The
// owner identifier is stored directly on the row as text.
func NewSqlite(db *sqlx.DB, otl otel.Otel) Task {
	return &sqliteRepository{
		db:   db,
		otel: otl,
	}
}

func (repo *sqliteRepository) Insert(ctx context.Context, task model.Task) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `
	INSERT INTO tasks (owner_id, title, completed, created_at, updated_at,
		description, priority, tags, due_date, recurrence_pattern)
	VALUES (:owner_id, :title, :completed, :created_at, :updated_at,
		:description, :priority, :tags, :due_date, :recurrence_pattern)
	`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := repo.db.NamedExecContext(ctx, query, task)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, classifyError(err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, classifyError(err)
	}

	return id, nil
}

func (repo *sqliteRepository) FindByOwner(ctx context.Context, owner model.OwnerID) (tasks []model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE owner_id = ? ORDER BY id ASC`, sqliteTaskColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tasks = []model.Task{}

	if err = repo.db.SelectContext(ctx, &tasks, query, owner); err != nil {
		logger.ErrorWithStack(err)

		return nil, classifyError(err)
	}

	return tasks, nil
}

func (repo *sqliteRepository) FindOne(ctx context.Context, owner model.OwnerID, id int64) (task model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindOne")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE owner_id = ? AND id = ?`, sqliteTaskColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.GetContext(ctx, &task, query, owner, id); err != nil {
		return task, classifyError(err)
	}

	return task, nil
}

func (repo *sqliteRepository) Update(ctx context.Context, owner model.OwnerID, id int64, patch model.Patch) (task model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	setClauses := []string{"updated_at = ?"}
	args := []any{patch.UpdatedAt}

	if patch.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, *patch.Title)
	}

	if patch.Completed != nil {
		setClauses = append(setClauses, "completed = ?")
		args = append(args, *patch.Completed)
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE owner_id = ? AND id = ?`, strings.Join(setClauses, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args = append(args, owner, id)

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return task, classifyError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return task, classifyError(err)
	}

	if affected == 0 {
		return task, ErrTaskNotFound
	}

	return repo.FindOne(ctx, owner, id)
}

func (repo *sqliteRepository) Delete(ctx context.Context, owner model.OwnerID, id int64) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `DELETE FROM tasks WHERE owner_id = ? AND id = ?`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := repo.db.ExecContext(ctx, query, owner, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return classifyError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return classifyError(err)
	}

	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
