package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"todoevo/infras/otel"
	ownerRepository "todoevo/internal/domains/owner/repository"
	"todoevo/internal/domains/task/model"
	"todoevo/shared/constant"
	"todoevo/shared/logger"
)

const postgresTaskColumns = `t.id, o.name AS owner_id, t.title, t.completed, t.created_at, t.updated_at,
	t.description, t.priority, t.tags, t.due_date, t.recurrence_pattern`

type postgresRepository struct {
	db     *sqlx.DB
	owners ownerRepository.Owner
	otel   otel.Otel
}

// NewPostgres returns the networked-backend implementation of the adapter.
// The opaque owner identifier resolves through the owners table, so the
// physical column is an integer foreign key while the adapter contract is
// unchanged.
func NewPostgres(db *sqlx.DB, owners ownerRepository.Owner, otl otel.Otel) Task {
	return &postgresRepository{
		db:     db,
		owners: owners,
		otel:   otl,
	}
}

func (repo *postgresRepository) Insert(ctx context.Context, task model.Task) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	ownerKey, err := repo.owners.EnsureByName(ctx, task.OwnerID.String())
	if err != nil {
		return 0, classifyError(err)
	}

	const query = `
	INSERT INTO tasks (owner_id, title, completed, created_at, updated_at,
		description, priority, tags, due_date, recurrence_pattern)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id
	`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.QueryRowxContext(ctx, query,
		ownerKey,
		task.Title,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
		task.Description,
		task.Priority,
		task.Tags,
		task.DueDate,
		task.RecurrencePattern,
	).Scan(&id)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, classifyError(err)
	}

	return id, nil
}

func (repo *postgresRepository) FindByOwner(ctx context.Context, owner model.OwnerID) (tasks []model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks t
	JOIN owners o ON o.id = t.owner_id
	WHERE o.name = $1
	ORDER BY t.id ASC
	`, postgresTaskColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tasks = []model.Task{}

	if err = repo.db.SelectContext(ctx, &tasks, query, owner); err != nil {
		logger.ErrorWithStack(err)

		return nil, classifyError(err)
	}

	return tasks, nil
}

func (repo *postgresRepository) FindOne(ctx context.Context, owner model.OwnerID, id int64) (task model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindOne")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks t
	JOIN owners o ON o.id = t.owner_id
	WHERE o.name = $1 AND t.id = $2
	`, postgresTaskColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.GetContext(ctx, &task, query, owner, id); err != nil {
		return task, classifyError(err)
	}

	return task, nil
}

func (repo *postgresRepository) Update(ctx context.Context, owner model.OwnerID, id int64, patch model.Patch) (task model.Task, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	setClauses := []string{"updated_at = $1"}
	args := []any{patch.UpdatedAt}

	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *patch.Title)
	}

	if patch.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", len(args)+1))
		args = append(args, *patch.Completed)
	}

	query := fmt.Sprintf(`
	UPDATE tasks t
	SET %s
	FROM owners o
	WHERE o.id = t.owner_id AND o.name = $%d AND t.id = $%d
	`, strings.Join(setClauses, ", "), len(args)+1, len(args)+2)
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

func (repo *postgresRepository) Delete(ctx context.Context, owner model.OwnerID, id int64) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `
	DELETE FROM tasks t
	USING owners o
	WHERE o.id = t.owner_id AND o.name = $1 AND t.id = $2
	`
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
