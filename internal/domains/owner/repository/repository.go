package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"todoevo/infras/otel"
	"todoevo/internal/domains/owner/model"
	"todoevo/shared/constant"
	"todoevo/shared/logger"
)

var ErrOwnerNotFound = errors.New("owner not found")

type Owner interface {
	EnsureByName(ctx context.Context, name string) (int64, error)
	FindByName(ctx context.Context, name string) (model.Owner, error)
	Count(ctx context.Context) (int, error)
}

type repositoryImpl struct {
	db   *sqlx.DB
	otel otel.Otel
}

func New(db *sqlx.DB, otl otel.Otel) Owner {
	return &repositoryImpl{
		db:   db,
		otel: otl,
	}
}

// EnsureByName resolves the integer key for an owner name, creating the
// record on first sight. Concurrent callers racing on the same name all
// settle on the same row.
func (repo *repositoryImpl) EnsureByName(ctx context.Context, name string) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".owner.EnsureByName")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `
	INSERT INTO owners (name)
	VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id
	`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.QueryRowxContext(ctx, query, name).Scan(&id); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to ensure data (%s): %w", model.EntityName, err)
	}

	return id, nil
}

func (repo *repositoryImpl) FindByName(ctx context.Context, name string) (owner model.Owner, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".owner.FindByName")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `SELECT id, name, created_at FROM owners WHERE name = $1`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.GetContext(ctx, &owner, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return owner, ErrOwnerNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return owner, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	return owner, nil
}

func (repo *repositoryImpl) Count(ctx context.Context) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".owner.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	const query = `SELECT COUNT(id) FROM owners`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.GetContext(ctx, &count, query); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", model.EntityName, err)
	}

	return count, nil
}
