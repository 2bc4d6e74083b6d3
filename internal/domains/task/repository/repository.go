package repository

import (
	"context"

	"todoevo/internal/domains/task/model"
)

// Task is the storage backend adapter. Both backends implement identical
// call signatures and semantics; every method that touches rows takes the
// owner identifier, so a query without the ownership predicate cannot be
// expressed against this interface.
type Task interface {
	Insert(ctx context.Context, task model.Task) (int64, error)
	FindByOwner(ctx context.Context, owner model.OwnerID) ([]model.Task, error)
	FindOne(ctx context.Context, owner model.OwnerID, id int64) (model.Task, error)
	Update(ctx context.Context, owner model.OwnerID, id int64, patch model.Patch) (model.Task, error)
	Delete(ctx context.Context, owner model.OwnerID, id int64) error
}
