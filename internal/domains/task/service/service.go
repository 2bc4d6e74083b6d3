package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"todoevo/infras/otel"
	"todoevo/internal/domains/task/model"
	"todoevo/internal/domains/task/model/dto"
	"todoevo/internal/domains/task/repository"
	"todoevo/shared/constant"
	"todoevo/shared/failure"
	"todoevo/shared/timezone"
	"todoevo/shared/validator"
)

// Task is the single code path through which task rows are read or written.
// Every method takes the owner identifier as its first domain parameter;
// there is no overload or default that reaches storage without one.
type Task interface {
	Create(ctx context.Context, owner model.OwnerID, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	GetAll(ctx context.Context, owner model.OwnerID) (dto.GetTasksResponse, error)
	Get(ctx context.Context, owner model.OwnerID, id int64) (dto.TaskResponse, error)
	UpdateTitle(ctx context.Context, owner model.OwnerID, id int64, req dto.UpdateTitleRequest) (dto.TaskResponse, error)
	ToggleComplete(ctx context.Context, owner model.OwnerID, id int64) (dto.TaskResponse, error)
	Delete(ctx context.Context, owner model.OwnerID, id int64) error
}

type serviceImpl struct {
	repo repository.Task
	otel otel.Otel
}

func New(repo repository.Task, otl otel.Otel) Task {
	return &serviceImpl{
		repo: repo,
		otel: otl,
	}
}

func (s *serviceImpl) Create(ctx context.Context, owner model.OwnerID, req dto.CreateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	// Validation order is fixed: owner first, then title, then storage.
	// A failed validation never reaches the backend.
	if err = validateOwner(owner); err != nil {
		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	task := req.ToModel(owner)

	id, err := s.repo.Insert(ctx, task)
	if err != nil {
		log.Error().Err(err).Msg("failed to create task")

		return res, translateStorageError(err)
	}

	task.ID = id
	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, owner model.OwnerID) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateOwner(owner); err != nil {
		return res, err
	}

	tasks, err := s.repo.FindByOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tasks")

		return res, translateStorageError(err)
	}

	res.FromModels(tasks)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, owner model.OwnerID, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateOwner(owner); err != nil {
		return res, err
	}

	task, err := s.repo.FindOne(ctx, owner, id)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			log.Error().Err(err).Msg("failed to get task")
		}

		return res, translateStorageError(err)
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) UpdateTitle(ctx context.Context, owner model.OwnerID, id int64, req dto.UpdateTitleRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.UpdateTitle")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateOwner(owner); err != nil {
		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	patch := model.Patch{
		Title:     &req.Title,
		UpdatedAt: timezone.Now(),
	}

	task, err := s.repo.Update(ctx, owner, id, patch)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			log.Error().Err(err).Msg("failed to update task title")
		}

		return res, translateStorageError(err)
	}

	res.FromModel(task)

	return res, nil
}

// ToggleComplete flips the completion flag: read current state, write its
// negation. Two consecutive calls restore the original value; this is a
// toggle, not a setter.
func (s *serviceImpl) ToggleComplete(ctx context.Context, owner model.OwnerID, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.ToggleComplete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateOwner(owner); err != nil {
		return res, err
	}

	task, err := s.repo.FindOne(ctx, owner, id)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			log.Error().Err(err).Msg("failed to get task for toggle")
		}

		return res, translateStorageError(err)
	}

	toggled := !task.Completed
	patch := model.Patch{
		Completed: &toggled,
		UpdatedAt: timezone.Now(),
	}

	task, err = s.repo.Update(ctx, owner, id, patch)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			log.Error().Err(err).Msg("failed to toggle task completion")
		}

		return res, translateStorageError(err)
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, owner model.OwnerID, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".task.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateOwner(owner); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, owner, id); err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			log.Error().Err(err).Msg("failed to delete task")
		}

		return translateStorageError(err)
	}

	return nil
}

func validateOwner(owner model.OwnerID) error {
	if owner.IsEmpty() {
		return failure.Validation("owner id cannot be empty") //nolint:wrapcheck
	}

	return nil
}

// translateStorageError re-types adapter errors into the operation-level
// taxonomy. Raw backend messages are logged upstream but never returned, so
// schema and file-path details stay out of caller-visible errors.
func translateStorageError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return failure.NotFound(model.EntityName) //nolint:wrapcheck
	case errors.Is(err, repository.ErrConstraintViolation):
		return failure.ConstraintViolation("task violates storage constraints") //nolint:wrapcheck
	case errors.Is(err, repository.ErrStorageUnavailable):
		return failure.StorageUnavailable("task storage unavailable") //nolint:wrapcheck
	default:
		return failure.InternalError(fmt.Errorf("task operation failed: %w", err)) //nolint:wrapcheck
	}
}
