package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "todoevo/infras/otel/mocks"
	taskMocks "todoevo/internal/domains/task/mocks"
	"todoevo/internal/domains/task/model"
	"todoevo/internal/domains/task/model/dto"
	"todoevo/internal/domains/task/repository"
	"todoevo/internal/domains/task/service"
	"todoevo/shared/failure"
)

func TestTaskService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	mockOtel := otelMocks.NewOtel()

	svc := service.New(mockRepo, mockOtel)

	tests := []struct {
		name      string
		owner     model.OwnerID
		req       dto.CreateTaskRequest
		setupMock func()
		wantKind  failure.Kind
	}{
		{
			name:  "successful creation",
			owner: "alice",
			req:   dto.CreateTaskRequest{Title: "Buy milk"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
		},
		{
			name:  "one character title passes",
			owner: "alice",
			req:   dto.CreateTaskRequest{Title: "x"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(2), nil)
			},
		},
		{
			name:  "two hundred character title passes",
			owner: "alice",
			req:   dto.CreateTaskRequest{Title: strings.Repeat("x", 200)},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(3), nil)
			},
		},
		{
			name:      "empty title never reaches storage",
			owner:     "alice",
			req:       dto.CreateTaskRequest{Title: ""},
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:      "oversized title never reaches storage",
			owner:     "alice",
			req:       dto.CreateTaskRequest{Title: strings.Repeat("x", 201)},
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:      "empty owner never reaches storage",
			owner:     "",
			req:       dto.CreateTaskRequest{Title: "Buy milk"},
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:      "whitespace owner never reaches storage",
			owner:     "   ",
			req:       dto.CreateTaskRequest{Title: "Buy milk"},
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:  "storage failure surfaces as unavailable",
			owner: "alice",
			req:   dto.CreateTaskRequest{Title: "Buy milk"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(0), repository.ErrStorageUnavailable)
			},
			wantKind: failure.KindStorageUnavailable,
		},
		{
			name:  "constraint failure surfaces typed",
			owner: "alice",
			req:   dto.CreateTaskRequest{Title: "Buy milk"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(0), repository.ErrConstraintViolation)
			},
			wantKind: failure.KindConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(context.Background(), tt.owner, tt.req)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.Title, res.Title)
			assert.Equal(t, tt.owner.String(), res.OwnerID)
			assert.False(t, res.Completed)
		})
	}
}

func TestTaskService_CreateAssignsTimestampsAndLeavesReservedFieldsNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	var inserted model.Task

	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task model.Task) (int64, error) {
			inserted = task

			return 1, nil
		})

	_, err := svc.Create(context.Background(), "alice", dto.CreateTaskRequest{Title: "Buy milk"})

	assert.NoError(t, err)
	assert.False(t, inserted.CreatedAt.IsZero())
	assert.False(t, inserted.UpdatedAt.Before(inserted.CreatedAt))
	assert.Nil(t, inserted.Description)
	assert.Nil(t, inserted.Priority)
	assert.Nil(t, inserted.Tags)
	assert.Nil(t, inserted.DueDate)
	assert.Nil(t, inserted.RecurrencePattern)
}

func TestTaskService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			FindOne(gomock.Any(), model.OwnerID("alice"), int64(1)).
			Return(model.Task{ID: 1, OwnerID: "alice", Title: "Buy milk", CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil)

		res, err := svc.Get(context.Background(), "alice", 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), res.ID)
	})

	t.Run("missing row and foreign row are the same not found", func(t *testing.T) {
		mockRepo.EXPECT().
			FindOne(gomock.Any(), model.OwnerID("bob"), int64(1)).
			Return(model.Task{}, repository.ErrTaskNotFound)
		mockRepo.EXPECT().
			FindOne(gomock.Any(), model.OwnerID("alice"), int64(999)).
			Return(model.Task{}, repository.ErrTaskNotFound)

		_, errForeign := svc.Get(context.Background(), "bob", 1)
		_, errMissing := svc.Get(context.Background(), "alice", 999)

		assert.Equal(t, errForeign, errMissing)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(errForeign))
	})
}

func TestTaskService_ToggleComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	stored := model.Task{ID: 1, OwnerID: "alice", Title: "Buy milk", Completed: false, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	mockRepo.EXPECT().
		FindOne(gomock.Any(), model.OwnerID("alice"), int64(1)).
		DoAndReturn(func(_ context.Context, _ model.OwnerID, _ int64) (model.Task, error) {
			return stored, nil
		}).
		Times(2)

	mockRepo.EXPECT().
		Update(gomock.Any(), model.OwnerID("alice"), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ model.OwnerID, _ int64, patch model.Patch) (model.Task, error) {
			stored.Completed = *patch.Completed
			stored.UpdatedAt = patch.UpdatedAt

			return stored, nil
		}).
		Times(2)

	first, err := svc.ToggleComplete(context.Background(), "alice", 1)
	assert.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := svc.ToggleComplete(context.Background(), "alice", 1)
	assert.NoError(t, err)
	assert.False(t, second.Completed, "a pair of toggles must restore the original value")
}

func TestTaskService_UpdateTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	t.Run("restamps updated_at and keeps created_at", func(t *testing.T) {
		createdAt := time.Now().Add(-time.Hour)

		mockRepo.EXPECT().
			Update(gomock.Any(), model.OwnerID("alice"), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.OwnerID, _ int64, patch model.Patch) (model.Task, error) {
				assert.NotNil(t, patch.Title)
				assert.Nil(t, patch.Completed)
				assert.False(t, patch.UpdatedAt.Before(createdAt))

				return model.Task{ID: 1, OwnerID: "alice", Title: *patch.Title, CreatedAt: createdAt, UpdatedAt: patch.UpdatedAt}, nil
			})

		res, err := svc.UpdateTitle(context.Background(), "alice", 1, dto.UpdateTitleRequest{Title: "Buy oat milk"})

		assert.NoError(t, err)
		assert.Equal(t, "Buy oat milk", res.Title)
	})

	t.Run("invalid title never reaches storage", func(t *testing.T) {
		_, err := svc.UpdateTitle(context.Background(), "alice", 1, dto.UpdateTitleRequest{Title: strings.Repeat("x", 201)})

		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Update(gomock.Any(), model.OwnerID("alice"), int64(404), gomock.Any()).
			Return(model.Task{}, repository.ErrTaskNotFound)

		_, err := svc.UpdateTitle(context.Background(), "alice", 404, dto.UpdateTitleRequest{Title: "Buy milk"})

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	t.Run("delete then delete again returns the same not found", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().
				Delete(gomock.Any(), model.OwnerID("alice"), int64(1)).
				Return(nil),
			mockRepo.EXPECT().
				Delete(gomock.Any(), model.OwnerID("alice"), int64(1)).
				Return(repository.ErrTaskNotFound),
		)

		assert.NoError(t, svc.Delete(context.Background(), "alice", 1))

		err := svc.Delete(context.Background(), "alice", 1)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("empty owner never reaches storage", func(t *testing.T) {
		err := svc.Delete(context.Background(), "", 1)

		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestTaskService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	svc := service.New(mockRepo, otelMocks.NewOtel())

	t.Run("returns only the owner's tasks", func(t *testing.T) {
		tasks := []model.Task{
			{ID: 1, OwnerID: "alice", Title: "T1", CreatedAt: time.Now(), UpdatedAt: time.Now()},
			{ID: 2, OwnerID: "alice", Title: "T2", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		}

		mockRepo.EXPECT().
			FindByOwner(gomock.Any(), model.OwnerID("alice")).
			Return(tasks, nil)

		res, err := svc.GetAll(context.Background(), "alice")

		assert.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		for _, task := range res.Tasks {
			assert.Equal(t, "alice", task.OwnerID)
		}
	})

	t.Run("no rows is an empty list, not an error", func(t *testing.T) {
		mockRepo.EXPECT().
			FindByOwner(gomock.Any(), model.OwnerID("bob")).
			Return([]model.Task{}, nil)

		res, err := svc.GetAll(context.Background(), "bob")

		assert.NoError(t, err)
		assert.Empty(t, res.Tasks)
	})
}

func TestTaskService_GetScopeInstrumentation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := taskMocks.NewMockTask(ctrl)
	recorder := otelMocks.NewOtelRecorder()
	svc := service.New(mockRepo, recorder)

	mockRepo.EXPECT().
		FindOne(gomock.Any(), model.OwnerID("alice"), int64(404)).
		Return(model.Task{}, repository.ErrTaskNotFound)

	_, err := svc.Get(context.Background(), "alice", 404)

	assert.Error(t, err)
	assert.Len(t, recorder.Scopes, 1)
	assert.True(t, recorder.Scopes[0].Ended)
	assert.Equal(t, 1, recorder.Scopes[0].TraceIfErrorCalls)
}
