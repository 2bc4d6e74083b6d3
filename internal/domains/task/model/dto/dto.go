package dto

import (
	"todoevo/internal/domains/task/model"
	"todoevo/shared/constant"
	"todoevo/shared/timezone"
)

type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

func (c *CreateTaskRequest) ToModel(owner model.OwnerID) model.Task {
	now := timezone.Now()

	return model.Task{
		OwnerID:   owner,
		Title:     c.Title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type TaskResponse struct {
	ID        int64  `json:"id"`
	OwnerID   string `json:"owner_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (r *TaskResponse) FromModel(task model.Task) {
	r.ID = task.ID
	r.OwnerID = task.OwnerID.String()
	r.Title = task.Title
	r.Completed = task.Completed
	r.CreatedAt = timezone.Format(task.CreatedAt, constant.DateFormat)
	r.UpdatedAt = timezone.Format(task.UpdatedAt, constant.DateFormat)
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.Task) {
	r.TotalData = len(models)

	r.Tasks = make([]TaskResponse, len(models))
	for i, mod := range models {
		r.Tasks[i].FromModel(mod)
	}
}
