package dto

import (
	"taskapp/internal/domains/task/model"
	"time"
)

// CreateTaskRequest is the body of POST /api/tasks. Only nullability is checked.
type CreateTaskRequest struct {
	Title       *string `json:"title"       validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func (c *CreateTaskRequest) ToModel() model.Task {
	return model.Task{
		Title:       deref(c.Title),
		Description: c.Description,
		Completed:   c.Completed,
	}
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Every field replaces the
// stored value, so an omitted description clears it and an omitted completed resets it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// Apply overwrites the mutable fields of task, leaving its id untouched.
func (u *UpdateTaskRequest) Apply(task model.Task) model.Task {
	task.Title = deref(u.Title)
	task.Description = u.Description
	task.Completed = u.Completed

	return task
}

type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func (r *TaskResponse) FromModel(model model.Task) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Completed = model.Completed
}

type TasksResponse []TaskResponse

func (r *TasksResponse) FromModels(models []model.Task) {
	*r = make(TasksResponse, len(models))
	for i, mod := range models {
		(*r)[i].FromModel(mod)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// TaskEvent is published after a mutation commits. Deleted events carry only the id.
type TaskEvent struct {
	Type       string       `json:"type"`
	Task       TaskResponse `json:"task"`
	OccurredAt time.Time    `json:"occurred_at"`
}
