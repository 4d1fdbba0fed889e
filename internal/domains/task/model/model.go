package model

const (
	TableName  = "tasks"
	EntityName = "task"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// SortableFields are the columns a listing may be ordered by.
var SortableFields = []string{FieldID, FieldTitle, FieldCompleted}

type Task struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Completed   bool    `db:"completed"`
}

// Exists reports whether t was loaded from the store. The zero Task stands for "no row".
func (t Task) Exists() bool {
	return t.ID != 0
}

const (
	EventCreated = "task.created"
	EventUpdated = "task.updated"
	EventToggled = "task.toggled"
	EventDeleted = "task.deleted"
)
