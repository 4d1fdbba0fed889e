package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskapp/infras/otel"
	"taskapp/infras/postgres"
	"taskapp/internal/domains/task/model"
	"taskapp/shared"
	"taskapp/shared/constant"
	gDto "taskapp/shared/dto"
	"taskapp/shared/failure"
	gRepo "taskapp/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Task interface {
	FindAll(ctx context.Context, params gDto.QueryParams) ([]model.Task, error)
	FindByID(ctx context.Context, id int64) (model.Task, error)
	FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Task, error)
	FindByCompleted(ctx context.Context, completed bool) ([]model.Task, error)
	FindByTitleContaining(ctx context.Context, keyword string) ([]model.Task, error)
	Save(ctx context.Context, tx *sqlx.Tx, task model.Task) (model.Task, error)
	DeleteByID(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Task]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Task {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Task](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func byID(id int64) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (r *repositoryImpl) FindAll(ctx context.Context, params gDto.QueryParams) ([]model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindAll")
	defer scope.End()

	return r.GetAll(ctx, params, gDto.FilterGroup{}) //nolint:wrapcheck
}

// FindByID returns the zero Task when id is unknown.
func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByID")
	defer scope.End()

	return r.Get(ctx, byID(id)) //nolint:wrapcheck
}

func (r *repositoryImpl) FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByIDTx")
	defer scope.End()

	if tx == nil {
		return r.Get(ctx, byID(id)) //nolint:wrapcheck
	}

	return r.GetTx(ctx, tx, byID(id)) //nolint:wrapcheck
}

func (r *repositoryImpl) FindByCompleted(ctx context.Context, completed bool) ([]model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByCompleted")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompleted,
				Operator: gDto.FilterOperatorEq,
				Value:    completed,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// FindByTitleContaining matches keyword anywhere in the title, ignoring case.
// Wildcard characters in keyword are matched literally.
func (r *repositoryImpl) FindByTitleContaining(ctx context.Context, keyword string) ([]model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.FindByTitleContaining")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTitle,
				Operator: gDto.FilterOperatorLike,
				Value:    keyword,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// Save inserts task when it has no id yet and otherwise overwrites every column of
// the stored row. A nil tx runs the statement on its own.
func (r *repositoryImpl) Save(ctx context.Context, tx *sqlx.Tx, task model.Task) (model.Task, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Save")
	defer scope.End()

	if !task.Exists() {
		if tx == nil {
			return r.Insert(ctx, task) //nolint:wrapcheck
		}

		return r.InsertTx(ctx, tx, task) //nolint:wrapcheck
	}

	fields := shared.ColumnValues(task, model.FieldID)

	var (
		affected int64
		err      error
	)

	if tx == nil {
		affected, err = r.Update(ctx, fields, byID(task.ID))
	} else {
		affected, err = r.UpdateTx(ctx, tx, fields, byID(task.ID))
	}

	if err != nil {
		scope.TraceError(err)

		return model.Task{}, fmt.Errorf("failed to save task: %w", err)
	}

	if affected == 0 {
		return model.Task{}, failure.NotFoundf("Task not found with id: %d", task.ID) //nolint:wrapcheck
	}

	return task, nil
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, tx *sqlx.Tx, id int64) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.DeleteByID")
	defer scope.End()

	var err error

	if tx == nil {
		_, err = r.Delete(ctx, byID(id))
	} else {
		_, err = r.DeleteTx(ctx, tx, byID(id))
	}

	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
