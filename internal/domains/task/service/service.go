package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Task=MockTaskService

import (
	"context"
	"fmt"
	"strconv"
	"taskapp/config"
	"taskapp/infras/kafka"
	"taskapp/infras/otel"
	"taskapp/internal/domains/task/model"
	"taskapp/internal/domains/task/model/dto"
	"taskapp/internal/domains/task/repository"
	"taskapp/shared/constant"
	gDto "taskapp/shared/dto"
	"taskapp/shared/failure"
	"taskapp/shared/transaction"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Task interface {
	GetAllTasks(ctx context.Context, params gDto.QueryParams) (dto.TasksResponse, error)
	GetTaskByID(ctx context.Context, id int64) (dto.TaskResponse, bool, error)
	GetTasksByStatus(ctx context.Context, completed bool) (dto.TasksResponse, error)
	SearchTasks(ctx context.Context, keyword string) (dto.TasksResponse, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	UpdateTask(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleTaskStatus(ctx context.Context, id int64) (dto.TaskResponse, error)
}

type serviceImpl struct {
	repo   repository.Task
	tx     transaction.Manager
	events kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(repo repository.Task, tx transaction.Manager, events kafka.Client, cfg *config.Config, otel otel.Otel) Task {
	return &serviceImpl{
		repo:   repo,
		tx:     tx,
		events: events,
		cfg:    cfg,
		otel:   otel,
	}
}

// publish announces a committed change. Delivery failures are logged and never undo the change.
func (s *serviceImpl) publish(ctx context.Context, eventType string, task dto.TaskResponse) {
	event := dto.TaskEvent{
		Type:       eventType,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}

	message := kafka.Message{Key: strconv.FormatInt(task.ID, 10), Value: event}

	if err := s.events.SendMessages(ctx, s.cfg.External.Kafka.Topic, message); err != nil {
		log.Warn().Err(err).Str("event", eventType).Int64("id", task.ID).Msg("failed to publish task event")
	}
}

func notFound(id int64) error {
	return failure.NotFoundf("Task not found with id: %d", id)
}

func (s *serviceImpl) GetAllTasks(ctx context.Context, params gDto.QueryParams) (res dto.TasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllTasks")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tasks, err := s.repo.FindAll(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tasks")

		return res, fmt.Errorf("failed to get tasks: %w", err)
	}

	res.FromModels(tasks)

	return res, nil
}

// GetTaskByID reports absence through found rather than an error.
func (s *serviceImpl) GetTaskByID(ctx context.Context, id int64) (res dto.TaskResponse, found bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTaskByID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("task.id", id)

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get task")

		return res, false, fmt.Errorf("failed to get task: %w", err)
	}

	if !task.Exists() {
		return res, false, nil
	}

	res.FromModel(task)

	return res, true, nil
}

func (s *serviceImpl) GetTasksByStatus(ctx context.Context, completed bool) (res dto.TasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTasksByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tasks, err := s.repo.FindByCompleted(ctx, completed)
	if err != nil {
		log.Error().Err(err).Bool("completed", completed).Msg("failed to get tasks by status")

		return res, fmt.Errorf("failed to get tasks by status: %w", err)
	}

	res.FromModels(tasks)

	return res, nil
}

func (s *serviceImpl) SearchTasks(ctx context.Context, keyword string) (res dto.TasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SearchTasks")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tasks, err := s.repo.FindByTitleContaining(ctx, keyword)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("failed to search tasks")

		return res, fmt.Errorf("failed to search tasks: %w", err)
	}

	res.FromModels(tasks)

	return res, nil
}

func (s *serviceImpl) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateTask")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var saved model.Task

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error

		saved, txErr = s.repo.Save(ctx, tx, req.ToModel())

		return txErr //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create task")

		return res, fmt.Errorf("failed to create task: %w", err)
	}

	res.FromModel(saved)
	s.publish(ctx, model.EventCreated, res)

	return res, nil
}

// UpdateTask replaces title, description and completed of the task with the request's values.
func (s *serviceImpl) UpdateTask(ctx context.Context, id int64, req dto.UpdateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateTask")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("task.id", id)

	var saved model.Task

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		task, txErr := s.repo.FindByIDTx(ctx, tx, id)
		if txErr != nil {
			return txErr //nolint:wrapcheck
		}

		if !task.Exists() {
			return notFound(id)
		}

		saved, txErr = s.repo.Save(ctx, tx, req.Apply(task))

		return txErr //nolint:wrapcheck
	})
	if err != nil {
		if failure.IsNotFound(err) {
			return res, err
		}

		log.Error().Err(err).Int64("id", id).Msg("failed to update task")

		return res, fmt.Errorf("failed to update task: %w", err)
	}

	res.FromModel(saved)
	s.publish(ctx, model.EventUpdated, res)

	return res, nil
}

func (s *serviceImpl) DeleteTask(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteTask")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("task.id", id)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		task, txErr := s.repo.FindByIDTx(ctx, tx, id)
		if txErr != nil {
			return txErr //nolint:wrapcheck
		}

		if !task.Exists() {
			return notFound(id)
		}

		return s.repo.DeleteByID(ctx, tx, id) //nolint:wrapcheck
	})
	if err != nil {
		if failure.IsNotFound(err) {
			return err
		}

		log.Error().Err(err).Int64("id", id).Msg("failed to delete task")

		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publish(ctx, model.EventDeleted, dto.TaskResponse{ID: id})

	return nil
}

func (s *serviceImpl) ToggleTaskStatus(ctx context.Context, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleTaskStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("task.id", id)

	var saved model.Task

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		task, txErr := s.repo.FindByIDTx(ctx, tx, id)
		if txErr != nil {
			return txErr //nolint:wrapcheck
		}

		if !task.Exists() {
			return notFound(id)
		}

		task.Completed = !task.Completed

		saved, txErr = s.repo.Save(ctx, tx, task)

		return txErr //nolint:wrapcheck
	})
	if err != nil {
		if failure.IsNotFound(err) {
			return res, err
		}

		log.Error().Err(err).Int64("id", id).Msg("failed to toggle task status")

		return res, fmt.Errorf("failed to toggle task status: %w", err)
	}

	res.FromModel(saved)
	s.publish(ctx, model.EventToggled, res)

	return res, nil
}
