package task

import (
	"net/http"
	"taskapp/infras/otel"
	"taskapp/internal/domains/task/model"
	"taskapp/internal/domains/task/model/dto"
	"taskapp/internal/domains/task/service"
	"taskapp/shared"
	"taskapp/shared/constant"
	gDto "taskapp/shared/dto"
	"taskapp/shared/failure"
	"taskapp/shared/validator"
	"taskapp/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Task
	otel    otel.Otel
}

func New(service service.Task, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAllTasks)
		routerGroup.Post("/", handler.CreateTask)
		routerGroup.Get("/search", handler.SearchTasks)
		routerGroup.Get("/status/{completed}", handler.GetTasksByStatus)
		routerGroup.Get("/{id}", handler.GetTaskByID)
		routerGroup.Put("/{id}", handler.UpdateTask)
		routerGroup.Delete("/{id}", handler.DeleteTask)
		routerGroup.Patch("/{id}/toggle", handler.ToggleTaskStatus)
	})
}

func pathID(r *http.Request) (int64, error) {
	id, ok := shared.ConvertStringToInt64(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		return 0, failure.InvalidIDParam
	}

	return id, nil
}

// GetAllTasks lists every task.
// @Summary Get all tasks
// @Tags Task
// @Produce json
// @Param sort_by query string false "Sort column" Enums(id, title, completed)
// @Param sort_dir query string false "Sort direction" Enums(ASC, DESC)
// @Success 200 {array} dto.TaskResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks [get]
func (handler *Handler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, model.SortableFields...)

	tasks, err := handler.service.GetAllTasks(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetTaskByID retrieves a task by its ID.
// @Summary Get a task by ID
// @Tags Task
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [get]
func (handler *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	task, found, err := handler.service.GetTaskByID(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to get task")

		response.WithError(w, err)

		return
	}

	if !found {
		response.WithError(w, failure.NotFoundf("Task not found with id: %d", id))

		return
	}

	response.WithJSON(w, http.StatusOK, task)
}

// GetTasksByStatus lists tasks with the given completion flag.
// @Summary Get tasks by status
// @Tags Task
// @Produce json
// @Param completed path bool true "Completion flag"
// @Success 200 {array} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/status/{completed} [get]
func (handler *Handler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasksByStatus")
	defer scope.End()

	completed := shared.ConvertStringToBool(chi.URLParam(r, constant.RequestParamCompleted))
	if completed == nil {
		response.WithError(w, failure.InvalidStatusParam)

		return
	}

	tasks, err := handler.service.GetTasksByStatus(ctx, *completed)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tasks by status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// SearchTasks lists tasks whose title contains the keyword, ignoring case.
// @Summary Search tasks by title
// @Tags Task
// @Produce json
// @Param keyword query string true "Title substring"
// @Success 200 {array} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/search [get]
func (handler *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchTasks")
	defer scope.End()

	query := r.URL.Query()
	if !query.Has(constant.RequestParamKeyword) {
		response.WithError(w, failure.BadRequestFromString(constant.RequestParamKeyword+" is required"))

		return
	}

	tasks, err := handler.service.SearchTasks(ctx, query.Get(constant.RequestParamKeyword))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// CreateTask stores a new task.
// @Summary Create a task
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task to create"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks [post]
func (handler *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTask")
	defer scope.End()

	req := dto.CreateTaskRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	task, err := handler.service.CreateTask(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Task created successfully")

	response.WithJSON(w, http.StatusCreated, task)
}

// UpdateTask replaces a task's title, description and completion flag.
// @Summary Update a task
// @Tags Task
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Replacement values"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [put]
func (handler *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTask")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTaskRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	task, err := handler.service.UpdateTask(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update task")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task.
// @Summary Delete a task
// @Tags Task
// @Param id path int true "Task ID"
// @Success 204
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [delete]
func (handler *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTask")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err = handler.service.DeleteTask(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete task")

		response.WithError(w, err)

		return
	}

	response.WithNoContent(w)
}

// ToggleTaskStatus flips a task's completion flag.
// @Summary Toggle task completion
// @Tags Task
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id}/toggle [patch]
func (handler *Handler) ToggleTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTaskStatus")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	task, err := handler.service.ToggleTaskStatus(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to toggle task status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, task)
}
