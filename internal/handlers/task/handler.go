package task

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"todoevo/infras/otel"
	"todoevo/internal/domains/task/model/dto"
	"todoevo/internal/domains/task/service"
	"todoevo/shared/constant"
	"todoevo/shared/failure"
	"todoevo/shared/validator"
	"todoevo/transport/http/middleware"
	"todoevo/transport/http/response"
)

type Handler struct {
	service    service.Task
	middleware middleware.Owner
	otel       otel.Otel
}

func New(service service.Task, middleware middleware.Owner, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Resolve)

		routerGroup.Post("/", handler.CreateTask)
		routerGroup.Get("/", handler.GetTasks)
		routerGroup.Get("/{id}", handler.GetTaskByID)
		routerGroup.Patch("/{id}/title", handler.UpdateTaskTitle)
		routerGroup.Post("/{id}/toggle", handler.ToggleTaskComplete)
		routerGroup.Delete("/{id}", handler.DeleteTask)
	})
}

// CreateTask creates a new task for the calling owner.
func (handler *Handler) CreateTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTask")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	req := dto.CreateTaskRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, owner, req)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetTasks lists every task belonging to the calling owner.
func (handler *Handler) GetTasks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasks")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	res, err := handler.service.GetAll(ctx, owner)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetTaskByID fetches one task. A task belonging to another owner answers
// the same way as one that does not exist.
func (handler *Handler) GetTaskByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	id, err := parseID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Get(ctx, owner, id)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateTaskTitle replaces the title of one task.
func (handler *Handler) UpdateTaskTitle(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTaskTitle")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	id, err := parseID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateTitleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UpdateTitle(ctx, owner, id, req)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ToggleTaskComplete flips the completion flag of one task.
func (handler *Handler) ToggleTaskComplete(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTaskComplete")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	id, err := parseID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.ToggleComplete(ctx, owner, id)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteTask removes one task permanently.
func (handler *Handler) DeleteTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTask")
	defer scope.End()

	owner, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Validation("missing owner id"))

		return
	}

	id, err := parseID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Delete(ctx, owner, id); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Task deleted successfully")
}

func parseID(request *http.Request) (int64, error) {
	raw := chi.URLParam(request, constant.RequestParamID)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.Validation("task id must be a positive integer") //nolint:wrapcheck
	}

	return id, nil
}
