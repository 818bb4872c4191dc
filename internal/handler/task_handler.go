package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// DeleteResponse confirms a deleted task.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ListTasks godoc
// @Summary List tasks ordered by position
// @Tags tasks
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.svc.ListTasks(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create task
// @Description Stores any JSON object as a task. position defaults to 0 and timestamp is set by the server.
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body object true "Task fields"
// @Success 201 {object} object
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var task model.Task
	if err := decodeBody(c, &task); err != nil {
		return err
	}
	created, err := h.svc.CreateTask(c.Request().Context(), task)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateTask godoc
// @Summary Merge fields into a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param patch body object true "Fields to change"
// @Success 200 {object} object
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var patch model.Patch
	if err := decodeBody(c, &patch); err != nil {
		return err
	}
	updated, err := h.svc.UpdateTask(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.DeleteTask(c.Request().Context(), id); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Task deleted successfully", ID: id})
}
