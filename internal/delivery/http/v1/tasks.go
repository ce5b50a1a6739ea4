package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
	"github.com/adanyl0v/taskflow/internal/validation"
)

type getTaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	ProjectID   int64     `json:"projectId"`
	AssignedTo  string    `json:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newGetTaskResponses(tasks []*models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	return response
}

func (h *handlerImpl) handleGetTasks(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.GetTasksByAssignee(c.Request.Context(), identity.ID)
	if err != nil {
		return err
	}

	respond(c, http.StatusOK, "Tasks fetched successfully", newGetTaskResponses(tasks))
	return nil
}

func (h *handlerImpl) handleCreateTask(c *gin.Context) error {
	if _, err := identityFrom(c); err != nil {
		return err
	}

	values, err := h.validateBody(c, validation.CreateTaskSchema, nil)
	if err != nil {
		return err
	}
	projectID := values.Int64("projectId")
	assignedTo := values.String("assignedTo")

	_, err = h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return newNotFoundError(msgProjectNotFound)
		}
		return err
	}

	_, err = h.users.GetUserByID(c.Request.Context(), assignedTo)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return newNotFoundError(msgUserNotFound)
		}
		return err
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), services.CreateTaskParams{
		ProjectID:   projectID,
		AssignedTo:  assignedTo,
		Title:       values.String("title"),
		Description: values.String("description"),
		Status:      values.String("status"),
		DueDate:     values.Time("dueDate"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return newNotFoundError(msgProjectNotFound)
		case errors.Is(err, services.ErrUserNotFound):
			return newNotFoundError(msgUserNotFound)
		}
		return err
	}

	respond(c, http.StatusCreated, "Task created successfully", newGetTaskResponse(task))
	return nil
}

func (h *handlerImpl) handleGetTask(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}

	task, err := h.tasks.GetAssignedTask(c.Request.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return newNotFoundError(msgTaskNotFound)
		}
		return err
	}

	respond(c, http.StatusOK, "Task fetched successfully", newGetTaskResponse(task))
	return nil
}

func (h *handlerImpl) handleUpdateTask(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}

	values, err := h.validateBody(c, validation.UpdateTaskSchema, nil)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), services.UpdateTaskParams{
		ID:          id,
		AssigneeID:  identity.ID,
		Title:       values.StringPtr("title"),
		Description: values.StringPtr("description"),
		DueDate:     values.TimePtr("dueDate"),
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return newNotFoundError(msgTaskNotFound)
		}
		return err
	}

	respond(c, http.StatusOK, "Task updated successfully", newGetTaskResponse(task))
	return nil
}

func (h *handlerImpl) handleUpdateTaskStatus(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}

	values, err := h.validateBody(c, validation.UpdateTaskStatusSchema, nil)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTaskStatus(c.Request.Context(), services.UpdateTaskStatusParams{
		ID:         id,
		AssigneeID: identity.ID,
		Status:     values.String("status"),
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return newNotFoundError(msgTaskNotFound)
		}
		return err
	}

	respond(c, http.StatusOK, "Task updated successfully", newGetTaskResponse(task))
	return nil
}

func (h *handlerImpl) handleDeleteTask(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}

	err = h.tasks.DeleteTask(c.Request.Context(), services.DeleteTaskParams{
		ID:         id,
		AssigneeID: identity.ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return newNotFoundError(msgTaskNotFound)
		}
		return err
	}

	respond(c, http.StatusCreated, "Task deleted successfully", nil)
	return nil
}
