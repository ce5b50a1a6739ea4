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

type getProjectResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

type getProjectTasksResponse struct {
	getProjectResponse
	Tasks []getTaskResponse `json:"tasks"`
}

func newGetProjectTasksResponses(projects []*models.Project) []getProjectTasksResponse {
	response := make([]getProjectTasksResponse, len(projects))
	for i, project := range projects {
		response[i] = getProjectTasksResponse{
			getProjectResponse: newGetProjectResponse(project),
			Tasks:              newGetTaskResponses(project.Tasks),
		}
	}
	return response
}

func (h *handlerImpl) handleGetProjects(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.GetProjectsByOwnerID(c.Request.Context(), identity.ID)
	if err != nil {
		return err
	}

	respond(c, http.StatusCreated, "Project fetched successfully", newGetProjectTasksResponses(projects))
	return nil
}

func (h *handlerImpl) handleCreateProject(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	values, err := h.validateBody(c, validation.CreateProjectSchema, nil)
	if err != nil {
		return err
	}

	project, err := h.projects.CreateProject(c.Request.Context(), services.CreateProjectParams{
		Name:    values.String("name"),
		OwnerID: identity.ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return newNotFoundError(msgUserNotFound)
		}
		return err
	}

	respond(c, http.StatusCreated, "Project created successfully", newGetProjectResponse(project))
	return nil
}

func (h *handlerImpl) handleGetProject(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}

	project, err := h.projects.GetOwnedProject(c.Request.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return newNotFoundError(msgProjectNotFound)
		}
		return err
	}

	respond(c, http.StatusCreated, "Project fetched successfully", newGetProjectResponse(project))
	return nil
}

func (h *handlerImpl) handleUpdateProject(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	// The route parameter is validated like any other field so a
	// non-numeric id is reported with the rest of the messages.
	values, err := h.validateBody(c, validation.UpdateProjectSchema, map[string]any{
		"id": c.Param("id"),
	})
	if err != nil {
		return err
	}

	project, err := h.projects.RenameProject(c.Request.Context(), services.RenameProjectParams{
		ID:      values.Int64("id"),
		OwnerID: identity.ID,
		Name:    values.String("name"),
	})
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return newNotFoundError(msgProjectNotFound)
		}
		return err
	}

	respond(c, http.StatusCreated, "Project updated successfully", newGetProjectResponse(project))
	return nil
}

func (h *handlerImpl) handleDeleteProject(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgProjectNotOwned)
	if err != nil {
		return err
	}

	err = h.projects.DeleteProject(c.Request.Context(), services.DeleteProjectParams{
		ID:      id,
		OwnerID: identity.ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return newNotFoundError(msgProjectNotOwned)
		}
		return err
	}

	respond(c, http.StatusCreated, "Project deleted successfully", nil)
	return nil
}

func (h *handlerImpl) handleGetProjectTasks(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}

	project, err := h.projects.GetOwnedProject(c.Request.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return newNotFoundError(msgProjectNotFound)
		}
		return err
	}

	tasks, err := h.tasks.GetTasksByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		return err
	}

	respond(c, http.StatusCreated, "Tasks fetched successfully", newGetTaskResponses(tasks))
	return nil
}
