package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, params services.CreateUserParams) (*models.User, error) {
	args := m.Called(ctx, params)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) UserExists(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockProjectService struct {
	mock.Mock
}

func (m *mockProjectService) CreateProject(ctx context.Context, params services.CreateProjectParams) (*models.Project, error) {
	args := m.Called(ctx, params)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockProjectService) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockProjectService) GetOwnedProject(ctx context.Context, id int64, ownerID string) (*models.Project, error) {
	args := m.Called(ctx, id, ownerID)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockProjectService) GetProjectsByOwnerID(ctx context.Context, ownerID string) ([]*models.Project, error) {
	args := m.Called(ctx, ownerID)
	projects, _ := args.Get(0).([]*models.Project)
	return projects, args.Error(1)
}

func (m *mockProjectService) CountProjectsByOwnerID(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *mockProjectService) RenameProject(ctx context.Context, params services.RenameProjectParams) (*models.Project, error) {
	args := m.Called(ctx, params)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockProjectService) DeleteProject(ctx context.Context, params services.DeleteProjectParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) GetAssignedTask(ctx context.Context, id int64, assigneeID string) (*models.Task, error) {
	args := m.Called(ctx, id, assigneeID)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) GetTasksByAssignee(ctx context.Context, assigneeID string) ([]*models.Task, error) {
	args := m.Called(ctx, assigneeID)
	tasks, _ := args.Get(0).([]*models.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) GetTasksByProjectID(ctx context.Context, projectID int64) ([]*models.Task, error) {
	args := m.Called(ctx, projectID)
	tasks, _ := args.Get(0).([]*models.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) UpdateTaskStatus(ctx context.Context, params services.UpdateTaskStatusParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, params services.DeleteTaskParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
