package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/taskflow/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Pool is the subset of *pgxpool.Pool the services need.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserService interface {
	// CreateUser inserts a user with an already hashed password.
	//
	// It returns ErrUserAlreadyExists if the username or
	// email is taken, including when a concurrent signup
	// wins the race after UserExists reported false.
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UserExists reports whether any user has the given email or username.
	UserExists(ctx context.Context, email, username string) (bool, error)

	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// GetProjectByID looks a project up regardless of its owner. It is
	// meant for existence checks, not for serving the project.
	GetProjectByID(ctx context.Context, id int64) (*models.Project, error)

	// GetOwnedProject returns ErrProjectNotFound both when the project
	// doesn't exist and when it belongs to someone else.
	GetOwnedProject(ctx context.Context, id int64, ownerID string) (*models.Project, error)

	// GetProjectsByOwnerID returns the owner's projects with their tasks loaded.
	GetProjectsByOwnerID(ctx context.Context, ownerID string) ([]*models.Project, error)

	CountProjectsByOwnerID(ctx context.Context, ownerID string) (int64, error)
	RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error)
	DeleteProject(ctx context.Context, params DeleteProjectParams) error
}

type TaskService interface {
	// CreateTask returns ErrProjectNotFound or ErrUserNotFound when the
	// referenced project or assignee disappeared after the caller checked.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetAssignedTask returns ErrTaskNotFound both when the task doesn't
	// exist and when it is assigned to someone else.
	GetAssignedTask(ctx context.Context, id int64, assigneeID string) (*models.Task, error)

	GetTasksByAssignee(ctx context.Context, assigneeID string) ([]*models.Task, error)
	GetTasksByProjectID(ctx context.Context, projectID int64) ([]*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type CreateUserParams struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
}

type CreateProjectParams struct {
	Name    string
	OwnerID string
}

type RenameProjectParams struct {
	ID      int64
	OwnerID string
	Name    string
}

type DeleteProjectParams struct {
	ID      int64
	OwnerID string
}

type CreateTaskParams struct {
	ProjectID   int64
	AssignedTo  string
	Title       string
	Description string
	Status      string
	DueDate     time.Time
}

// UpdateTaskParams leaves fields with nil values unchanged.
type UpdateTaskParams struct {
	ID          int64
	AssigneeID  string
	Title       *string
	Description *string
	DueDate     *time.Time
}

type UpdateTaskStatusParams struct {
	ID         int64
	AssigneeID string
	Status     string
}

type DeleteTaskParams struct {
	ID         int64
	AssigneeID string
}

func isValidTaskStatus(status string) bool {
	for _, s := range models.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
