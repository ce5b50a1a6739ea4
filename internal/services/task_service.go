package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/adanyl0v/taskflow/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.Status == "" {
		params.Status = models.StatusTodo
	}
	if !isValidTaskStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	now := time.Now()
	task := &models.Task{
		ProjectID:   params.ProjectID,
		AssignedTo:  params.AssignedTo,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertTaskQuery = `
INSERT INTO tasks (project_id,
                   assigned_to,
                   title,
                   description,
                   status,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.ProjectID,
		task.AssignedTo,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if isForeignKeyViolation(err) && errors.As(err, &pgErr) {
			s.logger.Error().
				Int64("project_id", task.ProjectID).
				Str("assigned_to", task.AssignedTo).
				Str("constraint", pgErr.ConstraintName).
				Msg("task references a missing row")
			if strings.Contains(pgErr.ConstraintName, "assigned_to") {
				return nil, ErrUserNotFound
			}
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", task.ProjectID).
			Msg("failed to insert task")
		return nil, oops.Code("TASK_CREATE_FAILED").With("project_id", task.ProjectID).Wrap(err)
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("project_id", task.ProjectID).
		Str("assigned_to", task.AssignedTo).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetAssignedTask(ctx context.Context, id int64, assigneeID string) (*models.Task, error) {
	const selectAssignedTaskQuery = `
SELECT id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
FROM tasks
WHERE id = $1 AND assigned_to = $2
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectAssignedTaskQuery, id, assigneeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("task_id", id).
				Str("assignee_id", assigneeID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, oops.Code("TASK_SELECT_FAILED").With("task_id", id).Wrap(err)
	}
	return task, nil
}

func (s *taskServiceImpl) GetTasksByAssignee(ctx context.Context, assigneeID string) ([]*models.Task, error) {
	const selectTasksByAssigneeQuery = `
SELECT id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
FROM tasks
WHERE assigned_to = $1
ORDER BY id
`
	tasks, err := collectTasks(s.pgPool.Query(ctx, selectTasksByAssigneeQuery, assigneeID))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("assignee_id", assigneeID).
			Msg("failed to select tasks by assignee")
		return nil, oops.Code("TASK_SELECT_FAILED").With("assignee_id", assigneeID).Wrap(err)
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("assignee_id", assigneeID).
		Msg("selected tasks by assignee")
	return tasks, nil
}

func (s *taskServiceImpl) GetTasksByProjectID(ctx context.Context, projectID int64) ([]*models.Task, error) {
	const selectTasksByProjectIDQuery = `
SELECT id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
FROM tasks
WHERE project_id = $1
ORDER BY id
`
	tasks, err := collectTasks(s.pgPool.Query(ctx, selectTasksByProjectIDQuery, projectID))
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to select tasks by project id")
		return nil, oops.Code("TASK_SELECT_FAILED").With("project_id", projectID).Wrap(err)
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("project_id", projectID).
		Msg("selected tasks by project id")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	const updateTaskQuery = `
UPDATE tasks
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    due_date = COALESCE($3, due_date),
    updated_at = $4
WHERE id = $5 AND assigned_to = $6
RETURNING id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
`
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.DueDate,
		time.Now(),
		params.ID,
		params.AssigneeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", params.ID).
				Str("assignee_id", params.AssigneeID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to update task")
		return nil, oops.Code("TASK_UPDATE_FAILED").With("task_id", params.ID).Wrap(err)
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("assignee_id", params.AssigneeID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error) {
	if !isValidTaskStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	const updateTaskStatusQuery = `
UPDATE tasks
SET status = $1,
    updated_at = $2
WHERE id = $3 AND assigned_to = $4
RETURNING id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
`
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskStatusQuery,
		params.Status,
		time.Now(),
		params.ID,
		params.AssigneeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", params.ID).
				Str("assignee_id", params.AssigneeID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to update task status")
		return nil, oops.Code("TASK_UPDATE_FAILED").With("task_id", params.ID).Wrap(err)
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Str("status", task.Status).
		Msg("updated task status")

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("assignee_id", params.AssigneeID).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND assigned_to = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, params.ID, params.AssigneeID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to delete task")
		return oops.Code("TASK_DELETE_FAILED").With("task_id", params.ID).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("task_id", params.ID).
			Str("assignee_id", params.AssigneeID).
			Msg("task not found")
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Int64("task_id", params.ID).
		Msg("deleted task")

	s.logger.Info().
		Int64("task_id", params.ID).
		Str("assignee_id", params.AssigneeID).
		Msg("deleted task")
	return nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.AssignedTo,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// collectTasks takes the result of Query directly and always closes rows.
func collectTasks(rows pgx.Rows, err error) ([]*models.Task, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
