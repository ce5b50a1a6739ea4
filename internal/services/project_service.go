package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/adanyl0v/taskflow/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		Name:      params.Name,
		OwnerID:   params.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     []*models.Task{},
	}

	const insertProjectQuery = `
INSERT INTO projects (name,
                      owner_id,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertProjectQuery,
		project.Name,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			s.logger.Error().
				Str("owner_id", project.OwnerID).
				Msg("project owner not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("owner_id", project.OwnerID).
			Msg("failed to insert project")
		return nil, oops.Code("PROJECT_CREATE_FAILED").With("owner_id", project.OwnerID).Wrap(err)
	}
	s.logger.Debug().
		Int64("project_id", project.ID).
		Msg("inserted project")

	s.logger.Info().
		Int64("project_id", project.ID).
		Str("owner_id", project.OwnerID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	const selectProjectByIDQuery = `
SELECT id, name, owner_id, created_at, updated_at
FROM projects
WHERE id = $1
`
	project, err := scanProject(s.pgPool.QueryRow(ctx, selectProjectByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("project_id", id).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to select project")
		return nil, oops.Code("PROJECT_SELECT_FAILED").With("project_id", id).Wrap(err)
	}
	return project, nil
}

func (s *projectServiceImpl) GetOwnedProject(ctx context.Context, id int64, ownerID string) (*models.Project, error) {
	const selectOwnedProjectQuery = `
SELECT id, name, owner_id, created_at, updated_at
FROM projects
WHERE id = $1 AND owner_id = $2
`
	project, err := scanProject(s.pgPool.QueryRow(ctx, selectOwnedProjectQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("project_id", id).
				Str("owner_id", ownerID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to select owned project")
		return nil, oops.Code("PROJECT_SELECT_FAILED").With("project_id", id).Wrap(err)
	}
	return project, nil
}

func (s *projectServiceImpl) GetProjectsByOwnerID(ctx context.Context, ownerID string) ([]*models.Project, error) {
	const selectProjectsByOwnerIDQuery = `
SELECT id, name, owner_id, created_at, updated_at
FROM projects
WHERE owner_id = $1
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectProjectsByOwnerIDQuery, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", ownerID).
			Msg("failed to select projects by owner id")
		return nil, oops.Code("PROJECT_SELECT_FAILED").With("owner_id", ownerID).Wrap(err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	byID := make(map[int64]*models.Project)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, oops.Code("PROJECT_SCAN_FAILED").Wrap(err)
		}
		projects = append(projects, project)
		byID[project.ID] = project
	}
	if err = rows.Err(); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, oops.Code("PROJECT_SELECT_FAILED").Wrap(err)
	}
	rows.Close()

	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	const selectTasksByProjectIDsQuery = `
SELECT id, project_id, assigned_to, title, description, status, due_date, created_at, updated_at
FROM tasks
WHERE project_id = ANY($1)
ORDER BY id
`
	tasks, err := collectTasks(s.pgPool.Query(ctx, selectTasksByProjectIDsQuery, ids))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", ownerID).
			Msg("failed to select tasks of owned projects")
		return nil, oops.Code("TASK_SELECT_FAILED").With("owner_id", ownerID).Wrap(err)
	}
	for _, task := range tasks {
		if p, ok := byID[task.ProjectID]; ok {
			p.Tasks = append(p.Tasks, task)
		}
	}

	s.logger.Debug().
		Int("count", len(projects)).
		Str("owner_id", ownerID).
		Msg("selected projects by owner id")
	return projects, nil
}

func (s *projectServiceImpl) CountProjectsByOwnerID(ctx context.Context, ownerID string) (int64, error) {
	const countProjectsByOwnerIDQuery = `
SELECT COUNT(*)
FROM projects
WHERE owner_id = $1
`
	var count int64
	err := s.pgPool.QueryRow(ctx, countProjectsByOwnerIDQuery, ownerID).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", ownerID).
			Msg("failed to count projects")
		return 0, oops.Code("PROJECT_COUNT_FAILED").With("owner_id", ownerID).Wrap(err)
	}
	return count, nil
}

func (s *projectServiceImpl) RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error) {
	project := &models.Project{
		ID:        params.ID,
		Name:      params.Name,
		OwnerID:   params.OwnerID,
		UpdatedAt: time.Now(),
		Tasks:     []*models.Task{},
	}

	const updateProjectNameQuery = `
UPDATE projects
SET name = $1,
    updated_at = $2
WHERE id = $3 AND owner_id = $4
RETURNING created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateProjectNameQuery,
		project.Name,
		project.UpdatedAt,
		project.ID,
		project.OwnerID,
	).Scan(&project.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("project_id", project.ID).
				Str("owner_id", project.OwnerID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", project.ID).
			Msg("failed to update project")
		return nil, oops.Code("PROJECT_UPDATE_FAILED").With("project_id", project.ID).Wrap(err)
	}
	s.logger.Debug().
		Int64("project_id", project.ID).
		Msg("updated project")

	s.logger.Info().
		Int64("project_id", project.ID).
		Str("owner_id", project.OwnerID).
		Msg("renamed project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, params DeleteProjectParams) error {
	// Tasks go with the project through ON DELETE CASCADE.
	const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1 AND owner_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteProjectQuery, params.ID, params.OwnerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", params.ID).
			Msg("failed to delete project")
		return oops.Code("PROJECT_DELETE_FAILED").With("project_id", params.ID).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("project_id", params.ID).
			Str("owner_id", params.OwnerID).
			Msg("project not found")
		return ErrProjectNotFound
	}
	s.logger.Debug().
		Int64("project_id", params.ID).
		Msg("deleted project")

	s.logger.Info().
		Int64("project_id", params.ID).
		Str("owner_id", params.OwnerID).
		Msg("deleted project")
	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	project := &models.Project{Tasks: []*models.Task{}}
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}
