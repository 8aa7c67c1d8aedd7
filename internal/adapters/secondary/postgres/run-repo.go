package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

const runColumns = `
	r.id, r.created_at, r.updated_at, r.workspace_id, r.name, r.pipeline_name,
	r.status, r.started_at, r.ended_at`

var runSortColumns = map[string]string{
	"name":       "r.name",
	"created_at": "r.created_at",
	"started_at": "r.started_at",
}

type runRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineRunRepository(pool *pgxpool.Pool) ports.PipelineRunRepository {
	return &runRepo{pool: pool}
}

func (r *runRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		INSERT INTO pipeline_run
			(id, created_at, updated_at, workspace_id, name, pipeline_name, status, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.CreatedAt, run.UpdatedAt,
		run.WorkspaceID, run.Name, run.PipelineName,
		string(run.Status), run.StartedAt, run.EndedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRunNameConflict
		}
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.PipelineRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pipeline_run r
		WHERE r.id = $1 AND r.workspace_id = $2
	`, runColumns)

	run, err := scanRun(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get pipeline run by id: %w", err)
	}
	return run, nil
}

func (r *runRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.PipelineRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pipeline_run r
		WHERE r.workspace_id = $1 AND r.name = $2
	`, runColumns)

	run, err := scanRun(r.pool.QueryRow(ctx, query, workspaceID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get pipeline run by name: %w", err)
	}
	return run, nil
}

func (r *runRepo) Update(ctx context.Context, workspaceID uuid.UUID, run *domain.PipelineRun) error {
	query := `
		UPDATE pipeline_run
		SET status=$1, ended_at=$2, updated_at=NOW()
		WHERE id=$3 AND workspace_id=$4
	`
	result, err := r.pool.Exec(ctx, query, string(run.Status), run.EndedAt, run.ID, workspaceID)
	if err != nil {
		return fmt.Errorf("update pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *runRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	query := `DELETE FROM pipeline_run WHERE id = $1 AND workspace_id = $2`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *runRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	conditions := []string{"r.workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}
	argPos := 2

	if filter.PipelineName != "" {
		conditions = append(conditions, fmt.Sprintf("r.pipeline_name = $%d", argPos))
		args = append(args, filter.PipelineName)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pipeline_run r WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipeline runs: %w", err)
	}

	orderBy := "r.created_at DESC"
	if col, ok := runSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", col, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM pipeline_run r
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pipeline run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pipeline run rows: %w", err)
	}

	return runs, total, nil
}

func (r *runRepo) Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error {
	query := `
		INSERT INTO model_version_run (id, created_at, model_version_id, pipeline_run_id)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (
			SELECT 1 FROM model_version mv
			JOIN model m ON m.id = mv.model_id
			WHERE mv.id = $3 AND m.workspace_id = $5
		) AND EXISTS (
			SELECT 1 FROM pipeline_run pr
			WHERE pr.id = $4 AND pr.workspace_id = $5
		)
	`
	result, err := r.pool.Exec(ctx, query, uuid.New(), time.Now(), modelVersionID, runID, workspaceID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRunLinkExists
		}
		return fmt.Errorf("link pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *runRepo) Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error {
	query := `
		DELETE FROM model_version_run
		WHERE model_version_id = $1 AND pipeline_run_id = $2
			AND pipeline_run_id IN (
				SELECT id FROM pipeline_run WHERE workspace_id = $3
			)
	`
	result, err := r.pool.Exec(ctx, query, modelVersionID, runID, workspaceID)
	if err != nil {
		return fmt.Errorf("unlink pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunLinkNotFound
	}
	return nil
}

func (r *runRepo) ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID) ([]*domain.PipelineRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pipeline_run r
		JOIN model_version_run l ON l.pipeline_run_id = r.id
		WHERE l.model_version_id = $1 AND r.workspace_id = $2
		ORDER BY r.created_at DESC
	`, runColumns)

	rows, err := r.pool.Query(ctx, query, modelVersionID, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list runs by model version: %w", err)
	}
	defer rows.Close()

	runs := []*domain.PipelineRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan linked run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate linked run rows: %w", err)
	}

	return runs, nil
}

func scanRun(row pgx.Row) (*domain.PipelineRun, error) {
	run := &domain.PipelineRun{}
	var status string
	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.UpdatedAt, &run.WorkspaceID,
		&run.Name, &run.PipelineName, &status, &run.StartedAt, &run.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	return run, nil
}
