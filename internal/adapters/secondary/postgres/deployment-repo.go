package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

const deploymentColumns = `
	d.id, d.created_at, d.updated_at, d.workspace_id, d.model_version_id,
	d.name, d.namespace, d.status, d.url, d.external_id, d.last_error,
	m.name AS model_name, mv.name AS version_name, mv.stage AS version_stage`

const deploymentJoins = `
	FROM deployment d
	JOIN model_version mv ON mv.id = d.model_version_id
	JOIN model m ON m.id = mv.model_id`

type deploymentRepo struct {
	pool *pgxpool.Pool
}

func NewDeploymentRepository(pool *pgxpool.Pool) ports.DeploymentRepository {
	return &deploymentRepo{pool: pool}
}

func (r *deploymentRepo) Create(ctx context.Context, deployment *domain.Deployment) error {
	query := `
		INSERT INTO deployment
			(id, created_at, updated_at, workspace_id, model_version_id, name, namespace, status, url, external_id, last_error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.pool.Exec(ctx, query,
		deployment.ID, deployment.CreatedAt, deployment.UpdatedAt,
		deployment.WorkspaceID, deployment.ModelVersionID,
		deployment.Name, deployment.Namespace, string(deployment.Status),
		deployment.URL, deployment.ExternalID, deployment.LastError,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return domain.ErrDeploymentNameConflict
			case "23503":
				return domain.ErrVersionNotFound
			}
		}
		return fmt.Errorf("create deployment: %w", err)
	}
	return nil
}

func (r *deploymentRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Deployment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE d.id = $1 AND d.workspace_id = $2
	`, deploymentColumns, deploymentJoins)

	d, err := scanDeployment(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("get deployment by id: %w", err)
	}
	return d, nil
}

func (r *deploymentRepo) Update(ctx context.Context, workspaceID uuid.UUID, deployment *domain.Deployment) error {
	query := `
		UPDATE deployment
		SET status=$1, url=$2, external_id=$3, last_error=$4, updated_at=NOW()
		WHERE id=$5 AND workspace_id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		string(deployment.Status), deployment.URL, deployment.ExternalID,
		deployment.LastError, deployment.ID, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeploymentNotFound
	}
	return nil
}

func (r *deploymentRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	query := `DELETE FROM deployment WHERE id = $1 AND workspace_id = $2`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete deployment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeploymentNotFound
	}
	return nil
}

func (r *deploymentRepo) List(ctx context.Context, filter ports.DeploymentListFilter) ([]*domain.Deployment, int, error) {
	conditions := []string{"d.workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}
	argPos := 2

	if filter.ModelVersionID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("d.model_version_id = $%d", argPos))
		args = append(args, filter.ModelVersionID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM deployment d WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deployments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY d.created_at DESC
		LIMIT $%d OFFSET $%d
	`, deploymentColumns, deploymentJoins, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var deployments []*domain.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan deployment row: %w", err)
		}
		deployments = append(deployments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate deployment rows: %w", err)
	}

	return deployments, total, nil
}

func (r *deploymentRepo) ListActive(ctx context.Context) ([]*domain.Deployment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE d.status IN ('PENDING', 'DEPLOYED')
		ORDER BY d.created_at
	`, deploymentColumns, deploymentJoins)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active deployments: %w", err)
	}
	defer rows.Close()

	deployments := []*domain.Deployment{}
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan active deployment row: %w", err)
		}
		deployments = append(deployments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active deployment rows: %w", err)
	}

	return deployments, nil
}

func scanDeployment(row pgx.Row) (*domain.Deployment, error) {
	d := &domain.Deployment{}
	var status, versionStage string
	err := row.Scan(
		&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.WorkspaceID, &d.ModelVersionID,
		&d.Name, &d.Namespace, &status, &d.URL, &d.ExternalID, &d.LastError,
		&d.ModelName, &d.VersionName, &versionStage,
	)
	if err != nil {
		return nil, err
	}
	d.Status = domain.DeploymentStatus(status)
	d.VersionStage = domain.Stage(versionStage)
	return d, nil
}
