package postgres

import (
	"context"
	"encoding/json"
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

const versionColumns = `
	mv.id, mv.created_at, mv.updated_at, mv.model_id, mv.name, mv.number,
	mv.description, mv.stage, mv.tags, mv.metadata, m.name AS model_name`

var versionSortColumns = map[string]string{
	"name":       "mv.name",
	"number":     "mv.number",
	"created_at": "mv.created_at",
	"updated_at": "mv.updated_at",
}

type modelVersionRepo struct {
	pool *pgxpool.Pool
}

func NewModelVersionRepository(pool *pgxpool.Pool) ports.ModelVersionRepository {
	return &modelVersionRepo{pool: pool}
}

func (r *modelVersionRepo) Create(ctx context.Context, version *domain.ModelVersion) error {
	tagsJSON, err := json.Marshal(version.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	metadataJSON, err := json.Marshal(version.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	// The number is assigned inside the insert so concurrent creates for
	// the same model collide on the unique index instead of silently
	// sharing a number. An empty name falls back to the number.
	query := `
		INSERT INTO model_version
			(id, created_at, updated_at, model_id, name, number, description, stage, tags, metadata)
		SELECT $1, $2, $3, $4,
			   CASE WHEN $5 = '' THEN next.n::text ELSE $5 END,
			   next.n, $6, $7, $8, $9
		FROM (
			SELECT COALESCE(MAX(number), 0) + 1 AS n
			FROM model_version
			WHERE model_id = $4
		) AS next
		RETURNING number, name
	`
	err = r.pool.QueryRow(ctx, query,
		version.ID, version.CreatedAt, version.UpdatedAt,
		version.ModelID, version.Name, version.Description,
		string(version.Stage), tagsJSON, metadataJSON,
	).Scan(&version.Number, &version.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionNameConflict
		}
		return fmt.Errorf("create model version: %w", err)
	}
	return nil
}

func (r *modelVersionRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.id = $1 AND m.workspace_id = $2
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by id: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, name string) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.model_id = $1 AND mv.name = $2 AND m.workspace_id = $3
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, name, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by name: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetByNumber(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, number int) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.model_id = $1 AND mv.number = $2 AND m.workspace_id = $3
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, number, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by number: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetByStage(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, stage domain.Stage) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.model_id = $1 AND mv.stage = $2 AND m.workspace_id = $3
		LIMIT 1
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, string(stage), workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by stage: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetLatest(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.model_id = $1 AND m.workspace_id = $2 AND mv.stage != 'archived'
		ORDER BY mv.number DESC
		LIMIT 1
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get latest model version: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) Update(ctx context.Context, workspaceID uuid.UUID, version *domain.ModelVersion) error {
	tagsJSON, err := json.Marshal(version.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		UPDATE model_version
		SET name=$1, description=$2, tags=$3, updated_at=NOW()
		WHERE id=$4
			AND model_id IN (
				SELECT id FROM model WHERE workspace_id = $5
			)
	`
	result, err := r.pool.Exec(ctx, query,
		version.Name, version.Description, tagsJSON, version.ID, workspaceID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionNameConflict
		}
		return fmt.Errorf("update model version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *modelVersionRepo) SetStage(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, stage domain.Stage, demoteID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin stage transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if demoteID != nil {
		demoteQuery := `
			UPDATE model_version
			SET stage='archived', updated_at=NOW()
			WHERE id=$1
				AND model_id IN (
					SELECT id FROM model WHERE workspace_id = $2
				)
		`
		if _, err := tx.Exec(ctx, demoteQuery, *demoteID, workspaceID); err != nil {
			return fmt.Errorf("archive stage holder: %w", err)
		}
	}

	query := `
		UPDATE model_version
		SET stage=$1, updated_at=NOW()
		WHERE id=$2
			AND model_id IN (
				SELECT id FROM model WHERE workspace_id = $3
			)
	`
	result, err := tx.Exec(ctx, query, string(stage), versionID, workspaceID)
	if err != nil {
		return fmt.Errorf("set model version stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}

	return tx.Commit(ctx)
}

func (r *modelVersionRepo) MergeMetadata(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, entries map[string]any) error {
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal metadata entries: %w", err)
	}

	// jsonb || upserts the given keys and leaves the rest untouched.
	query := `
		UPDATE model_version
		SET metadata = metadata || $1::jsonb, updated_at=NOW()
		WHERE id=$2
			AND model_id IN (
				SELECT id FROM model WHERE workspace_id = $3
			)
	`
	result, err := r.pool.Exec(ctx, query, entriesJSON, versionID, workspaceID)
	if err != nil {
		return fmt.Errorf("merge model version metadata: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *modelVersionRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	query := `
		DELETE FROM model_version
		WHERE id=$1
			AND model_id IN (
				SELECT id FROM model WHERE workspace_id = $2
			)
	`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete model version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *modelVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	conditions := []string{"m.workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}
	argPos := 2

	if filter.ModelID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("mv.model_id = $%d", argPos))
		args = append(args, filter.ModelID)
		argPos++
	}
	if filter.Stage != "" {
		conditions = append(conditions, fmt.Sprintf("mv.stage = $%d", argPos))
		args = append(args, filter.Stage)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("mv.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")
	joinClause := "JOIN model m ON m.id = mv.model_id"

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM model_version mv %s WHERE %s", joinClause, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count model versions: %w", err)
	}

	orderBy := "mv.number DESC"
	if col, ok := versionSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", col, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, versionColumns, joinClause, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.ModelVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate model version rows: %w", err)
	}

	return versions, total, nil
}

// scanVersion scans a ModelVersion from a pgx.Row (pgx.Rows satisfies it too).
func scanVersion(row pgx.Row) (*domain.ModelVersion, error) {
	v := &domain.ModelVersion{}
	var stage string
	var tagsJSON, metadataJSON []byte

	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.ModelID, &v.Name, &v.Number,
		&v.Description, &stage, &tagsJSON, &metadataJSON, &v.ModelName,
	)
	if err != nil {
		return nil, err
	}
	v.Stage = domain.Stage(stage)

	if err := json.Unmarshal(tagsJSON, &v.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &v.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return v, nil
}
