package postgres

import (
	"context"
	"encoding/json"
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

const artifactColumns = `
	a.id, a.created_at, a.updated_at, a.workspace_id, a.name, a.version,
	a.kind, a.uri, a.metadata, a.producer_run_id`

var artifactSortColumns = map[string]string{
	"name":       "a.name",
	"created_at": "a.created_at",
	"updated_at": "a.updated_at",
}

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.ArtifactVersion) error {
	metadataJSON, err := json.Marshal(artifact.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO artifact_version
			(id, created_at, updated_at, workspace_id, name, version, kind, uri, metadata, producer_run_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err = r.pool.Exec(ctx, query,
		artifact.ID, artifact.CreatedAt, artifact.UpdatedAt,
		artifact.WorkspaceID, artifact.Name, artifact.Version,
		string(artifact.Kind), artifact.URI, metadataJSON, artifact.ProducerRunID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return domain.ErrArtifactNameConflict
			case "23503":
				return domain.ErrRunNotFound
			}
		}
		return fmt.Errorf("create artifact version: %w", err)
	}
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ArtifactVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM artifact_version a
		WHERE a.id = $1 AND a.workspace_id = $2
	`, artifactColumns)

	a, err := scanArtifact(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact version by id: %w", err)
	}
	return a, nil
}

// GetByNameVersion fetches one artifact version; an empty version picks the
// newest registered one.
func (r *artifactRepo) GetByNameVersion(ctx context.Context, workspaceID uuid.UUID, name, version string) (*domain.ArtifactVersion, error) {
	conditions := []string{"a.workspace_id = $1", "a.name = $2"}
	args := []interface{}{workspaceID, name}

	if version != "" {
		conditions = append(conditions, "a.version = $3")
		args = append(args, version)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM artifact_version a
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT 1
	`, artifactColumns, strings.Join(conditions, " AND "))

	a, err := scanArtifact(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact version by name: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) Update(ctx context.Context, workspaceID uuid.UUID, artifact *domain.ArtifactVersion) error {
	metadataJSON, err := json.Marshal(artifact.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		UPDATE artifact_version
		SET uri=$1, metadata=$2, updated_at=NOW()
		WHERE id=$3 AND workspace_id=$4
	`
	result, err := r.pool.Exec(ctx, query, artifact.URI, metadataJSON, artifact.ID, workspaceID)
	if err != nil {
		return fmt.Errorf("update artifact version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactNotFound
	}
	return nil
}

func (r *artifactRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	query := `DELETE FROM artifact_version WHERE id = $1 AND workspace_id = $2`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete artifact version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactNotFound
	}
	return nil
}

func (r *artifactRepo) List(ctx context.Context, filter ports.ArtifactListFilter) ([]*domain.ArtifactVersion, int, error) {
	conditions := []string{"a.workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}
	argPos := 2

	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("a.kind = $%d", argPos))
		args = append(args, filter.Kind)
		argPos++
	}
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("a.name = $%d", argPos))
		args = append(args, filter.Name)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("a.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM artifact_version a WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artifact versions: %w", err)
	}

	orderBy := "a.created_at DESC"
	if col, ok := artifactSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", col, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM artifact_version a
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, artifactColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list artifact versions: %w", err)
	}
	defer rows.Close()

	var artifacts []*domain.ArtifactVersion
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan artifact version row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate artifact version rows: %w", err)
	}

	return artifacts, total, nil
}

func (r *artifactRepo) Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error {
	query := `
		INSERT INTO model_version_artifact (id, created_at, model_version_id, artifact_version_id)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (
			SELECT 1 FROM model_version mv
			JOIN model m ON m.id = mv.model_id
			WHERE mv.id = $3 AND m.workspace_id = $5
		) AND EXISTS (
			SELECT 1 FROM artifact_version a
			WHERE a.id = $4 AND a.workspace_id = $5
		)
	`
	result, err := r.pool.Exec(ctx, query, uuid.New(), time.Now(), modelVersionID, artifactID, workspaceID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrArtifactLinkExists
		}
		return fmt.Errorf("link artifact version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *artifactRepo) Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error {
	query := `
		DELETE FROM model_version_artifact
		WHERE model_version_id = $1 AND artifact_version_id = $2
			AND artifact_version_id IN (
				SELECT id FROM artifact_version WHERE workspace_id = $3
			)
	`
	result, err := r.pool.Exec(ctx, query, modelVersionID, artifactID, workspaceID)
	if err != nil {
		return fmt.Errorf("unlink artifact version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactLinkNotFound
	}
	return nil
}

func (r *artifactRepo) ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, kind domain.ArtifactKind) ([]*domain.ArtifactVersion, error) {
	conditions := []string{"l.model_version_id = $1", "a.workspace_id = $2"}
	args := []interface{}{modelVersionID, workspaceID}

	if kind != "" {
		conditions = append(conditions, "a.kind = $3")
		args = append(args, string(kind))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM artifact_version a
		JOIN model_version_artifact l ON l.artifact_version_id = a.id
		WHERE %s
		ORDER BY a.created_at DESC
	`, artifactColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artifacts by model version: %w", err)
	}
	defer rows.Close()

	artifacts := []*domain.ArtifactVersion{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan linked artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate linked artifact rows: %w", err)
	}

	return artifacts, nil
}

func (r *artifactRepo) GetLinkedByName(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, name string, kind domain.ArtifactKind) (*domain.ArtifactVersion, error) {
	conditions := []string{"l.model_version_id = $1", "a.workspace_id = $2", "a.name = $3"}
	args := []interface{}{modelVersionID, workspaceID, name}

	if kind != "" {
		conditions = append(conditions, "a.kind = $4")
		args = append(args, string(kind))
	}

	// Several versions of the same artifact can be linked; newest wins.
	query := fmt.Sprintf(`
		SELECT %s
		FROM artifact_version a
		JOIN model_version_artifact l ON l.artifact_version_id = a.id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT 1
	`, artifactColumns, strings.Join(conditions, " AND "))

	a, err := scanArtifact(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get linked artifact by name: %w", err)
	}
	return a, nil
}

// scanArtifact scans an ArtifactVersion from a pgx.Row (pgx.Rows satisfies it too).
func scanArtifact(row pgx.Row) (*domain.ArtifactVersion, error) {
	a := &domain.ArtifactVersion{}
	var kind string
	var metadataJSON []byte

	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.WorkspaceID, &a.Name, &a.Version,
		&kind, &a.URI, &metadataJSON, &a.ProducerRunID,
	)
	if err != nil {
		return nil, err
	}
	a.Kind = domain.ArtifactKind(kind)

	if err := json.Unmarshal(metadataJSON, &a.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return a, nil
}
