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

const modelColumns = `
	m.id, m.created_at, m.updated_at, m.workspace_id, m.name, m.description,
	m.license, m.audience, m.use_cases, m.limitations, m.trade_offs, m.ethics,
	m.tags,
	(SELECT COUNT(*) FROM model_version mv WHERE mv.model_id = m.id) AS version_count`

var modelSortColumns = map[string]string{
	"name":       "m.name",
	"created_at": "m.created_at",
	"updated_at": "m.updated_at",
}

type modelRepo struct {
	pool *pgxpool.Pool
}

func NewModelRepository(pool *pgxpool.Pool) ports.ModelRepository {
	return &modelRepo{pool: pool}
}

func (r *modelRepo) Create(ctx context.Context, model *domain.Model) error {
	tagsJSON, err := json.Marshal(model.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		INSERT INTO model
			(id, created_at, updated_at, workspace_id, name, description,
			 license, audience, use_cases, limitations, trade_offs, ethics, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err = r.pool.Exec(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		model.WorkspaceID, model.Name, model.Description,
		model.License, model.Audience, model.UseCases,
		model.Limitations, model.TradeOffs, model.Ethics, tagsJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

func (r *modelRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Model, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model m
		WHERE m.id = $1 AND m.workspace_id = $2
	`, modelColumns)

	model, err := scanModel(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}

	if err := r.loadLatestVersion(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (r *modelRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.Model, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model m
		WHERE m.workspace_id = $1 AND m.name = $2
	`, modelColumns)

	model, err := scanModel(r.pool.QueryRow(ctx, query, workspaceID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by name: %w", err)
	}

	if err := r.loadLatestVersion(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (r *modelRepo) Update(ctx context.Context, workspaceID uuid.UUID, model *domain.Model) error {
	tagsJSON, err := json.Marshal(model.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		UPDATE model
		SET name=$1, description=$2, license=$3, audience=$4, use_cases=$5,
			limitations=$6, trade_offs=$7, ethics=$8, tags=$9, updated_at=NOW()
		WHERE id=$10 AND workspace_id=$11
	`
	result, err := r.pool.Exec(ctx, query,
		model.Name, model.Description, model.License, model.Audience,
		model.UseCases, model.Limitations, model.TradeOffs, model.Ethics,
		tagsJSON, model.ID, workspaceID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("update model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	query := `DELETE FROM model WHERE id = $1 AND workspace_id = $2`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.Model, int, error) {
	conditions := []string{"m.workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}
	argPos := 2

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(m.name ILIKE $%d OR m.description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.Tag != "" {
		tagJSON, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, 0, fmt.Errorf("marshal tag filter: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("m.tags @> $%d::jsonb", argPos))
		args = append(args, tagJSON)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM model m WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count models: %w", err)
	}

	orderBy := "m.created_at DESC"
	if col, ok := modelSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", col, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM model m
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, modelColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate model rows: %w", err)
	}

	return models, total, nil
}

// scanModel scans a Model from a pgx.Row (pgx.Rows satisfies it too).
func scanModel(row pgx.Row) (*domain.Model, error) {
	m := &domain.Model{}
	var tagsJSON []byte

	err := row.Scan(
		&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.WorkspaceID, &m.Name, &m.Description,
		&m.License, &m.Audience, &m.UseCases, &m.Limitations, &m.TradeOffs, &m.Ethics,
		&tagsJSON, &m.VersionCount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &m.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return m, nil
}

// loadLatestVersion populates LatestVersion, skipping archived versions.
func (r *modelRepo) loadLatestVersion(ctx context.Context, model *domain.Model) error {
	query := fmt.Sprintf(`
		SELECT %s
		FROM model_version mv
		JOIN model m ON m.id = mv.model_id
		WHERE mv.model_id = $1 AND mv.stage != 'archived'
		ORDER BY mv.number DESC
		LIMIT 1
	`, versionColumns)

	latest, err := scanVersion(r.pool.QueryRow(ctx, query, model.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load latest version: %w", err)
	}
	model.LatestVersion = latest
	return nil
}
