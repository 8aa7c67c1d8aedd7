package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema statements are ordered so foreign keys always reference tables
// created earlier in the same pass.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS model (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		workspace_id UUID NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		license TEXT NOT NULL DEFAULT '',
		audience TEXT NOT NULL DEFAULT '',
		use_cases TEXT NOT NULL DEFAULT '',
		limitations TEXT NOT NULL DEFAULT '',
		trade_offs TEXT NOT NULL DEFAULT '',
		ethics TEXT NOT NULL DEFAULT '',
		tags JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS model_workspace_name_key
		ON model (workspace_id, name)`,

	`CREATE TABLE IF NOT EXISTS model_version (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		model_id UUID NOT NULL REFERENCES model(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		number INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		stage TEXT NOT NULL DEFAULT 'none',
		tags JSONB NOT NULL DEFAULT '[]',
		metadata JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS model_version_model_name_key
		ON model_version (model_id, name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS model_version_model_number_key
		ON model_version (model_id, number)`,
	`CREATE INDEX IF NOT EXISTS model_version_stage_idx
		ON model_version (model_id, stage)`,

	`CREATE TABLE IF NOT EXISTS pipeline_run (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		workspace_id UUID NOT NULL,
		name TEXT NOT NULL,
		pipeline_name TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS pipeline_run_workspace_name_key
		ON pipeline_run (workspace_id, name)`,

	`CREATE TABLE IF NOT EXISTS artifact_version (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		workspace_id UUID NOT NULL,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		kind TEXT NOT NULL,
		uri TEXT NOT NULL DEFAULT '',
		metadata JSONB NOT NULL DEFAULT '{}',
		producer_run_id UUID REFERENCES pipeline_run(id) ON DELETE SET NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS artifact_version_workspace_name_version_key
		ON artifact_version (workspace_id, name, version)`,

	`CREATE TABLE IF NOT EXISTS model_version_artifact (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		model_version_id UUID NOT NULL REFERENCES model_version(id) ON DELETE CASCADE,
		artifact_version_id UUID NOT NULL REFERENCES artifact_version(id) ON DELETE CASCADE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS model_version_artifact_pair_key
		ON model_version_artifact (model_version_id, artifact_version_id)`,

	`CREATE TABLE IF NOT EXISTS model_version_run (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		model_version_id UUID NOT NULL REFERENCES model_version(id) ON DELETE CASCADE,
		pipeline_run_id UUID NOT NULL REFERENCES pipeline_run(id) ON DELETE CASCADE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS model_version_run_pair_key
		ON model_version_run (model_version_id, pipeline_run_id)`,

	`CREATE TABLE IF NOT EXISTS deployment (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		workspace_id UUID NOT NULL,
		model_version_id UUID NOT NULL REFERENCES model_version(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		namespace TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		last_error TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS deployment_workspace_name_key
		ON deployment (workspace_id, name)`,
	`CREATE INDEX IF NOT EXISTS deployment_status_idx
		ON deployment (status)`,
}

// Migrate applies the schema. Statements are idempotent, so running it on
// every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
