package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/db"
)

// BuildRepository handles database operations for saved builds
type BuildRepository struct {
	db *db.DB
}

// NewBuildRepository creates a new build repository
func NewBuildRepository(db *db.DB) *BuildRepository {
	return &BuildRepository{db: db}
}

const buildColumns = `id, owner, name, cpu_id, gpu_id, motherboard_id, ram_id, storage_id,
		       psu_id, case_id, cooler_id, parent_id, created_at`

// Create inserts a new build snapshot
func (r *BuildRepository) Create(ctx context.Context, build *models.Build) error {
	query := `
		INSERT INTO build (id, owner, name, cpu_id, gpu_id, motherboard_id, ram_id, storage_id,
		                   psu_id, case_id, cooler_id, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		build.ID,
		build.Owner,
		build.Name,
		build.CPUID,
		build.GPUID,
		build.MotherboardID,
		build.RAMID,
		build.StorageID,
		build.PSUID,
		build.CaseID,
		build.CoolerID,
		build.ParentID,
		build.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}

	return nil
}

// GetByID retrieves a build by id
func (r *BuildRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Build, error) {
	query := `
		SELECT ` + buildColumns + `
		FROM build
		WHERE id = $1
	`

	build, err := scanBuild(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: build %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}

	return build, nil
}

// ListByOwner returns an owner's builds, newest first
func (r *BuildRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*models.Build, error) {
	query := `
		SELECT ` + buildColumns + `
		FROM build
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []*models.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, build)
	}

	return builds, rows.Err()
}

func scanBuild(row pgx.Row) (*models.Build, error) {
	build := &models.Build{}
	err := row.Scan(
		&build.ID,
		&build.Owner,
		&build.Name,
		&build.CPUID,
		&build.GPUID,
		&build.MotherboardID,
		&build.RAMID,
		&build.StorageID,
		&build.PSUID,
		&build.CaseID,
		&build.CoolerID,
		&build.ParentID,
		&build.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return build, nil
}
