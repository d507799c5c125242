package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/common/apperrors"
)

// MemoryBuildRepository keeps builds in process. It backs the service when
// it runs without Postgres, e.g. against a fixture catalog.
type MemoryBuildRepository struct {
	mu     sync.RWMutex
	builds map[uuid.UUID]models.Build
}

// NewMemoryBuildRepository creates an empty in-memory build store
func NewMemoryBuildRepository() *MemoryBuildRepository {
	return &MemoryBuildRepository{builds: make(map[uuid.UUID]models.Build)}
}

// Create stores a copy of build
func (r *MemoryBuildRepository) Create(ctx context.Context, build *models.Build) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builds[build.ID]; exists {
		return fmt.Errorf("failed to create build: duplicate id %s", build.ID)
	}
	r.builds[build.ID] = *build
	return nil
}

// GetByID retrieves a build by id
func (r *MemoryBuildRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	build, ok := r.builds[id]
	if !ok {
		return nil, fmt.Errorf("%w: build %s", apperrors.ErrNotFound, id)
	}
	return &build, nil
}

// ListByOwner returns an owner's builds, newest first
func (r *MemoryBuildRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var builds []*models.Build
	for _, b := range r.builds {
		if b.Owner == owner {
			b := b
			builds = append(builds, &b)
		}
	}
	sort.Slice(builds, func(i, j int) bool {
		if !builds[i].CreatedAt.Equal(builds[j].CreatedAt) {
			return builds[i].CreatedAt.After(builds[j].CreatedAt)
		}
		return builds[i].ID.String() < builds[j].ID.String()
	})
	if limit > 0 && len(builds) > limit {
		builds = builds[:limit]
	}
	return builds, nil
}
