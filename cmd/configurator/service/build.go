package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
)

// DefaultListLimit caps how many builds a list call returns
const DefaultListLimit = 50

// BuildStore persists build snapshots
type BuildStore interface {
	Create(ctx context.Context, build *models.Build) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Build, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*models.Build, error)
}

// BuildService saves, loads and patches builds. Builds are never updated
// in place: a patch stores a new snapshot pointing at its parent.
type BuildService struct {
	store    BuildStore
	catalog  *CatalogService
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time
}

// NewBuildService creates a new build service
func NewBuildService(store BuildStore, catalog *CatalogService, m *metrics.Metrics, log *logger.Logger) *BuildService {
	return &BuildService{
		store:    store,
		catalog:  catalog,
		validate: validator.New(),
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

// Save stores a new build for owner. Every referenced part must exist;
// compatibility is not enforced.
func (s *BuildService) Save(ctx context.Context, owner string, req *models.SaveBuildRequest) (*models.Build, error) {
	return s.create(ctx, owner, req, nil)
}

// Get returns one of owner's builds
func (s *BuildService) Get(ctx context.Context, owner string, id uuid.UUID) (*models.Build, error) {
	build, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if build.Owner != owner {
		return nil, fmt.Errorf("%w: build %s", apperrors.ErrNotFound, id)
	}
	return build, nil
}

// List returns owner's builds, newest first
func (s *BuildService) List(ctx context.Context, owner string, limit int) ([]*models.Build, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	builds, err := s.store.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, err
	}
	if builds == nil {
		builds = []*models.Build{}
	}
	return builds, nil
}

// Patch applies an RFC 6902 patch to the editable view of a build and
// stores the result as a new snapshot.
//
// The editable view is the SaveBuildRequest document:
//
//	{"name": "desk", "cpu": 1, "gpu": 4, ...}
//
// so {"op":"replace","path":"/gpu","value":7} swaps the GPU and
// {"op":"remove","path":"/cooler"} empties the cooler slot.
func (s *BuildService) Patch(ctx context.Context, owner string, id uuid.UUID, patchJSON []byte) (*models.Build, error) {
	parent, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	patched, err := applyPatch(editableView(parent), patchJSON)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, owner, patched, &parent.ID)
}

func (s *BuildService) create(ctx context.Context, owner string, req *models.SaveBuildRequest, parentID *uuid.UUID) (*models.Build, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ids := req.IDs()
	if _, err := compat.SelectionFromIDs(cat, ids, compat.DefaultOptions()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return nil, err
	}

	build := &models.Build{
		ID:        uuid.New(),
		Owner:     owner,
		Name:      req.Name,
		ParentID:  parentID,
		CreatedAt: s.now().UTC(),
	}
	build.SetPartIDs(ids)

	if err := s.store.Create(ctx, build); err != nil {
		return nil, err
	}
	s.metrics.BuildSaved()

	s.logger.Info("build saved",
		"build_id", build.ID,
		"owner", owner,
		"parts", len(ids),
		"parent_id", parentID,
	)

	return build, nil
}

func editableView(b *models.Build) *models.SaveBuildRequest {
	return &models.SaveBuildRequest{
		Name: b.Name,
		SelectionRequest: models.SelectionRequest{
			CPU:         b.CPUID,
			GPU:         b.GPUID,
			Motherboard: b.MotherboardID,
			RAM:         b.RAMID,
			Storage:     b.StorageID,
			PSU:         b.PSUID,
			Case:        b.CaseID,
			Cooler:      b.CoolerID,
		},
	}
}

// applyPatch applies a JSON patch to doc and decodes the result. Fields
// outside the editable view are rejected.
func applyPatch(doc *models.SaveBuildRequest, patchJSON []byte) (*models.SaveBuildRequest, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode patch: %v", apperrors.ErrInvalidInput, err)
	}

	original, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal build: %w", err)
	}

	modified, err := patch.Apply(original)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to apply patch: %v", apperrors.ErrInvalidInput, err)
	}

	var out models.SaveBuildRequest
	dec := json.NewDecoder(bytes.NewReader(modified))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: patched build is invalid: %v", apperrors.ErrInvalidInput, err)
	}
	return &out, nil
}
