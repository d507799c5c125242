package service

import (
	"context"
	"fmt"

	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/evaluation"
	"github.com/rigforge/configurator/common/logger"
)

// SelectionService checks and scores a set of chosen parts
type SelectionService struct {
	catalog   *CatalogService
	engine    *compat.Engine
	evaluator *evaluation.Evaluator
	defaults  compat.Options
	logger    *logger.Logger
}

// NewSelectionService creates a new selection service
func NewSelectionService(
	catalog *CatalogService,
	engine *compat.Engine,
	evaluator *evaluation.Evaluator,
	defaults compat.Options,
	log *logger.Logger,
) *SelectionService {
	return &SelectionService{
		catalog:   catalog,
		engine:    engine,
		evaluator: evaluator,
		defaults:  defaults,
		logger:    log,
	}
}

// Check lists every rule the selection breaks
func (s *SelectionService) Check(ctx context.Context, req *models.SelectionRequest) (*models.CheckResponse, error) {
	sel, err := s.selection(ctx, req)
	if err != nil {
		return nil, err
	}

	violations := s.engine.Check(sel)
	if violations == nil {
		violations = []compat.Violation{}
	}
	return &models.CheckResponse{
		Compatible: len(violations) == 0,
		Violations: violations,
	}, nil
}

// Evaluate scores the selection against every usage profile
func (s *SelectionService) Evaluate(ctx context.Context, req *models.SelectionRequest) ([]evaluation.ProfileResult, error) {
	sel, err := s.selection(ctx, req)
	if err != nil {
		return nil, err
	}

	results, err := s.evaluator.Evaluate(sel)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate build: %w", err)
	}
	return results, nil
}

func (s *SelectionService) selection(ctx context.Context, req *models.SelectionRequest) (compat.Selection, error) {
	opts, err := policyOptions(s.defaults, req.Policy, "")
	if err != nil {
		return compat.Selection{}, err
	}

	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return compat.Selection{}, err
	}

	return compat.SelectionFromIDs(cat, req.IDs(), opts)
}
