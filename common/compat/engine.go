package compat

import (
	"context"
	"fmt"
	"sort"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/catalog"
)

// Engine resolves compatible parts by evaluating a constraint table
type Engine struct {
	constraints []Constraint
}

// NewEngine builds an engine over the given rules, or the default table
func NewEngine(constraints ...Constraint) *Engine {
	if len(constraints) == 0 {
		constraints = DefaultConstraints()
	}
	sorted := make([]Constraint, len(constraints))
	copy(sorted, constraints)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cost < sorted[j].Cost })
	return &Engine{constraints: sorted}
}

// Result is the compatible subset of one part type, ordered by id
type Result struct {
	Slot  Slot  `json:"part_type"`
	Parts []any `json:"parts"`
	Count int   `json:"count"`
}

// Violation is a failed rule in a selection
type Violation struct {
	Constraint string `json:"constraint"`
	Slots      []Slot `json:"slots"`
	Message    string `json:"message"`
}

// Resolve returns every part of type slot that is compatible with all
// other parts already in sel. The part currently in slot, if any, is
// replaced by each candidate in turn.
func (e *Engine) Resolve(ctx context.Context, cat *catalog.Catalog, slot Slot, sel Selection) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var parts []any
	switch slot {
	case SlotCPU:
		parts = toAny(e.ResolveCPUs(cat, sel))
	case SlotMotherboard:
		parts = toAny(e.ResolveMotherboards(cat, sel))
	case SlotRAM:
		parts = toAny(e.ResolveRAMs(cat, sel))
	case SlotGPU:
		parts = toAny(e.ResolveGPUs(cat, sel))
	case SlotStorage:
		parts = toAny(e.ResolveStorages(cat, sel))
	case SlotPSU:
		parts = toAny(e.ResolvePSUs(cat, sel))
	case SlotCase:
		parts = toAny(e.ResolveCases(cat, sel))
	case SlotCooler:
		parts = toAny(e.ResolveCoolers(cat, sel))
	default:
		return Result{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownPartType, slot)
	}

	return Result{Slot: slot, Parts: parts, Count: len(parts)}, nil
}

func (e *Engine) ResolveCPUs(cat *catalog.Catalog, sel Selection) []*catalog.CPU {
	return resolve(e.rulesFor(SlotCPU), sel, cat.CPUs, func(s Selection, p *catalog.CPU) Selection { s.CPU = p; return s })
}

func (e *Engine) ResolveMotherboards(cat *catalog.Catalog, sel Selection) []*catalog.Motherboard {
	return resolve(e.rulesFor(SlotMotherboard), sel, cat.Motherboards, func(s Selection, p *catalog.Motherboard) Selection { s.Motherboard = p; return s })
}

func (e *Engine) ResolveRAMs(cat *catalog.Catalog, sel Selection) []*catalog.RAM {
	return resolve(e.rulesFor(SlotRAM), sel, cat.RAMs, func(s Selection, p *catalog.RAM) Selection { s.RAM = p; return s })
}

func (e *Engine) ResolveGPUs(cat *catalog.Catalog, sel Selection) []*catalog.GPU {
	return resolve(e.rulesFor(SlotGPU), sel, cat.GPUs, func(s Selection, p *catalog.GPU) Selection { s.GPU = p; return s })
}

func (e *Engine) ResolveStorages(cat *catalog.Catalog, sel Selection) []*catalog.Storage {
	return resolve(e.rulesFor(SlotStorage), sel, cat.Storages, func(s Selection, p *catalog.Storage) Selection { s.Storage = p; return s })
}

func (e *Engine) ResolvePSUs(cat *catalog.Catalog, sel Selection) []*catalog.PSU {
	return resolve(e.rulesFor(SlotPSU), sel, cat.PSUs, func(s Selection, p *catalog.PSU) Selection { s.PSU = p; return s })
}

func (e *Engine) ResolveCases(cat *catalog.Catalog, sel Selection) []*catalog.Case {
	return resolve(e.rulesFor(SlotCase), sel, cat.Cases, func(s Selection, p *catalog.Case) Selection { s.Case = p; return s })
}

func (e *Engine) ResolveCoolers(cat *catalog.Catalog, sel Selection) []*catalog.Cooler {
	return resolve(e.rulesFor(SlotCooler), sel, cat.Coolers, func(s Selection, p *catalog.Cooler) Selection { s.Cooler = p; return s })
}

// Check lists every rule the selection breaks
func (e *Engine) Check(sel Selection) []Violation {
	var out []Violation
	for _, c := range e.constraints {
		if !c.Ready(sel) || c.Check(sel) {
			continue
		}
		v := Violation{Constraint: c.Name, Slots: c.Slots}
		if c.Message != nil {
			v.Message = c.Message(sel)
		}
		out = append(out, v)
	}
	return out
}

// Compatible reports whether the selection breaks no rule
func (e *Engine) Compatible(sel Selection) bool {
	return len(e.Check(sel)) == 0
}

func (e *Engine) rulesFor(slot Slot) []Constraint {
	var rules []Constraint
	for _, c := range e.constraints {
		if c.Involves(slot) {
			rules = append(rules, c)
		}
	}
	return rules
}

func resolve[T any](rules []Constraint, base Selection, items []*T, put func(Selection, *T) Selection) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		candidate := put(base, item)
		if passes(rules, candidate) {
			out = append(out, item)
		}
	}
	return out
}

func passes(rules []Constraint, s Selection) bool {
	for _, c := range rules {
		if c.Ready(s) && !c.Check(s) {
			return false
		}
	}
	return true
}

func toAny[T any](items []*T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
