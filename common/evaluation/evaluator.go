package evaluation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/rigforge/configurator/common/compat"
)

// NoBuildID is reported when nothing has been selected yet
const NoBuildID = "no_build"

// ProfileResult is how well a build suits one profile
type ProfileResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TotalScore  int      `json:"total_score"`
	Feedback    []string `json:"feedback"`
}

// Evaluator scores selections against profiles using CEL rules
type Evaluator struct {
	profiles []Profile
	env      *cel.Env
	cache    map[string]cel.Program
	mu       sync.RWMutex
}

// NewEvaluator compiles every rule of the given profiles, or of the default
// profiles when none are given.
func NewEvaluator(profiles ...Profile) (*Evaluator, error) {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}

	env, err := cel.NewEnv(
		cel.Variable("build", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	e := &Evaluator{
		profiles: profiles,
		env:      env,
		cache:    make(map[string]cel.Program),
	}
	for _, p := range profiles {
		for _, r := range p.Rules {
			for _, c := range r.Cases {
				if _, err := e.program(c.When); err != nil {
					return nil, fmt.Errorf("profile %s rule %q: %w", p.ID, r.Name, err)
				}
			}
		}
	}
	return e, nil
}

// Evaluate scores the selection against every profile, best first. A rule
// contributes only when one of its cases matches with a non-zero score.
func (e *Evaluator) Evaluate(sel compat.Selection) ([]ProfileResult, error) {
	if sel.Empty() {
		return []ProfileResult{{
			ID:          NoBuildID,
			Name:        "Start a build",
			Description: "Select components to see what the build suits.",
			Feedback:    []string{"Pick any component to start the evaluation."},
		}}, nil
	}

	vars := map[string]interface{}{"build": Activation(sel)}
	results := make([]ProfileResult, 0, len(e.profiles))

	for _, p := range e.profiles {
		res := ProfileResult{ID: p.ID, Name: p.Name, Description: p.Description, Feedback: []string{}}
		for _, r := range p.Rules {
			c, err := e.firstMatch(r, vars)
			if err != nil {
				return nil, fmt.Errorf("profile %s rule %q: %w", p.ID, r.Name, err)
			}
			if c == nil || c.Score == 0 || c.Feedback == "" {
				continue
			}
			res.TotalScore += c.Score
			res.Feedback = append(res.Feedback, c.Feedback)
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results, nil
}

func (e *Evaluator) firstMatch(r Rule, vars map[string]interface{}) (*Case, error) {
	for i := range r.Cases {
		ok, err := e.eval(r.Cases[i].When, vars)
		if err != nil {
			return nil, err
		}
		if ok {
			return &r.Cases[i], nil
		}
	}
	return nil, nil
}

func (e *Evaluator) eval(expr string, vars map[string]interface{}) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean, got %T", out.Value())
	}
	return result, nil
}

// program returns the compiled expression, compiling and caching on first use
func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, exists := e.cache[expr]
	e.mu.RUnlock()
	if exists {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	e.mu.Lock()
	e.cache[expr] = prg
	e.mu.Unlock()
	return prg, nil
}

// CacheSize returns the number of compiled expressions
func (e *Evaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// Activation flattens the selected parts into the map rules are evaluated
// against. Parts that are not selected are left out.
func Activation(sel compat.Selection) map[string]interface{} {
	build := make(map[string]interface{})
	if sel.CPU != nil {
		build["cpu"] = map[string]interface{}{
			"tier":           sel.CPU.TierScore(),
			"p_cores":        int64(sel.CPU.PCores),
			"integrated_gpu": sel.CPU.IntegratedGPU,
			"tdp":            int64(sel.CPU.TDP),
		}
	}
	if sel.GPU != nil {
		gpu := map[string]interface{}{"tier": sel.GPU.TierScore()}
		if sel.GPU.TDP != nil {
			gpu["tdp"] = int64(*sel.GPU.TDP)
		}
		build["gpu"] = gpu
	}
	if sel.RAM != nil {
		build["ram"] = map[string]interface{}{
			"total_capacity_gb": int64(sel.RAM.TotalCapacityGB()),
		}
	}
	if sel.Storage != nil {
		storage := map[string]interface{}{
			"drive_type":  sel.Storage.Type,
			"capacity_gb": int64(sel.Storage.CapacityGB),
		}
		if sel.Storage.Connector != nil {
			storage["connector"] = string(sel.Storage.Connector.Category)
		}
		build["storage"] = storage
	}
	return build
}
