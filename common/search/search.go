package search

import (
	"context"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/power"
	"github.com/shopspring/decimal"
)

// Budget tiers and the capacity targets they aim for
const (
	HighBudget = 10000
	MidBudget  = 6000
)

// Limits caps how many candidates each stage explores. The search is
// approximate: a build outside the top K of any stage is never seen.
type Limits struct {
	GPU         int
	CPU         int
	Motherboard int
}

// DefaultLimits explores 20 GPUs, 25 CPUs per GPU and 25 boards per pair
func DefaultLimits() Limits {
	return Limits{GPU: 20, CPU: 25, Motherboard: 25}
}

// Config tunes a searcher
type Config struct {
	Limits  Limits
	Workers int
	PCIe    compat.PCIePolicy
	Wattage power.WattagePolicy
}

// DefaultConfig returns the default limits, four workers and default policies
func DefaultConfig() Config {
	return Config{
		Limits:  DefaultLimits(),
		Workers: 4,
		PCIe:    compat.Backward,
		Wattage: power.Recommended,
	}
}

// Candidate is a complete seven-part build
type Candidate struct {
	CPU         *catalog.CPU         `json:"cpu"`
	GPU         *catalog.GPU         `json:"gpu"`
	Motherboard *catalog.Motherboard `json:"motherboard"`
	RAM         *catalog.RAM         `json:"ram"`
	Storage     *catalog.Storage     `json:"storage"`
	PSU         *catalog.PSU         `json:"psu"`
	Case        *catalog.Case        `json:"case"`
	TotalPrice  decimal.Decimal      `json:"total_price"`
	Score       int                  `json:"score"`
}

// Selection converts the build into a compatibility selection
func (c *Candidate) Selection(opts compat.Options) compat.Selection {
	return compat.Selection{
		CPU:         c.CPU,
		GPU:         c.GPU,
		Motherboard: c.Motherboard,
		RAM:         c.RAM,
		Storage:     c.Storage,
		PSU:         c.PSU,
		Case:        c.Case,
		Options:     opts,
	}
}

// Result is the outcome of a search. Found is false when no build fits.
type Result struct {
	Budget int64      `json:"budget"`
	Found  bool       `json:"found"`
	Build  *Candidate `json:"build,omitempty"`
}

// Searcher finds the best build for a budget
type Searcher interface {
	Search(ctx context.Context, cat *catalog.Catalog, budget int64) (*Result, error)
}

// Logger is the subset of the service logger a searcher uses
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// Targets returns the RAM (GB) and storage (GB) capacity goals for a budget
func Targets(budget int64) (ramGB, storageGB int) {
	switch {
	case budget > HighBudget:
		return 64, 2000
	case budget >= MidBudget:
		return 32, 2000
	default:
		return 16, 1000
	}
}

// RAMLadder lists RAM capacity floors to try in order
func RAMLadder(target int) []int {
	switch {
	case target >= 64:
		return []int{64, 32, 16}
	case target >= 32:
		return []int{32, 16}
	default:
		return []int{16}
	}
}

// StorageLadder lists storage capacity floors to try in order
func StorageLadder(target int) []int {
	if target >= 2000 {
		return []int{2000, 1000}
	}
	return []int{1000}
}

// better reports whether c beats best by score, then by total price
func better(c, best *Candidate) bool {
	if c == nil {
		return false
	}
	if best == nil {
		return true
	}
	if c.Score != best.Score {
		return c.Score > best.Score
	}
	return c.TotalPrice.GreaterThan(best.TotalPrice)
}

// score is the sum of the CPU's and GPU's whole tiers
func score(cpu *catalog.CPU, gpu *catalog.GPU) int {
	return catalog.Tier(cpu.TierScore()) + catalog.Tier(gpu.TierScore())
}

func newCandidate(cpu *catalog.CPU, gpu *catalog.GPU, mobo *catalog.Motherboard, ram *catalog.RAM,
	storage *catalog.Storage, psu *catalog.PSU, chassis *catalog.Case) (*Candidate, bool) {
	prices := []*decimal.Decimal{cpu.Price, gpu.Price, mobo.Price, ram.Price, storage.Price, psu.Price, chassis.Price}
	total := decimal.Zero
	for _, p := range prices {
		if p == nil {
			return nil, false
		}
		total = total.Add(*p)
	}
	return &Candidate{
		CPU:         cpu,
		GPU:         gpu,
		Motherboard: mobo,
		RAM:         ram,
		Storage:     storage,
		PSU:         psu,
		Case:        chassis,
		TotalPrice:  total,
		Score:       score(cpu, gpu),
	}, true
}

func withinBudget(c *Candidate, budget int64) bool {
	return c.TotalPrice.LessThanOrEqual(decimal.NewFromInt(budget))
}
