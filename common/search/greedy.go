package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/power"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Greedy explores the top-ranked GPUs, CPUs and motherboards and fills the
// remaining slots with the cheapest fitting parts.
type Greedy struct {
	cfg Config
	log Logger
}

// NewGreedy creates a greedy searcher. A nil logger discards output.
func NewGreedy(cfg Config, log Logger) *Greedy {
	if log == nil {
		log = nopLogger{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Greedy{cfg: cfg, log: log}
}

// pools holds the catalog pre-filtered and pre-sorted for one search
type pools struct {
	cpus   []*catalog.CPU
	mobos  []*catalog.Motherboard
	rams   []*catalog.RAM
	drives []*catalog.Storage
	psus   []*catalog.PSU
	cases  []*catalog.Case
}

// Search runs the pruned search. GPU candidates are evaluated in parallel;
// the reduction runs in GPU rank order so the result does not depend on
// scheduling.
func (g *Greedy) Search(ctx context.Context, cat *catalog.Catalog, budget int64) (*Result, error) {
	result := &Result{Budget: budget}
	if budget <= 0 {
		return result, nil
	}

	start := time.Now()
	ramTarget, storageTarget := Targets(budget)
	gpus := topK(rankGPUs(cat.GPUs), g.cfg.Limits.GPU)
	p := preparePools(cat)

	best := make([]*Candidate, len(gpus))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)

	for i, gpu := range gpus {
		i, gpu := i, gpu
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			best[i] = g.bestForGPU(p, gpu, budget, ramTarget, storageTarget)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	var winner *Candidate
	for _, c := range best {
		if better(c, winner) {
			winner = c
		}
	}

	result.Found = winner != nil
	result.Build = winner

	g.log.Info("build search finished",
		"budget", budget,
		"gpus_explored", len(gpus),
		"found", result.Found,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (g *Greedy) bestForGPU(p *pools, gpu *catalog.GPU, budget int64, ramTarget, storageTarget int) *Candidate {
	gen, _, _ := gpu.PCIeGen()

	var cpus []*catalog.CPU
	for _, cpu := range p.cpus {
		if cpuListsGen(cpu, gen) {
			cpus = append(cpus, cpu)
			if len(cpus) == g.cfg.Limits.CPU {
				break
			}
		}
	}

	var best *Candidate
	for _, cpu := range cpus {
		c := g.firstForPair(p, cpu, gpu, gen, budget, ramTarget, storageTarget)
		if better(c, best) {
			best = c
		}
	}
	if best != nil {
		g.log.Debug("gpu candidate feasible", "gpu_id", gpu.ID, "score", best.Score, "total", best.TotalPrice.StringFixed(2))
	}
	return best
}

// firstForPair walks motherboards by price and returns the first complete
// build within budget.
func (g *Greedy) firstForPair(p *pools, cpu *catalog.CPU, gpu *catalog.GPU, gen int, budget int64, ramTarget, storageTarget int) *Candidate {
	explored := 0
	for _, mobo := range p.mobos {
		if g.cfg.Limits.Motherboard > 0 && explored == g.cfg.Limits.Motherboard {
			break
		}
		if !compat.SocketMatch(cpu, mobo) ||
			!compat.MotherboardServesGPU(g.cfg.PCIe, mobo, gpu) ||
			!m2SlotAt(mobo, gen) {
			continue
		}
		explored++

		ram := pickFromLadder(RAMLadder(ramTarget), func(floor int) *catalog.RAM {
			return pickRAM(p.rams, cpu, mobo, floor)
		})
		if ram == nil {
			continue
		}

		drive := pickFromLadder(StorageLadder(storageTarget), func(floor int) *catalog.Storage {
			return pickStorage(g.cfg.PCIe, p.drives, mobo, gen, floor)
		})
		if drive == nil {
			continue
		}

		psu, chassis := pickPSUAndCase(g.cfg.Wattage, p.psus, p.cases, cpu, gpu, mobo)
		if psu == nil {
			continue
		}

		c, ok := newCandidate(cpu, gpu, mobo, ram, drive, psu, chassis)
		if !ok || !withinBudget(c, budget) {
			continue
		}
		return c
	}
	return nil
}

// rankGPUs keeps priced cards with a known chip, PCIe generation and
// recommended power, best tier first then cheapest.
func rankGPUs(all []*catalog.GPU) []*catalog.GPU {
	var out []*catalog.GPU
	for _, gpu := range all {
		if gpu.Price == nil || gpu.RecommendedSystemPowerW == nil {
			continue
		}
		if _, _, ok := gpu.PCIeGen(); !ok {
			continue
		}
		out = append(out, gpu)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := catalog.Tier(out[i].TierScore()), catalog.Tier(out[j].TierScore())
		if ti != tj {
			return ti > tj
		}
		if !out[i].Price.Equal(*out[j].Price) {
			return out[i].Price.LessThan(*out[j].Price)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// rankCPUs keeps priced processors, DDR5-capable first, then best tier, then cheapest
func rankCPUs(all []*catalog.CPU) []*catalog.CPU {
	var out []*catalog.CPU
	for _, cpu := range all {
		if cpu.Price != nil {
			out = append(out, cpu)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].SupportsRAMType(catalog.DDR5), out[j].SupportsRAMType(catalog.DDR5)
		if di != dj {
			return di
		}
		ti, tj := catalog.Tier(out[i].TierScore()), catalog.Tier(out[j].TierScore())
		if ti != tj {
			return ti > tj
		}
		if !out[i].Price.Equal(*out[j].Price) {
			return out[i].Price.LessThan(*out[j].Price)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func preparePools(cat *catalog.Catalog) *pools {
	return &pools{
		cpus:   rankCPUs(cat.CPUs),
		mobos:  byPrice(cat.Motherboards, func(m *catalog.Motherboard) priced { return priced{m.Price, m.ID} }),
		rams:   byPrice(cat.RAMs, func(r *catalog.RAM) priced { return priced{r.Price, r.ID} }),
		drives: byPrice(cat.Storages, func(s *catalog.Storage) priced { return priced{s.Price, s.ID} }),
		psus:   byPrice(cat.PSUs, func(p *catalog.PSU) priced { return priced{p.Price, p.ID} }),
		cases:  byPrice(cat.Cases, func(c *catalog.Case) priced { return priced{c.Price, c.ID} }),
	}
}

func pickFromLadder[T any](ladder []int, pick func(floor int) *T) *T {
	for _, floor := range ladder {
		if item := pick(floor); item != nil {
			return item
		}
	}
	return nil
}

// pickRAM returns the cheapest kit of at least floor GB that both the CPU
// and motherboard accept, preferring DDR5 and larger kits at equal price.
// rams must already be sorted by price.
func pickRAM(rams []*catalog.RAM, cpu *catalog.CPU, mobo *catalog.Motherboard, floor int) *catalog.RAM {
	allowed := compat.RAMTypeIntersection(cpu, mobo)
	if len(allowed) == 0 {
		return nil
	}

	var fits, ddr5 []*catalog.RAM
	for _, ram := range rams {
		if !allowed[ram.Base.Type] || ram.TotalCapacityGB() < floor {
			continue
		}
		if !compat.CPUSupportsRAM(cpu, ram) || !compat.MotherboardSupportsRAM(mobo, ram) {
			continue
		}
		fits = append(fits, ram)
		if ram.Base.Type == catalog.DDR5 {
			ddr5 = append(ddr5, ram)
		}
	}
	if len(ddr5) > 0 {
		fits = ddr5
	}
	if len(fits) == 0 {
		return nil
	}

	best := fits[0]
	for _, ram := range fits[1:] {
		if !ram.Price.Equal(*best.Price) {
			break
		}
		if ram.TotalCapacityGB() > best.TotalCapacityGB() {
			best = ram
		}
	}
	return best
}

// pickStorage returns the cheapest M.2 PCIe drive of generation gen and at
// least floor GB the motherboard can host. drives must already be sorted by price.
func pickStorage(policy compat.PCIePolicy, drives []*catalog.Storage, mobo *catalog.Motherboard, gen, floor int) *catalog.Storage {
	var best *catalog.Storage
	for _, drive := range drives {
		if best != nil && !drive.Price.Equal(*best.Price) {
			break
		}
		if !driveAt(drive, gen) || drive.CapacityGB < floor {
			continue
		}
		if !compat.MotherboardServesStorage(policy, mobo, drive) {
			continue
		}
		if best == nil || drive.CapacityGB < best.CapacityGB {
			best = drive
		}
	}
	return best
}

// pickPSUAndCase walks supplies by price and pairs the first one that
// powers the build with the cheapest case that holds everything.
func pickPSUAndCase(policy power.WattagePolicy, psus []*catalog.PSU, cases []*catalog.Case,
	cpu *catalog.CPU, gpu *catalog.GPU, mobo *catalog.Motherboard) (*catalog.PSU, *catalog.Case) {
	for _, psu := range psus {
		if !power.WattageSufficient(policy, psu, gpu, cpu) || !power.ConnectorsSufficient(psu, mobo, gpu) {
			continue
		}
		for _, chassis := range cases {
			if compat.CaseFitsGPU(chassis, gpu) &&
				compat.CaseFitsMotherboard(chassis, mobo) &&
				compat.CaseFitsPSU(chassis, psu) {
				return psu, chassis
			}
		}
	}
	return nil, nil
}

// topK keeps the first k items; k <= 0 keeps everything
func topK[T any](items []*T, k int) []*T {
	if k <= 0 || len(items) <= k {
		return items
	}
	return items[:k]
}

type priced struct {
	price *decimal.Decimal
	id    int64
}

// byPrice drops unpriced items and orders the rest by price, then id
func byPrice[T any](items []*T, key func(*T) priced) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if key(item).price != nil {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if !a.price.Equal(*b.price) {
			return a.price.LessThan(*b.price)
		}
		return a.id < b.id
	})
	return out
}
