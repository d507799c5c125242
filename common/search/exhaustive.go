package search

import (
	"context"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
)

// Exhaustive enumerates every compatible seven-part build. It is only
// practical for small catalogs and serves as a reference for Greedy.
type Exhaustive struct {
	cfg    Config
	engine *compat.Engine
}

// NewExhaustive creates an exhaustive searcher over the default rule table
func NewExhaustive(cfg Config) *Exhaustive {
	return &Exhaustive{cfg: cfg, engine: compat.NewEngine()}
}

// Search returns the best build by score, then total price. A build
// qualifies when every part is priced, the resolver rules pass for the
// board and the parts after it, the CPU, M.2 slot and drive sit at the
// card's PCIe generation and RAM and storage meet the lowest rung of their
// capacity ladders.
func (x *Exhaustive) Search(ctx context.Context, cat *catalog.Catalog, budget int64) (*Result, error) {
	result := &Result{Budget: budget}
	if budget <= 0 {
		return result, nil
	}

	ramTarget, storageTarget := Targets(budget)
	ramLadder, storageLadder := RAMLadder(ramTarget), StorageLadder(storageTarget)
	minRAM, minStorage := ramLadder[len(ramLadder)-1], storageLadder[len(storageLadder)-1]

	opts := compat.Options{PCIe: x.cfg.PCIe, Wattage: x.cfg.Wattage}
	var winner *Candidate

	for _, gpu := range rankGPUs(cat.GPUs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen, _, _ := gpu.PCIeGen()

		for _, cpu := range cat.CPUs {
			if !cpuListsGen(cpu, gen) {
				continue
			}
			sel := compat.Selection{GPU: gpu, CPU: cpu, Options: opts}

			for _, mobo := range x.engine.ResolveMotherboards(cat, sel) {
				if !m2SlotAt(mobo, gen) {
					continue
				}
				sel := sel
				sel.Motherboard = mobo

				for _, ram := range x.engine.ResolveRAMs(cat, sel) {
					if ram.TotalCapacityGB() < minRAM {
						continue
					}
					sel := sel
					sel.RAM = ram

					for _, drive := range x.engine.ResolveStorages(cat, sel) {
						if !driveAt(drive, gen) || drive.CapacityGB < minStorage {
							continue
						}
						sel := sel
						sel.Storage = drive

						for _, psu := range x.engine.ResolvePSUs(cat, sel) {
							sel := sel
							sel.PSU = psu

							for _, chassis := range x.engine.ResolveCases(cat, sel) {
								c, ok := newCandidate(cpu, gpu, mobo, ram, drive, psu, chassis)
								if !ok || !withinBudget(c, budget) {
									continue
								}
								if better(c, winner) {
									winner = c
								}
							}
						}
					}
				}
			}
		}
	}

	result.Found = winner != nil
	result.Build = winner
	return result, nil
}
