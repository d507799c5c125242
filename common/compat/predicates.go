package compat

import (
	"sort"
	"strings"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/power"
)

// SocketMatch reports whether the CPU mounts on the motherboard
func SocketMatch(cpu *catalog.CPU, mobo *catalog.Motherboard) bool {
	return sameSocket(cpu.Socket, mobo.Socket)
}

// CPUSupportsRAM checks memory generation and the CPU's capacity cap
func CPUSupportsRAM(cpu *catalog.CPU, ram *catalog.RAM) bool {
	if !catalog.RAMTypes(cpu.SupportedRAM)[ram.Base.Type] {
		return false
	}
	if cpu.MaxInternalMemoryGB != nil && ram.TotalCapacityGB() > *cpu.MaxInternalMemoryGB {
		return false
	}
	return true
}

// MotherboardSupportsRAM checks generation, DIMM slots and maximum capacity
func MotherboardSupportsRAM(mobo *catalog.Motherboard, ram *catalog.RAM) bool {
	if !catalog.RAMTypes(mobo.SupportedRAM)[ram.Base.Type] {
		return false
	}
	return ram.ModulesCount <= mobo.DIMMSlots && ram.TotalCapacityGB() <= mobo.MaxRAMCapacityGB
}

// RAMTypeIntersection is the set of memory generations both parts accept
func RAMTypeIntersection(cpu *catalog.CPU, mobo *catalog.Motherboard) map[catalog.RAMType]bool {
	cpuTypes := catalog.RAMTypes(cpu.SupportedRAM)
	out := make(map[catalog.RAMType]bool)
	for t := range catalog.RAMTypes(mobo.SupportedRAM) {
		if cpuTypes[t] {
			out[t] = true
		}
	}
	return out
}

// Serves reports whether a provider link satisfies a consumer's generation
// and lane requirement. A requirement without a version accepts any
// generation and one without lanes needs none; a provider missing either
// value cannot serve a requirement that names it.
func Serves(policy PCIePolicy, provider catalog.Connector, gen *float64, lanes *int) bool {
	if gen != nil {
		if provider.Version == nil {
			return false
		}
		switch policy {
		case Strict:
			if *provider.Version != *gen {
				return false
			}
		default:
			if *provider.Version < *gen {
				return false
			}
		}
	}
	if lanes != nil && *lanes > 0 {
		if provider.Lanes == nil || *provider.Lanes < *lanes {
			return false
		}
	}
	return true
}

// gpuRequirement is the chip's link as connector-style pointers
func gpuRequirement(gpu *catalog.GPU) (*float64, *int, bool) {
	gen, width, ok := gpu.PCIeGen()
	if !ok {
		return nil, nil, false
	}
	g := float64(gen)
	return &g, &width, true
}

// CPUServesGPU reports whether one of the CPU's PCIe links serves the card
func CPUServesGPU(policy PCIePolicy, cpu *catalog.CPU, gpu *catalog.GPU) bool {
	gen, width, ok := gpuRequirement(gpu)
	if !ok {
		return false
	}
	for _, c := range cpu.SupportedPCIe {
		if c.Category == catalog.CategoryPCIe && Serves(policy, c, gen, width) {
			return true
		}
	}
	return false
}

// PrimaryPCIeSlot is the motherboard's widest PCIe slot, newest first among
// equals. The card is assumed to sit there.
func PrimaryPCIeSlot(mobo *catalog.Motherboard) (catalog.Connector, bool) {
	slots := connectorsOf(mobo.Connectors, catalog.CategoryPCIe)
	if len(slots) == 0 {
		return catalog.Connector{}, false
	}
	sort.SliceStable(slots, func(i, j int) bool {
		li, lj := intValue(slots[i].Lanes), intValue(slots[j].Lanes)
		if li != lj {
			return li > lj
		}
		return floatValue(slots[i].Version) > floatValue(slots[j].Version)
	})
	return slots[0], true
}

// MotherboardServesGPU checks the card against the primary slot
func MotherboardServesGPU(policy PCIePolicy, mobo *catalog.Motherboard, gpu *catalog.GPU) bool {
	gen, width, ok := gpuRequirement(gpu)
	if !ok {
		return false
	}
	slot, ok := PrimaryPCIeSlot(mobo)
	if !ok {
		return false
	}
	return Serves(policy, slot, gen, width)
}

// MotherboardHasGPUSlot reports whether any PCIe slot serves the card
func MotherboardHasGPUSlot(policy PCIePolicy, mobo *catalog.Motherboard, gpu *catalog.GPU) bool {
	gen, width, ok := gpuRequirement(gpu)
	if !ok {
		return false
	}
	for _, slot := range connectorsOf(mobo.Connectors, catalog.CategoryPCIe) {
		if Serves(policy, slot, gen, width) {
			return true
		}
	}
	return false
}

// MotherboardServesStorage reports whether the drive has somewhere to go.
// M.2 PCIe slots carrying the extra flag also take M.2 SATA drives.
func MotherboardServesStorage(policy PCIePolicy, mobo *catalog.Motherboard, drive *catalog.Storage) bool {
	if drive.Connector == nil {
		return false
	}
	need := *drive.Connector

	switch need.Category {
	case catalog.CategoryM2PCIe:
		for _, slot := range connectorsOf(mobo.Connectors, catalog.CategoryM2PCIe) {
			if Serves(policy, slot, need.Version, need.Lanes) {
				return true
			}
		}
		return false
	case catalog.CategoryM2SATA:
		if len(connectorsOf(mobo.Connectors, catalog.CategoryM2SATA)) > 0 {
			return true
		}
		for _, slot := range connectorsOf(mobo.Connectors, catalog.CategoryM2PCIe) {
			if strings.TrimSpace(slot.Extra) != "" {
				return true
			}
		}
		return false
	case catalog.CategorySATA:
		return len(connectorsOf(mobo.Connectors, catalog.CategorySATA)) > 0
	default:
		return false
	}
}

// CaseFitsGPU requires both lengths to be known
func CaseFitsGPU(c *catalog.Case, gpu *catalog.GPU) bool {
	if c.MaxGPULengthMM == nil || gpu.LengthMM == nil {
		return false
	}
	return *gpu.LengthMM <= *c.MaxGPULengthMM
}

// CaseFitsMotherboard checks the case's motherboard form factors
func CaseFitsMotherboard(c *catalog.Case, mobo *catalog.Motherboard) bool {
	return containsFormFactor(c.MotherboardFormFactors, mobo.FormFactor)
}

// CaseFitsPSU checks the case's PSU form factors
func CaseFitsPSU(c *catalog.Case, psu *catalog.PSU) bool {
	return containsFormFactor(c.PSUFormFactors, psu.FormFactor)
}

// PSUWattageSufficient applies the wattage policy
func PSUWattageSufficient(policy power.WattagePolicy, psu *catalog.PSU, gpu *catalog.GPU, cpu *catalog.CPU) bool {
	return power.WattageSufficient(policy, psu, gpu, cpu)
}

// PSUConnectorsSufficient bin-matches the board's and card's power plugs
func PSUConnectorsSufficient(psu *catalog.PSU, mobo *catalog.Motherboard, gpu *catalog.GPU) bool {
	return power.ConnectorsSufficient(psu, mobo, gpu)
}

// CoolerFitsCPU checks socket support and thermal rating
func CoolerFitsCPU(cooler *catalog.Cooler, cpu *catalog.CPU) bool {
	if cooler.TDPSupported < cpu.TDP {
		return false
	}
	for _, s := range cooler.Sockets {
		if sameSocket(s, cpu.Socket) {
			return true
		}
	}
	return false
}

func connectorsOf(links []catalog.ConnectorLink, category catalog.ConnectorCategory) []catalog.Connector {
	var out []catalog.Connector
	for _, link := range links {
		if link.Quantity < 1 || link.Connector.Category != category {
			continue
		}
		out = append(out, link.Connector)
	}
	return out
}

func sameSocket(a, b catalog.Socket) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return a.Name != "" && strings.EqualFold(a.Name, b.Name)
}

func sameFormFactor(a, b catalog.FormFactor) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return a.Name != "" && strings.EqualFold(a.Name, b.Name)
}

func containsFormFactor(set []catalog.FormFactor, ff catalog.FormFactor) bool {
	for _, candidate := range set {
		if sameFormFactor(candidate, ff) {
			return true
		}
	}
	return false
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
