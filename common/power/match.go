package power

import (
	"sort"

	"github.com/rigforge/configurator/common/catalog"
)

// Requirement is one physical power connector a component needs
type Requirement struct {
	Category catalog.ConnectorCategory
	Pins     *int
	Version  *float64
}

// RequirementsFor expands a part's connector associations into one
// requirement per physical connector, keeping only those accepted by keep.
func RequirementsFor(links []catalog.ConnectorLink, keep func(catalog.Connector) bool) []Requirement {
	var reqs []Requirement
	for _, link := range links {
		if keep != nil && !keep(link.Connector) {
			continue
		}
		qty := link.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			reqs = append(reqs, Requirement{
				Category: link.Connector.Category,
				Pins:     link.Connector.Lanes,
				Version:  link.Connector.Version,
			})
		}
	}
	return reqs
}

// MotherboardRequirements returns the power plugs a motherboard needs
func MotherboardRequirements(mobo *catalog.Motherboard) []Requirement {
	if mobo == nil {
		return nil
	}
	return RequirementsFor(mobo.Connectors, func(c catalog.Connector) bool { return c.IsPower })
}

// GPURequirements returns the PCIe power plugs a graphics card needs
func GPURequirements(gpu *catalog.GPU) []Requirement {
	if gpu == nil {
		return nil
	}
	return RequirementsFor(gpu.Connectors, func(c catalog.Connector) bool {
		return c.Category == catalog.CategoryPCIePower
	})
}

type unit struct {
	pins    int
	version *float64
}

// Match reports whether supply can serve every requirement with a distinct
// physical connector. Matching is independent per category; within a
// category the largest requirement is served first by the smallest
// connector that still fits. A category whose supply contains a connector
// with unknown pin count cannot serve anything.
func Match(supply []catalog.PowerConnector, reqs []Requirement) bool {
	if len(reqs) == 0 {
		return true
	}

	byCategory := make(map[catalog.ConnectorCategory][]Requirement)
	for _, r := range reqs {
		if r.Category == "" {
			return false
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	pools := make(map[catalog.ConnectorCategory][]unit)
	indeterminate := make(map[catalog.ConnectorCategory]bool)
	for _, s := range supply {
		if s.Pins == nil {
			indeterminate[s.Category] = true
			continue
		}
		for i := 0; i < s.Quantity; i++ {
			pools[s.Category] = append(pools[s.Category], unit{pins: *s.Pins, version: s.Version})
		}
	}

	for category, wanted := range byCategory {
		if indeterminate[category] {
			return false
		}
		if !assign(pools[category], wanted) {
			return false
		}
	}
	return true
}

func assign(pool []unit, wanted []Requirement) bool {
	if len(wanted) > len(pool) {
		return false
	}

	available := make([]unit, len(pool))
	copy(available, pool)
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].pins != available[j].pins {
			return available[i].pins < available[j].pins
		}
		return versionValue(available[i].version) < versionValue(available[j].version)
	})

	sorted := make([]Requirement, len(wanted))
	copy(sorted, wanted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pinsValue(sorted[i].Pins) > pinsValue(sorted[j].Pins)
	})

	used := make([]bool, len(available))
	for _, req := range sorted {
		need := pinsValue(req.Pins)
		found := false
		for i, u := range available {
			if used[i] || u.pins < need {
				continue
			}
			if req.Version != nil && (u.version == nil || *u.version < *req.Version) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

func pinsValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func versionValue(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}
