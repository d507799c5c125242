package power

import (
	"fmt"
	"strings"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/catalog"
)

// WattagePolicy selects how required PSU wattage is derived
type WattagePolicy string

const (
	// Recommended uses the GPU's recommended system power, then its TDP
	// derated by SafetyFactor, then the CPU TDP plus a fixed baseline.
	Recommended WattagePolicy = "recommended"
	// TDPHeadroom requires 1.3x the combined CPU and GPU TDP.
	TDPHeadroom WattagePolicy = "tdp"
)

const (
	SafetyFactor      = 0.75
	NoGPUBaselineW    = 250
	headroomNumerator = 13
	headroomDenom     = 10
)

// ParseWattagePolicy accepts "recommended" (default when empty) or "tdp"
func ParseWattagePolicy(s string) (WattagePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Recommended):
		return Recommended, nil
	case string(TDPHeadroom):
		return TDPHeadroom, nil
	default:
		return "", fmt.Errorf("%w: unknown wattage policy %q", apperrors.ErrInvalidInput, s)
	}
}

// RequiredWattage returns the minimum PSU rating for the given parts.
// ok is false when a chosen GPU lacks the data needed to size the supply.
func RequiredWattage(policy WattagePolicy, gpu *catalog.GPU, cpu *catalog.CPU) (watts int, ok bool) {
	switch policy {
	case TDPHeadroom:
		total := 0
		if cpu != nil {
			total += cpu.TDP
		}
		if gpu != nil {
			if gpu.TDP == nil {
				return 0, false
			}
			total += *gpu.TDP
		}
		return (total*headroomNumerator + headroomDenom - 1) / headroomDenom, true
	default:
		if gpu != nil {
			if gpu.RecommendedSystemPowerW != nil {
				return *gpu.RecommendedSystemPowerW, true
			}
			if gpu.TDP != nil {
				return int(float64(*gpu.TDP) / SafetyFactor), true
			}
			return 0, false
		}
		if cpu != nil {
			return cpu.TDP + NoGPUBaselineW, true
		}
		return 0, true
	}
}

// WattageSufficient reports whether psu is rated for the parts (inclusive)
func WattageSufficient(policy WattagePolicy, psu *catalog.PSU, gpu *catalog.GPU, cpu *catalog.CPU) bool {
	if psu == nil {
		return false
	}
	required, ok := RequiredWattage(policy, gpu, cpu)
	if !ok {
		return false
	}
	return psu.Wattage >= required
}

// ConnectorsSufficient reports whether psu can plug every power connector
// the motherboard and graphics card need at the same time.
func ConnectorsSufficient(psu *catalog.PSU, mobo *catalog.Motherboard, gpu *catalog.GPU) bool {
	if psu == nil {
		return false
	}
	reqs := append(MotherboardRequirements(mobo), GPURequirements(gpu)...)
	return Match(psu.Connectors, reqs)
}
