package catalog

import "math"

// Tier score constants. Raw scores are capped and rescaled to 0-10.
const (
	MaxTierScore = 10.0

	cpuMaxRaw       = 50.0
	cpuPCoreWeight  = 2.0
	cpuECoreWeight  = 1.0
	cpuBoostWeight  = 2.0
	cpuCacheWeight  = 0.1
	gpuMaxRaw       = 80.0
	gpuShaderDiv    = 256.0
	gpuBoostDiv     = 250.0
	gpuVRAMWeight   = 0.5
	latencyNSFactor = 2000
)

// TotalCapacityGB is modules x per-module size
func (r *RAM) TotalCapacityGB() int {
	return r.ModulesCount * r.ModuleSizeGB
}

// LatencyNS is the first-word latency in nanoseconds
func (r *RAM) LatencyNS() float64 {
	if r.Base.MTs == 0 {
		return 0
	}
	return float64(r.CASLatency*latencyNSFactor) / float64(r.Base.MTs)
}

// TierScore is the 0-10 CPU performance proxy
func (c *CPU) TierScore() float64 {
	raw := cpuPCoreWeight*float64(c.PCores) +
		cpuECoreWeight*float64(c.ECores) +
		cpuBoostWeight*c.BoostClockGHz +
		cpuCacheWeight*float64(c.CacheMB)
	return rescale(raw, cpuMaxRaw)
}

// TierScore is the 0-10 GPU performance proxy. A card without a chip scores 0.
func (g *GPU) TierScore() float64 {
	if g.Chip == nil {
		return 0
	}
	raw := float64(g.Chip.ShaderUnits)/gpuShaderDiv +
		float64(g.BoostClockMHz)/gpuBoostDiv +
		gpuVRAMWeight*float64(g.VRAMSizeGB)
	return rescale(raw, gpuMaxRaw)
}

// Tier truncates a tier score to its whole tier
func Tier(score float64) int {
	if score <= 0 || math.IsNaN(score) {
		return 0
	}
	return int(math.Floor(score))
}

func rescale(raw, maxRaw float64) float64 {
	if raw < 0 {
		raw = 0
	}
	if raw > maxRaw {
		raw = maxRaw
	}
	return math.Round(raw/maxRaw*MaxTierScore*100) / 100
}

// RAMTypes returns the distinct memory generations in a supported set
func RAMTypes(bases []RAMBase) map[RAMType]bool {
	types := make(map[RAMType]bool, len(bases))
	for _, b := range bases {
		types[b.Type] = true
	}
	return types
}

// SupportsRAMType reports whether a CPU lists the given generation
func (c *CPU) SupportsRAMType(t RAMType) bool {
	for _, b := range c.SupportedRAM {
		if b.Type == t {
			return true
		}
	}
	return false
}

// PCIeGen is the chip's generation and width requirement; ok is false when unknown
func (g *GPU) PCIeGen() (gen int, width int, ok bool) {
	if g.Chip == nil || g.Chip.PCIeMaxGen == nil {
		return 0, 0, false
	}
	width = g.Chip.PCIeMaxWidth
	if width <= 0 {
		width = 16
	}
	return *g.Chip.PCIeMaxGen, width, true
}
