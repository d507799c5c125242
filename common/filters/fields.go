package filters

import (
	"strconv"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
	"github.com/shopspring/decimal"
)

// Kind is how a field is filtered
type Kind string

const (
	// In matches any of a comma-separated list of values
	In Kind = "in"
	// Range matches <field>_min <= value <= <field>_max
	Range Kind = "range"
)

// Field is one filterable attribute of a part type
type Field struct {
	Name string
	Kind Kind

	values func(any) []string
	number func(any) (float64, bool)
}

func textField[T any](name string, get func(*T) []string) Field {
	return Field{
		Name: name,
		Kind: In,
		values: func(v any) []string {
			p, ok := v.(*T)
			if !ok {
				return nil
			}
			return get(p)
		},
	}
}

func rangeField[T any](name string, get func(*T) (float64, bool)) Field {
	return Field{
		Name: name,
		Kind: Range,
		number: func(v any) (float64, bool) {
			p, ok := v.(*T)
			if !ok {
				return 0, false
			}
			return get(p)
		},
	}
}

func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
func numInt(n int) []string { return []string{strconv.Itoa(n)} }

func optInt(p *int) []string {
	if p == nil {
		return nil
	}
	return numInt(*p)
}

func boolean(b bool) []string { return []string{strconv.FormatBool(b)} }

func price(p *decimal.Decimal) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return p.InexactFloat64(), true
}

func intRange(n int) (float64, bool) { return float64(n), true }

func optIntRange(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}

func ramTypes(bases []catalog.RAMBase) []string {
	var out []string
	for _, b := range bases {
		out = append(out, string(b.Type))
	}
	return out
}

func versions(conns []catalog.Connector, category catalog.ConnectorCategory) []string {
	var out []string
	for _, c := range conns {
		if c.Category == category && c.Version != nil {
			out = append(out, num(*c.Version))
		}
	}
	return out
}

func linkVersions(links []catalog.ConnectorLink, category catalog.ConnectorCategory) []string {
	conns := make([]catalog.Connector, 0, len(links))
	for _, l := range links {
		conns = append(conns, l.Connector)
	}
	return versions(conns, category)
}

func formFactors(ffs []catalog.FormFactor) []string {
	var out []string
	for _, ff := range ffs {
		out = append(out, ff.Name)
	}
	return out
}

// displayOutputs are the signal connectors a card exposes
func displayOutputs(links []catalog.ConnectorLink) []string {
	var out []string
	for _, l := range links {
		switch l.Connector.Category {
		case catalog.CategoryHDMI, catalog.CategoryDisplayPort, catalog.CategoryDVI,
			catalog.CategoryVGA, catalog.CategoryUSBC:
			out = append(out, string(l.Connector.Category))
		default:
		}
	}
	return out
}

func chip(g *catalog.GPU) catalog.GraphicsChip {
	if g.Chip == nil {
		return catalog.GraphicsChip{}
	}
	return *g.Chip
}

var fieldTable = map[compat.Slot][]Field{
	compat.SlotCPU: {
		textField("family", func(c *catalog.CPU) []string { return one(c.Family) }),
		textField("generation", func(c *catalog.CPU) []string { return one(c.Generation) }),
		textField("manufacturer", func(c *catalog.CPU) []string { return one(c.Manufacturer.Name) }),
		textField("socket", func(c *catalog.CPU) []string { return one(c.Socket.Name) }),
		textField("p_cores", func(c *catalog.CPU) []string { return numInt(c.PCores) }),
		textField("e_cores", func(c *catalog.CPU) []string { return numInt(c.ECores) }),
		textField("threads", func(c *catalog.CPU) []string { return numInt(c.Threads) }),
		rangeField("boost_clock_ghz", func(c *catalog.CPU) (float64, bool) { return c.BoostClockGHz, true }),
		textField("supported_ram", func(c *catalog.CPU) []string { return ramTypes(c.SupportedRAM) }),
		textField("max_internal_memory_gb", func(c *catalog.CPU) []string { return optInt(c.MaxInternalMemoryGB) }),
		textField("pcie_max_gen", func(c *catalog.CPU) []string { return versions(c.SupportedPCIe, catalog.CategoryPCIe) }),
		rangeField("tdp", func(c *catalog.CPU) (float64, bool) { return intRange(c.TDP) }),
		rangeField("price", func(c *catalog.CPU) (float64, bool) { return price(c.Price) }),
		textField("cache_mb", func(c *catalog.CPU) []string { return numInt(c.CacheMB) }),
		textField("integrated_gpu", func(c *catalog.CPU) []string { return boolean(c.IntegratedGPU) }),
	},
	compat.SlotMotherboard: {
		textField("manufacturer", func(m *catalog.Motherboard) []string { return one(m.Manufacturer.Name) }),
		textField("socket", func(m *catalog.Motherboard) []string { return one(m.Socket.Name) }),
		textField("form_factor", func(m *catalog.Motherboard) []string { return one(m.FormFactor.Name) }),
		textField("supported_ram", func(m *catalog.Motherboard) []string { return ramTypes(m.SupportedRAM) }),
		textField("max_ram_capacity", func(m *catalog.Motherboard) []string { return numInt(m.MaxRAMCapacityGB) }),
		textField("dimm_slots", func(m *catalog.Motherboard) []string { return numInt(m.DIMMSlots) }),
		rangeField("price", func(m *catalog.Motherboard) (float64, bool) { return price(m.Price) }),
		textField("pcie_max_gen", func(m *catalog.Motherboard) []string { return linkVersions(m.Connectors, catalog.CategoryPCIe) }),
	},
	compat.SlotRAM: {
		textField("manufacturer", func(r *catalog.RAM) []string { return one(r.Manufacturer.Name) }),
		textField("type", func(r *catalog.RAM) []string { return one(string(r.Base.Type)) }),
		textField("speed", func(r *catalog.RAM) []string { return numInt(r.Base.MTs) }),
		textField("modules_count", func(r *catalog.RAM) []string { return numInt(r.ModulesCount) }),
		textField("total_capacity", func(r *catalog.RAM) []string { return numInt(r.TotalCapacityGB()) }),
		rangeField("price", func(r *catalog.RAM) (float64, bool) { return price(r.Price) }),
	},
	compat.SlotStorage: {
		textField("manufacturer", func(s *catalog.Storage) []string { return one(s.Manufacturer.Name) }),
		textField("type", func(s *catalog.Storage) []string { return one(s.Type) }),
		textField("connector", func(s *catalog.Storage) []string {
			if s.Connector == nil {
				return nil
			}
			return one(string(s.Connector.Category))
		}),
		textField("capacity_gb", func(s *catalog.Storage) []string { return numInt(s.CapacityGB) }),
		rangeField("price", func(s *catalog.Storage) (float64, bool) { return price(s.Price) }),
		textField("pcie_max_gen", func(s *catalog.Storage) []string {
			if s.Connector == nil {
				return nil
			}
			return versions([]catalog.Connector{*s.Connector}, catalog.CategoryM2PCIe)
		}),
	},
	compat.SlotGPU: {
		textField("manufacturer", func(g *catalog.GPU) []string { return one(g.Manufacturer.Name) }),
		textField("vram_size_gb", func(g *catalog.GPU) []string { return numInt(g.VRAMSizeGB) }),
		rangeField("base_clock_mhz", func(g *catalog.GPU) (float64, bool) { return intRange(g.BaseClockMHz) }),
		rangeField("boost_clock_mhz", func(g *catalog.GPU) (float64, bool) { return intRange(g.BoostClockMHz) }),
		rangeField("tdp", func(g *catalog.GPU) (float64, bool) { return optIntRange(g.TDP) }),
		rangeField("recommended_system_power_w", func(g *catalog.GPU) (float64, bool) { return optIntRange(g.RecommendedSystemPowerW) }),
		rangeField("length_mm", func(g *catalog.GPU) (float64, bool) { return optIntRange(g.LengthMM) }),
		rangeField("slot_width", func(g *catalog.GPU) (float64, bool) { return g.SlotWidth, g.SlotWidth > 0 }),
		textField("outputs", func(g *catalog.GPU) []string { return displayOutputs(g.Connectors) }),
		rangeField("price", func(g *catalog.GPU) (float64, bool) { return price(g.Price) }),
		textField("graphics_chip_vendor", func(g *catalog.GPU) []string { return one(chip(g).Vendor) }),
		textField("graphics_chip_marketing_name", func(g *catalog.GPU) []string { return one(chip(g).MarketingName) }),
		textField("graphics_chip_pcie_max_gen", func(g *catalog.GPU) []string { return optInt(chip(g).PCIeMaxGen) }),
		textField("graphics_chip_memory_type", func(g *catalog.GPU) []string { return one(chip(g).MemoryType) }),
		textField("graphics_chip_ray_tracing_gen", func(g *catalog.GPU) []string { return optInt(chip(g).RayTracingGen) }),
		textField("graphics_chip_upscaling_technology", func(g *catalog.GPU) []string { return one(chip(g).Upscaling) }),
	},
	compat.SlotPSU: {
		textField("manufacturer", func(p *catalog.PSU) []string { return one(p.Manufacturer.Name) }),
		rangeField("wattage", func(p *catalog.PSU) (float64, bool) { return intRange(p.Wattage) }),
		textField("form_factor", func(p *catalog.PSU) []string { return one(p.FormFactor.Name) }),
		rangeField("price", func(p *catalog.PSU) (float64, bool) { return price(p.Price) }),
	},
	compat.SlotCase: {
		textField("manufacturer", func(c *catalog.Case) []string { return one(c.Manufacturer.Name) }),
		textField("mobo_form_factor_support", func(c *catalog.Case) []string { return formFactors(c.MotherboardFormFactors) }),
		textField("psu_form_factor_support", func(c *catalog.Case) []string { return formFactors(c.PSUFormFactors) }),
		rangeField("max_gpu_length_mm", func(c *catalog.Case) (float64, bool) { return optIntRange(c.MaxGPULengthMM) }),
		rangeField("price", func(c *catalog.Case) (float64, bool) { return price(c.Price) }),
	},
	compat.SlotCooler: {
		textField("manufacturer", func(c *catalog.Cooler) []string { return one(c.Manufacturer.Name) }),
		textField("type", func(c *catalog.Cooler) []string { return one(c.Type) }),
		textField("socket", func(c *catalog.Cooler) []string {
			var out []string
			for _, s := range c.Sockets {
				out = append(out, s.Name)
			}
			return out
		}),
		rangeField("min_tdp", func(c *catalog.Cooler) (float64, bool) { return intRange(c.TDPSupported) }),
		rangeField("price", func(c *catalog.Cooler) (float64, bool) { return price(c.Price) }),
	},
}

// Fields returns the filterable attributes of a part type
func Fields(slot compat.Slot) []Field {
	return fieldTable[slot]
}
