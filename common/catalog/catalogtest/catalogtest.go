// Package catalogtest builds small catalogs for tests.
package catalogtest

import (
	"github.com/rigforge/configurator/common/catalog"
	"github.com/shopspring/decimal"
)

var (
	AM5     = catalog.Socket{ID: 1, Name: "AM5"}
	LGA1700 = catalog.Socket{ID: 2, Name: "LGA1700"}

	ATX      = catalog.FormFactor{ID: 1, Name: "ATX"}
	MicroATX = catalog.FormFactor{ID: 2, Name: "Micro-ATX"}
	SFX      = catalog.FormFactor{ID: 3, Name: "SFX"}

	DDR4Base = catalog.RAMBase{ID: 1, Type: catalog.DDR4, MTs: 3200}
	DDR5Base = catalog.RAMBase{ID: 2, Type: catalog.DDR5, MTs: 6000}

	Acme = catalog.Manufacturer{ID: 1, Name: "Acme"}
)

// Price parses a decimal price, panicking on malformed input
func Price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func Int(v int) *int           { return &v }
func Float(v float64) *float64 { return &v }

// PCIe is a data connector of the given generation and lane width
func PCIe(category catalog.ConnectorCategory, gen float64, lanes int) catalog.Connector {
	return catalog.Connector{Category: category, Version: Float(gen), Lanes: Int(lanes)}
}

// Slot associates a connector with a quantity
func Slot(c catalog.Connector, qty int) catalog.ConnectorLink {
	return catalog.ConnectorLink{Connector: c, Quantity: qty}
}

// Plug is a power connector demand of the given pin count
func Plug(category catalog.ConnectorCategory, pins, qty int) catalog.ConnectorLink {
	return catalog.ConnectorLink{
		Connector: catalog.Connector{Category: category, Lanes: Int(pins), IsPower: true},
		Quantity:  qty,
	}
}

// Supply is a normalized PSU connector entry
func Supply(category catalog.ConnectorCategory, pins, qty int) catalog.PowerConnector {
	return catalog.PowerConnector{Category: category, Pins: Int(pins), Quantity: qty}
}

// CPU returns an AM5 DDR5 processor with PCIe 4.0 x16 lanes
func CPU(id int64, price string) *catalog.CPU {
	return &catalog.CPU{
		ID:            id,
		Manufacturer:  Acme,
		Name:          "Ryzen 5 7600",
		Family:        "Ryzen 5",
		Generation:    "7000",
		Socket:        AM5,
		PCores:        6,
		Threads:       12,
		BaseClockGHz:  3.8,
		BoostClockGHz: 5.1,
		CacheMB:       32,
		TDP:           65,
		SupportedRAM:  []catalog.RAMBase{DDR5Base},
		SupportedPCIe: []catalog.Connector{PCIe(catalog.CategoryPCIe, 4, 16)},
		Price:         Price(price),
	}
}

// Motherboard returns an AM5 ATX board with one PCIe 4.0 x16 slot and one M.2 PCIe 4.0 slot
func Motherboard(id int64, price string) *catalog.Motherboard {
	return &catalog.Motherboard{
		ID:               id,
		Manufacturer:     Acme,
		Name:             "B650 Board",
		Socket:           AM5,
		FormFactor:       ATX,
		SupportedRAM:     []catalog.RAMBase{DDR5Base},
		DIMMSlots:        4,
		MaxRAMCapacityGB: 128,
		Connectors: []catalog.ConnectorLink{
			Slot(PCIe(catalog.CategoryPCIe, 4, 16), 1),
			Slot(PCIe(catalog.CategoryM2PCIe, 4, 4), 1),
			Plug(catalog.CategoryATXPower, 24, 1),
			Plug(catalog.CategoryCPUPower, 8, 1),
		},
		Price: Price(price),
	}
}

// RAM returns a DDR5 kit of modules x size GB
func RAM(id int64, modules, sizeGB int, price string) *catalog.RAM {
	return &catalog.RAM{
		ID:           id,
		Manufacturer: Acme,
		Name:         "DDR5 Kit",
		Base:         DDR5Base,
		ModulesCount: modules,
		ModuleSizeGB: sizeGB,
		CASLatency:   30,
		Price:        Price(price),
	}
}

// Storage returns an M.2 PCIe 4.0 NVMe drive
func Storage(id int64, capacityGB int, price string) *catalog.Storage {
	conn := PCIe(catalog.CategoryM2PCIe, 4, 4)
	return &catalog.Storage{
		ID:           id,
		Manufacturer: Acme,
		Name:         "NVMe Drive",
		Type:         "NVMe",
		CapacityGB:   capacityGB,
		Connector:    &conn,
		Price:        Price(price),
	}
}

// GPU returns a PCIe 4.0 x16 card needing 400 W and one 8-pin plug
func GPU(id int64, price string) *catalog.GPU {
	return &catalog.GPU{
		ID:           id,
		Manufacturer: Acme,
		ModelName:    "RX 7700",
		Chip: &catalog.GraphicsChip{
			ID:            1,
			Vendor:        "AMD",
			MarketingName: "Navi 32",
			ShaderUnits:   3584,
			PCIeMaxGen:    Int(4),
			PCIeMaxWidth:  16,
		},
		VRAMSizeGB:              12,
		BaseClockMHz:            1900,
		BoostClockMHz:           2500,
		TDP:                     Int(245),
		RecommendedSystemPowerW: Int(400),
		LengthMM:                Int(300),
		SlotWidth:               2.5,
		Connectors: []catalog.ConnectorLink{
			Slot(PCIe(catalog.CategoryPCIe, 4, 16), 1),
			Plug(catalog.CategoryPCIePower, 8, 1),
		},
		Price: Price(price),
	}
}

// PSU returns an ATX supply with 24-pin, 8-pin CPU and two 8-pin PCIe plugs
func PSU(id int64, wattage int, price string) *catalog.PSU {
	return &catalog.PSU{
		ID:           id,
		Manufacturer: Acme,
		Name:         "Power Unit",
		Wattage:      wattage,
		FormFactor:   ATX,
		Connectors: []catalog.PowerConnector{
			Supply(catalog.CategoryATXPower, 24, 1),
			Supply(catalog.CategoryCPUPower, 8, 1),
			Supply(catalog.CategoryPCIePower, 8, 2),
		},
		Price: Price(price),
	}
}

// Case returns an ATX chassis fitting cards up to 330 mm
func Case(id int64, price string) *catalog.Case {
	return &catalog.Case{
		ID:                     id,
		Manufacturer:           Acme,
		Name:                   "Mid Tower",
		MaxGPULengthMM:         Int(330),
		MotherboardFormFactors: []catalog.FormFactor{ATX, MicroATX},
		PSUFormFactors:         []catalog.FormFactor{ATX},
		Price:                  Price(price),
	}
}

// Cooler returns an AM5 air cooler rated for 150 W
func Cooler(id int64, price string) *catalog.Cooler {
	return &catalog.Cooler{
		ID:           id,
		Manufacturer: Acme,
		Name:         "Tower Cooler",
		Type:         "air",
		TDPSupported: 150,
		Sockets:      []catalog.Socket{AM5},
		Price:        Price(price),
	}
}

// Scenario is the seven-part catalog whose only build costs 1250
func Scenario() catalog.Parts {
	return catalog.Parts{
		CPUs:         []*catalog.CPU{CPU(1, "300")},
		Motherboards: []*catalog.Motherboard{Motherboard(1, "150")},
		RAMs:         []*catalog.RAM{RAM(1, 2, 16, "80")},
		Storages:     []*catalog.Storage{Storage(1, 1000, "60")},
		GPUs:         []*catalog.GPU{GPU(1, "500")},
		PSUs:         []*catalog.PSU{PSU(1, 650, "90")},
		Cases:        []*catalog.Case{Case(1, "70")},
		Coolers:      []*catalog.Cooler{Cooler(1, "40")},
	}
}

// ScenarioCatalog indexes Scenario
func ScenarioCatalog() *catalog.Catalog {
	return catalog.New(Scenario())
}
