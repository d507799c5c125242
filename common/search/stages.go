package search

import "github.com/rigforge/configurator/common/catalog"

// Stage filters pin every link of the build to the card's PCIe generation.
// They are stricter than the resolver rules: an M.2 slot or drive of another
// generation does not count, and the CPU link width is not consulted.

// cpuListsGen reports whether the CPU advertises a PCIe link of exactly gen
func cpuListsGen(cpu *catalog.CPU, gen int) bool {
	for _, c := range cpu.SupportedPCIe {
		if c.Category == catalog.CategoryPCIe && atGen(c.Version, gen) {
			return true
		}
	}
	return false
}

// m2SlotAt reports whether the board has an M.2 PCIe slot of exactly gen
func m2SlotAt(mobo *catalog.Motherboard, gen int) bool {
	for _, link := range mobo.Connectors {
		if link.Quantity >= 1 && link.Connector.Category == catalog.CategoryM2PCIe && atGen(link.Connector.Version, gen) {
			return true
		}
	}
	return false
}

// driveAt reports whether the drive is an M.2 PCIe drive of exactly gen
func driveAt(drive *catalog.Storage, gen int) bool {
	return drive.Connector != nil &&
		drive.Connector.Category == catalog.CategoryM2PCIe &&
		atGen(drive.Connector.Version, gen)
}

func atGen(version *float64, gen int) bool {
	return version != nil && *version == float64(gen)
}
