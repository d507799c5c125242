package compat

import (
	"fmt"
)

// Constraint is one row of the compatibility table. Check only runs once
// Ready reports that every part it needs is present; an absent part
// leaves the rule unconstrained.
type Constraint struct {
	Name    string
	Slots   []Slot
	Cost    int
	Ready   func(Selection) bool
	Check   func(Selection) bool
	Message func(Selection) string
}

// Involves reports whether the rule constrains slot
func (c Constraint) Involves(slot Slot) bool {
	for _, s := range c.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

func requires(slots ...Slot) func(Selection) bool {
	return func(s Selection) bool {
		for _, slot := range slots {
			if !s.Has(slot) {
				return false
			}
		}
		return true
	}
}

// DefaultConstraints is the full rule table, cheapest rules first
func DefaultConstraints() []Constraint {
	return []Constraint{
		{
			Name:  "socket",
			Slots: []Slot{SlotCPU, SlotMotherboard},
			Cost:  1,
			Ready: requires(SlotCPU, SlotMotherboard),
			Check: func(s Selection) bool { return SocketMatch(s.CPU, s.Motherboard) },
			Message: func(s Selection) string {
				return fmt.Sprintf("CPU socket %s does not match motherboard socket %s", s.CPU.Socket.Name, s.Motherboard.Socket.Name)
			},
		},
		{
			Name:  "case-motherboard",
			Slots: []Slot{SlotCase, SlotMotherboard},
			Cost:  1,
			Ready: requires(SlotCase, SlotMotherboard),
			Check: func(s Selection) bool { return CaseFitsMotherboard(s.Case, s.Motherboard) },
			Message: func(s Selection) string {
				return fmt.Sprintf("case does not support the %s motherboard form factor", s.Motherboard.FormFactor.Name)
			},
		},
		{
			Name:  "case-psu",
			Slots: []Slot{SlotCase, SlotPSU},
			Cost:  1,
			Ready: requires(SlotCase, SlotPSU),
			Check: func(s Selection) bool { return CaseFitsPSU(s.Case, s.PSU) },
			Message: func(s Selection) string {
				return fmt.Sprintf("case does not support the %s PSU form factor", s.PSU.FormFactor.Name)
			},
		},
		{
			Name:  "case-gpu",
			Slots: []Slot{SlotCase, SlotGPU},
			Cost:  1,
			Ready: requires(SlotCase, SlotGPU),
			Check: func(s Selection) bool { return CaseFitsGPU(s.Case, s.GPU) },
			Message: func(s Selection) string {
				return "graphics card does not fit in the case or its length is unknown"
			},
		},
		{
			Name:  "cooler-cpu",
			Slots: []Slot{SlotCooler, SlotCPU},
			Cost:  1,
			Ready: requires(SlotCooler, SlotCPU),
			Check: func(s Selection) bool { return CoolerFitsCPU(s.Cooler, s.CPU) },
			Message: func(s Selection) string {
				return fmt.Sprintf("cooler does not support socket %s at %d W", s.CPU.Socket.Name, s.CPU.TDP)
			},
		},
		{
			Name:  "cpu-ram",
			Slots: []Slot{SlotCPU, SlotRAM},
			Cost:  2,
			Ready: requires(SlotCPU, SlotRAM),
			Check: func(s Selection) bool { return CPUSupportsRAM(s.CPU, s.RAM) },
			Message: func(s Selection) string {
				return fmt.Sprintf("CPU does not support %s memory of %d GB", s.RAM.Base.Type, s.RAM.TotalCapacityGB())
			},
		},
		{
			Name:  "motherboard-ram",
			Slots: []Slot{SlotMotherboard, SlotRAM},
			Cost:  2,
			Ready: requires(SlotMotherboard, SlotRAM),
			Check: func(s Selection) bool { return MotherboardSupportsRAM(s.Motherboard, s.RAM) },
			Message: func(s Selection) string {
				return fmt.Sprintf("motherboard does not support %d x %d GB %s", s.RAM.ModulesCount, s.RAM.ModuleSizeGB, s.RAM.Base.Type)
			},
		},
		{
			Name:  "psu-wattage",
			Slots: []Slot{SlotPSU, SlotGPU, SlotCPU},
			Cost:  2,
			Ready: func(s Selection) bool { return s.PSU != nil && (s.GPU != nil || s.CPU != nil) },
			Check: func(s Selection) bool { return PSUWattageSufficient(s.Options.Wattage, s.PSU, s.GPU, s.CPU) },
			Message: func(s Selection) string {
				return fmt.Sprintf("power supply rated %d W is not enough", s.PSU.Wattage)
			},
		},
		{
			Name:  "cpu-gpu",
			Slots: []Slot{SlotCPU, SlotGPU},
			Cost:  3,
			Ready: requires(SlotCPU, SlotGPU),
			Check: func(s Selection) bool { return CPUServesGPU(s.Options.PCIe, s.CPU, s.GPU) },
			Message: func(s Selection) string {
				return "CPU PCIe lanes cannot serve the graphics card"
			},
		},
		{
			Name:  "motherboard-gpu",
			Slots: []Slot{SlotMotherboard, SlotGPU},
			Cost:  3,
			Ready: requires(SlotMotherboard, SlotGPU),
			Check: func(s Selection) bool { return MotherboardServesGPU(s.Options.PCIe, s.Motherboard, s.GPU) },
			Message: func(s Selection) string {
				return "motherboard primary PCIe slot cannot serve the graphics card"
			},
		},
		{
			Name:  "motherboard-storage",
			Slots: []Slot{SlotMotherboard, SlotStorage},
			Cost:  3,
			Ready: requires(SlotMotherboard, SlotStorage),
			Check: func(s Selection) bool { return MotherboardServesStorage(s.Options.PCIe, s.Motherboard, s.Storage) },
			Message: func(s Selection) string {
				return "motherboard has no slot for the storage drive"
			},
		},
		{
			Name:  "psu-connectors",
			Slots: []Slot{SlotPSU, SlotMotherboard, SlotGPU},
			Cost:  5,
			Ready: func(s Selection) bool { return s.PSU != nil && (s.Motherboard != nil || s.GPU != nil) },
			Check: func(s Selection) bool { return PSUConnectorsSufficient(s.PSU, s.Motherboard, s.GPU) },
			Message: func(s Selection) string {
				return "power supply lacks the connectors the motherboard and graphics card need"
			},
		},
	}
}
