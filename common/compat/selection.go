package compat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/power"
)

// Slot names one position in a build
type Slot string

const (
	SlotCPU         Slot = "cpu"
	SlotMotherboard Slot = "motherboard"
	SlotRAM         Slot = "ram"
	SlotGPU         Slot = "gpu"
	SlotStorage     Slot = "storage"
	SlotPSU         Slot = "psu"
	SlotCase        Slot = "case"
	SlotCooler      Slot = "cooler"
)

// Slots lists every slot in display order
var Slots = []Slot{SlotCPU, SlotMotherboard, SlotRAM, SlotGPU, SlotStorage, SlotPSU, SlotCase, SlotCooler}

// ParseSlot accepts slot names and the short query keys used by clients
func ParseSlot(key string) (Slot, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "cpu":
		return SlotCPU, true
	case "mobo", "motherboard":
		return SlotMotherboard, true
	case "ram":
		return SlotRAM, true
	case "gpu":
		return SlotGPU, true
	case "mem", "storage":
		return SlotStorage, true
	case "psu":
		return SlotPSU, true
	case "case", "chassis":
		return SlotCase, true
	case "cooler":
		return SlotCooler, true
	default:
		return "", false
	}
}

// PCIePolicy decides how a provider's PCIe generation must relate to a consumer's
type PCIePolicy string

const (
	// Backward lets a newer slot serve an older device
	Backward PCIePolicy = "backward"
	// Strict requires equal generations
	Strict PCIePolicy = "strict"
)

// ParsePCIePolicy accepts "backward" (default when empty) or "strict"
func ParsePCIePolicy(s string) (PCIePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Backward):
		return Backward, nil
	case string(Strict):
		return Strict, nil
	default:
		return "", fmt.Errorf("%w: unknown pcie policy %q", apperrors.ErrInvalidInput, s)
	}
}

// Options carries the policies a resolution runs under
type Options struct {
	PCIe    PCIePolicy
	Wattage power.WattagePolicy
}

// DefaultOptions returns backward PCIe matching and recommended wattage
func DefaultOptions() Options {
	return Options{PCIe: Backward, Wattage: power.Recommended}
}

// Selection is the set of parts currently chosen, one per slot
type Selection struct {
	CPU         *catalog.CPU
	Motherboard *catalog.Motherboard
	RAM         *catalog.RAM
	GPU         *catalog.GPU
	Storage     *catalog.Storage
	PSU         *catalog.PSU
	Case        *catalog.Case
	Cooler      *catalog.Cooler

	Options Options
}

// Has reports whether slot holds a part
func (s Selection) Has(slot Slot) bool {
	switch slot {
	case SlotCPU:
		return s.CPU != nil
	case SlotMotherboard:
		return s.Motherboard != nil
	case SlotRAM:
		return s.RAM != nil
	case SlotGPU:
		return s.GPU != nil
	case SlotStorage:
		return s.Storage != nil
	case SlotPSU:
		return s.PSU != nil
	case SlotCase:
		return s.Case != nil
	case SlotCooler:
		return s.Cooler != nil
	default:
		return false
	}
}

// Empty reports whether no slot holds a part
func (s Selection) Empty() bool {
	for _, slot := range Slots {
		if s.Has(slot) {
			return false
		}
	}
	return true
}

// IDs returns the id of every filled slot
func (s Selection) IDs() map[Slot]int64 {
	ids := make(map[Slot]int64)
	if s.CPU != nil {
		ids[SlotCPU] = s.CPU.ID
	}
	if s.Motherboard != nil {
		ids[SlotMotherboard] = s.Motherboard.ID
	}
	if s.RAM != nil {
		ids[SlotRAM] = s.RAM.ID
	}
	if s.GPU != nil {
		ids[SlotGPU] = s.GPU.ID
	}
	if s.Storage != nil {
		ids[SlotStorage] = s.Storage.ID
	}
	if s.PSU != nil {
		ids[SlotPSU] = s.PSU.ID
	}
	if s.Case != nil {
		ids[SlotCase] = s.Case.ID
	}
	if s.Cooler != nil {
		ids[SlotCooler] = s.Cooler.ID
	}
	return ids
}

// SelectionFromIDs looks every id up in cat. An id missing from the
// catalog is an ErrNotFound.
func SelectionFromIDs(cat *catalog.Catalog, ids map[Slot]int64, opts Options) (Selection, error) {
	sel := Selection{Options: opts}

	slots := make([]Slot, 0, len(ids))
	for slot := range ids {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	for _, slot := range slots {
		id := ids[slot]
		found := false
		switch slot {
		case SlotCPU:
			sel.CPU, found = cat.CPU(id)
		case SlotMotherboard:
			sel.Motherboard, found = cat.Motherboard(id)
		case SlotRAM:
			sel.RAM, found = cat.RAM(id)
		case SlotGPU:
			sel.GPU, found = cat.GPU(id)
		case SlotStorage:
			sel.Storage, found = cat.Storage(id)
		case SlotPSU:
			sel.PSU, found = cat.PSU(id)
		case SlotCase:
			sel.Case, found = cat.Case(id)
		case SlotCooler:
			sel.Cooler, found = cat.Cooler(id)
		default:
			return Selection{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownPartType, slot)
		}
		if !found {
			return Selection{}, fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, slot, id)
		}
	}

	return sel, nil
}

// ParseIDs reads selected part ids from query parameters. Keys that are
// not slot names are ignored; a slot key with a non-numeric or
// non-positive value is rejected, as are two aliases naming different ids.
func ParseIDs(params map[string][]string) (map[Slot]int64, error) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ids := make(map[Slot]int64)
	seen := make(map[Slot]string)
	for _, key := range keys {
		values := params[key]
		slot, ok := ParseSlot(key)
		if !ok || len(values) == 0 {
			continue
		}
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", apperrors.ErrInvalidInput, key, raw)
		}
		if prev, dup := ids[slot]; dup && prev != id {
			return nil, fmt.Errorf("%w: %s and %s name different %s ids", apperrors.ErrInvalidInput, seen[slot], key, slot)
		}
		ids[slot] = id
		seen[slot] = key
	}
	return ids, nil
}
