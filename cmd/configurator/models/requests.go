package models

import "github.com/rigforge/configurator/common/compat"

// SelectionRequest names one part id per slot
type SelectionRequest struct {
	CPU         *int64 `json:"cpu" validate:"omitempty,gt=0"`
	GPU         *int64 `json:"gpu" validate:"omitempty,gt=0"`
	Motherboard *int64 `json:"motherboard" validate:"omitempty,gt=0"`
	RAM         *int64 `json:"ram" validate:"omitempty,gt=0"`
	Storage     *int64 `json:"storage" validate:"omitempty,gt=0"`
	PSU         *int64 `json:"psu" validate:"omitempty,gt=0"`
	Case        *int64 `json:"case" validate:"omitempty,gt=0"`
	Cooler      *int64 `json:"cooler" validate:"omitempty,gt=0"`

	// Policy is the PCIe matching policy, "backward" or "strict"
	Policy string `json:"policy" validate:"omitempty,oneof=backward strict"`
}

// IDs returns the filled slots of the request
func (r *SelectionRequest) IDs() map[compat.Slot]int64 {
	ids := make(map[compat.Slot]int64)
	put := func(slot compat.Slot, id *int64) {
		if id != nil {
			ids[slot] = *id
		}
	}
	put(compat.SlotCPU, r.CPU)
	put(compat.SlotGPU, r.GPU)
	put(compat.SlotMotherboard, r.Motherboard)
	put(compat.SlotRAM, r.RAM)
	put(compat.SlotStorage, r.Storage)
	put(compat.SlotPSU, r.PSU)
	put(compat.SlotCase, r.Case)
	put(compat.SlotCooler, r.Cooler)
	return ids
}

// SaveBuildRequest is the body of POST /api/v1/builds
type SaveBuildRequest struct {
	SelectionRequest
	Name string `json:"name" validate:"max=120"`
}

// CheckResponse lists the rules a selection breaks
type CheckResponse struct {
	Compatible bool               `json:"compatible"`
	Violations []compat.Violation `json:"violations"`
}
