package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rigforge/configurator/common/compat"
)

// Build is a saved, immutable selection of parts.
// Maps to: build table
type Build struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Owner string    `db:"owner" json:"owner"`
	Name  string    `db:"name" json:"name"`

	// Selected part ids; nil means the slot is empty
	CPUID         *int64 `db:"cpu_id" json:"cpu,omitempty"`
	GPUID         *int64 `db:"gpu_id" json:"gpu,omitempty"`
	MotherboardID *int64 `db:"motherboard_id" json:"motherboard,omitempty"`
	RAMID         *int64 `db:"ram_id" json:"ram,omitempty"`
	StorageID     *int64 `db:"storage_id" json:"storage,omitempty"`
	PSUID         *int64 `db:"psu_id" json:"psu,omitempty"`
	CaseID        *int64 `db:"case_id" json:"case,omitempty"`
	CoolerID      *int64 `db:"cooler_id" json:"cooler,omitempty"`

	// Snapshot this build was patched from
	ParentID  *uuid.UUID `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// PartIDs returns the filled slots of the build
func (b *Build) PartIDs() map[compat.Slot]int64 {
	ids := make(map[compat.Slot]int64)
	for slot, p := range b.slots() {
		if *p != nil {
			ids[slot] = **p
		}
	}
	return ids
}

// SetPartIDs replaces every slot with the given ids
func (b *Build) SetPartIDs(ids map[compat.Slot]int64) {
	for slot, p := range b.slots() {
		*p = nil
		if id, ok := ids[slot]; ok {
			*p = &id
		}
	}
}

func (b *Build) slots() map[compat.Slot]**int64 {
	return map[compat.Slot]**int64{
		compat.SlotCPU:         &b.CPUID,
		compat.SlotGPU:         &b.GPUID,
		compat.SlotMotherboard: &b.MotherboardID,
		compat.SlotRAM:         &b.RAMID,
		compat.SlotStorage:     &b.StorageID,
		compat.SlotPSU:         &b.PSUID,
		compat.SlotCase:        &b.CaseID,
		compat.SlotCooler:      &b.CoolerID,
	}
}
