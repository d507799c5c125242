package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/power"
)

// psuRecord keeps the stored connector inventory raw so it can be normalized
type psuRecord struct {
	catalog.PSU
	Connectors json.RawMessage `json:"connectors"`
}

type document struct {
	CPUs         []*catalog.CPU         `json:"cpus"`
	GPUs         []*catalog.GPU         `json:"gpus"`
	Motherboards []*catalog.Motherboard `json:"motherboards"`
	RAMs         []*catalog.RAM         `json:"rams"`
	Storages     []*catalog.Storage     `json:"storages"`
	PSUs         []psuRecord            `json:"psus"`
	Cases        []*catalog.Case        `json:"cases"`
	Coolers      []*catalog.Cooler      `json:"coolers"`
}

// Reader loads a catalog from a JSON file
type Reader struct {
	Path string
}

// NewReader creates a file-backed catalog reader
func NewReader(path string) *Reader {
	return &Reader{Path: path}
}

func (r *Reader) Load(ctx context.Context) (*catalog.Catalog, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a catalog document. PSU connector inventories may mix
// structured records and free text; they are normalized here.
func Decode(r io.Reader) (*catalog.Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	psus := make([]*catalog.PSU, 0, len(doc.PSUs))
	for i := range doc.PSUs {
		psu := doc.PSUs[i].PSU
		psu.Connectors = power.NormalizeJSON(doc.PSUs[i].Connectors)
		psus = append(psus, &psu)
	}

	return catalog.New(catalog.Parts{
		CPUs:         doc.CPUs,
		GPUs:         doc.GPUs,
		Motherboards: doc.Motherboards,
		RAMs:         doc.RAMs,
		Storages:     doc.Storages,
		PSUs:         psus,
		Cases:        doc.Cases,
		Coolers:      doc.Coolers,
	}), nil
}
