package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/db"
	"github.com/rigforge/configurator/common/power"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CatalogRepository loads the part catalog from Postgres
type CatalogRepository struct {
	db *db.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *db.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// lookups holds the reference tables every part table points into
type lookups struct {
	manufacturers map[int64]catalog.Manufacturer
	sockets       map[int64]catalog.Socket
	formFactors   map[int64]catalog.FormFactor
	ramBases      map[int64]catalog.RAMBase
	connectors    map[int64]catalog.Connector
	chips         map[int64]*catalog.GraphicsChip
	gpuLinks      map[int64][]catalog.ConnectorLink
	moboLinks     map[int64][]catalog.ConnectorLink
}

// Load reads every table and builds one snapshot. Reference tables are
// read first; part tables are then read concurrently.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	lk, err := r.loadLookups(ctx)
	if err != nil {
		return nil, err
	}

	var parts catalog.Parts
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { parts.CPUs, err = r.loadCPUs(egCtx, lk); return })
	eg.Go(func() (err error) { parts.GPUs, err = r.loadGPUs(egCtx, lk); return })
	eg.Go(func() (err error) { parts.Motherboards, err = r.loadMotherboards(egCtx, lk); return })
	eg.Go(func() (err error) { parts.RAMs, err = r.loadRAMs(egCtx, lk); return })
	eg.Go(func() (err error) { parts.Storages, err = r.loadStorages(egCtx, lk); return })
	eg.Go(func() (err error) { parts.PSUs, err = r.loadPSUs(egCtx, lk); return })
	eg.Go(func() (err error) { parts.Cases, err = r.loadCases(egCtx, lk); return })
	eg.Go(func() (err error) { parts.Coolers, err = r.loadCoolers(egCtx, lk); return })
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return catalog.New(parts), nil
}

func (r *CatalogRepository) loadLookups(ctx context.Context) (*lookups, error) {
	lk := &lookups{
		manufacturers: make(map[int64]catalog.Manufacturer),
		sockets:       make(map[int64]catalog.Socket),
		formFactors:   make(map[int64]catalog.FormFactor),
		ramBases:      make(map[int64]catalog.RAMBase),
		connectors:    make(map[int64]catalog.Connector),
		chips:         make(map[int64]*catalog.GraphicsChip),
	}

	err := each(ctx, r.db, `SELECT id, name FROM manufacturer`, func(rows pgx.Rows) error {
		var m catalog.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return err
		}
		lk.manufacturers[m.ID] = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load manufacturers: %w", err)
	}

	err = each(ctx, r.db, `SELECT id, name FROM socket`, func(rows pgx.Rows) error {
		var s catalog.Socket
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return err
		}
		lk.sockets[s.ID] = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sockets: %w", err)
	}

	err = each(ctx, r.db, `SELECT id, name FROM form_factor`, func(rows pgx.Rows) error {
		var f catalog.FormFactor
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return err
		}
		lk.formFactors[f.ID] = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load form factors: %w", err)
	}

	err = each(ctx, r.db, `SELECT id, type, mts FROM ram_base`, func(rows pgx.Rows) error {
		var b catalog.RAMBase
		var t string
		if err := rows.Scan(&b.ID, &t, &b.MTs); err != nil {
			return err
		}
		b.Type = catalog.RAMType(t)
		lk.ramBases[b.ID] = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load ram bases: %w", err)
	}

	query := `
		SELECT id, category, version::float8, lanes, speed, extra, is_power
		FROM connector
	`
	err = each(ctx, r.db, query, func(rows pgx.Rows) error {
		var c catalog.Connector
		var category string
		if err := rows.Scan(&c.ID, &category, &c.Version, &c.Lanes, &c.Speed, &c.Extra, &c.IsPower); err != nil {
			return err
		}
		c.Category = catalog.ConnectorCategory(category)
		lk.connectors[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load connectors: %w", err)
	}

	query = `
		SELECT id, vendor, marketing_name, architecture, shader_units, memory_type,
		       pcie_max_gen, pcie_max_width, ray_tracing_gen, upscaling_technology
		FROM graphics_chip
	`
	err = each(ctx, r.db, query, func(rows pgx.Rows) error {
		g := &catalog.GraphicsChip{}
		if err := rows.Scan(&g.ID, &g.Vendor, &g.MarketingName, &g.Architecture, &g.ShaderUnits,
			&g.MemoryType, &g.PCIeMaxGen, &g.PCIeMaxWidth, &g.RayTracingGen, &g.Upscaling); err != nil {
			return err
		}
		lk.chips[g.ID] = g
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load graphics chips: %w", err)
	}

	lk.gpuLinks, err = r.loadLinks(ctx, `SELECT gpu_id, connector_id, quantity FROM gpu_connector`, lk)
	if err != nil {
		return nil, fmt.Errorf("failed to load gpu connectors: %w", err)
	}
	lk.moboLinks, err = r.loadLinks(ctx, `SELECT motherboard_id, connector_id, quantity FROM motherboard_connector`, lk)
	if err != nil {
		return nil, fmt.Errorf("failed to load motherboard connectors: %w", err)
	}

	return lk, nil
}

func (r *CatalogRepository) loadLinks(ctx context.Context, query string, lk *lookups) (map[int64][]catalog.ConnectorLink, error) {
	links := make(map[int64][]catalog.ConnectorLink)
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		var partID, connectorID int64
		var qty int
		if err := rows.Scan(&partID, &connectorID, &qty); err != nil {
			return err
		}
		c, ok := lk.connectors[connectorID]
		if !ok {
			return fmt.Errorf("part %d references unknown connector %d", partID, connectorID)
		}
		links[partID] = append(links[partID], catalog.ConnectorLink{Connector: c, Quantity: qty})
		return nil
	})
	return links, err
}

func (r *CatalogRepository) loadCPUs(ctx context.Context, lk *lookups) ([]*catalog.CPU, error) {
	query := `
		SELECT id, manufacturer_id, name, family, generation, socket_id, p_cores, e_cores, threads,
		       base_clock_ghz::float8, boost_clock_ghz::float8, cache_mb, tdp, integrated_gpu,
		       max_internal_memory_gb, supported_ram_ids, supported_pcie_ids, price::text
		FROM cpu
	`
	var cpus []*catalog.CPU
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		c := &catalog.CPU{}
		var manufacturerID, socketID int64
		var ramIDs, pcieIDs []int64
		var price *string
		if err := rows.Scan(&c.ID, &manufacturerID, &c.Name, &c.Family, &c.Generation, &socketID,
			&c.PCores, &c.ECores, &c.Threads, &c.BaseClockGHz, &c.BoostClockGHz, &c.CacheMB, &c.TDP,
			&c.IntegratedGPU, &c.MaxInternalMemoryGB, &ramIDs, &pcieIDs, &price); err != nil {
			return err
		}
		c.Manufacturer = lk.manufacturer(manufacturerID)
		c.Socket = lk.socket(socketID)
		c.SupportedRAM = lk.ramBaseList(ramIDs)
		c.SupportedPCIe = lk.connectorList(pcieIDs)
		var err error
		if c.Price, err = parsePrice(price); err != nil {
			return err
		}
		cpus = append(cpus, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cpus: %w", err)
	}
	return cpus, nil
}

func (r *CatalogRepository) loadGPUs(ctx context.Context, lk *lookups) ([]*catalog.GPU, error) {
	query := `
		SELECT id, manufacturer_id, model_name, graphics_chip_id, vram_size_gb, base_clock_mhz,
		       boost_clock_mhz, tdp, recommended_system_power_w, length_mm, slot_width::float8, price::text
		FROM gpu
	`
	var gpus []*catalog.GPU
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		g := &catalog.GPU{}
		var manufacturerID int64
		var chipID *int64
		var price *string
		if err := rows.Scan(&g.ID, &manufacturerID, &g.ModelName, &chipID, &g.VRAMSizeGB, &g.BaseClockMHz,
			&g.BoostClockMHz, &g.TDP, &g.RecommendedSystemPowerW, &g.LengthMM, &g.SlotWidth, &price); err != nil {
			return err
		}
		g.Manufacturer = lk.manufacturer(manufacturerID)
		if chipID != nil {
			g.Chip = lk.chips[*chipID]
		}
		g.Connectors = lk.gpuLinks[g.ID]
		var err error
		if g.Price, err = parsePrice(price); err != nil {
			return err
		}
		gpus = append(gpus, g)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load gpus: %w", err)
	}
	return gpus, nil
}

func (r *CatalogRepository) loadMotherboards(ctx context.Context, lk *lookups) ([]*catalog.Motherboard, error) {
	query := `
		SELECT id, manufacturer_id, name, socket_id, form_factor_id, supported_ram_ids,
		       dimm_slots, max_ram_capacity, price::text
		FROM motherboard
	`
	var mobos []*catalog.Motherboard
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		m := &catalog.Motherboard{}
		var manufacturerID, socketID, formFactorID int64
		var ramIDs []int64
		var price *string
		if err := rows.Scan(&m.ID, &manufacturerID, &m.Name, &socketID, &formFactorID, &ramIDs,
			&m.DIMMSlots, &m.MaxRAMCapacityGB, &price); err != nil {
			return err
		}
		m.Manufacturer = lk.manufacturer(manufacturerID)
		m.Socket = lk.socket(socketID)
		m.FormFactor = lk.formFactor(formFactorID)
		m.SupportedRAM = lk.ramBaseList(ramIDs)
		m.Connectors = lk.moboLinks[m.ID]
		var err error
		if m.Price, err = parsePrice(price); err != nil {
			return err
		}
		mobos = append(mobos, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load motherboards: %w", err)
	}
	return mobos, nil
}

func (r *CatalogRepository) loadRAMs(ctx context.Context, lk *lookups) ([]*catalog.RAM, error) {
	query := `
		SELECT id, manufacturer_id, name, ram_base_id, modules_count, module_size_gb, cas_latency, price::text
		FROM ram
	`
	var rams []*catalog.RAM
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		m := &catalog.RAM{}
		var manufacturerID, baseID int64
		var price *string
		if err := rows.Scan(&m.ID, &manufacturerID, &m.Name, &baseID, &m.ModulesCount,
			&m.ModuleSizeGB, &m.CASLatency, &price); err != nil {
			return err
		}
		m.Manufacturer = lk.manufacturer(manufacturerID)
		m.Base = lk.ramBases[baseID]
		var err error
		if m.Price, err = parsePrice(price); err != nil {
			return err
		}
		rams = append(rams, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load rams: %w", err)
	}
	return rams, nil
}

func (r *CatalogRepository) loadStorages(ctx context.Context, lk *lookups) ([]*catalog.Storage, error) {
	query := `
		SELECT id, manufacturer_id, name, type, capacity_gb, connector_id, price::text
		FROM storage
	`
	var drives []*catalog.Storage
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		s := &catalog.Storage{}
		var manufacturerID int64
		var connectorID *int64
		var price *string
		if err := rows.Scan(&s.ID, &manufacturerID, &s.Name, &s.Type, &s.CapacityGB, &connectorID, &price); err != nil {
			return err
		}
		s.Manufacturer = lk.manufacturer(manufacturerID)
		if connectorID != nil {
			if c, ok := lk.connectors[*connectorID]; ok {
				s.Connector = &c
			}
		}
		var err error
		if s.Price, err = parsePrice(price); err != nil {
			return err
		}
		drives = append(drives, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}
	return drives, nil
}

func (r *CatalogRepository) loadPSUs(ctx context.Context, lk *lookups) ([]*catalog.PSU, error) {
	query := `
		SELECT id, manufacturer_id, name, wattage, form_factor_id, connectors, price::text
		FROM psu
	`
	var psus []*catalog.PSU
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		p := &catalog.PSU{}
		var manufacturerID, formFactorID int64
		var raw []byte
		var price *string
		if err := rows.Scan(&p.ID, &manufacturerID, &p.Name, &p.Wattage, &formFactorID, &raw, &price); err != nil {
			return err
		}
		p.Manufacturer = lk.manufacturer(manufacturerID)
		p.FormFactor = lk.formFactor(formFactorID)
		p.Connectors = power.NormalizeJSON(raw)
		var err error
		if p.Price, err = parsePrice(price); err != nil {
			return err
		}
		psus = append(psus, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load psus: %w", err)
	}
	return psus, nil
}

func (r *CatalogRepository) loadCases(ctx context.Context, lk *lookups) ([]*catalog.Case, error) {
	query := `
		SELECT id, manufacturer_id, name, max_gpu_length_mm, mobo_form_factor_ids, psu_form_factor_ids, price::text
		FROM pc_case
	`
	var cases []*catalog.Case
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		c := &catalog.Case{}
		var manufacturerID int64
		var moboIDs, psuIDs []int64
		var price *string
		if err := rows.Scan(&c.ID, &manufacturerID, &c.Name, &c.MaxGPULengthMM, &moboIDs, &psuIDs, &price); err != nil {
			return err
		}
		c.Manufacturer = lk.manufacturer(manufacturerID)
		c.MotherboardFormFactors = lk.formFactorList(moboIDs)
		c.PSUFormFactors = lk.formFactorList(psuIDs)
		var err error
		if c.Price, err = parsePrice(price); err != nil {
			return err
		}
		cases = append(cases, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	return cases, nil
}

func (r *CatalogRepository) loadCoolers(ctx context.Context, lk *lookups) ([]*catalog.Cooler, error) {
	query := `
		SELECT id, manufacturer_id, name, type, tdp_w_supported, socket_ids, price::text
		FROM cooler
	`
	var coolers []*catalog.Cooler
	err := each(ctx, r.db, query, func(rows pgx.Rows) error {
		c := &catalog.Cooler{}
		var manufacturerID int64
		var socketIDs []int64
		var price *string
		if err := rows.Scan(&c.ID, &manufacturerID, &c.Name, &c.Type, &c.TDPSupported, &socketIDs, &price); err != nil {
			return err
		}
		c.Manufacturer = lk.manufacturer(manufacturerID)
		for _, id := range socketIDs {
			c.Sockets = append(c.Sockets, lk.socket(id))
		}
		var err error
		if c.Price, err = parsePrice(price); err != nil {
			return err
		}
		coolers = append(coolers, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load coolers: %w", err)
	}
	return coolers, nil
}

// each runs query and calls fn for every row
func each(ctx context.Context, d *db.DB, query string, fn func(pgx.Rows) error) error {
	rows, err := d.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// parsePrice reads a NUMERIC rendered as text; NULL stays nil
func parsePrice(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", *raw, err)
	}
	return &d, nil
}

// Lookups of a missing id keep the id so the reference stays visible

func (lk *lookups) manufacturer(id int64) catalog.Manufacturer {
	if m, ok := lk.manufacturers[id]; ok {
		return m
	}
	return catalog.Manufacturer{ID: id}
}

func (lk *lookups) socket(id int64) catalog.Socket {
	if s, ok := lk.sockets[id]; ok {
		return s
	}
	return catalog.Socket{ID: id}
}

func (lk *lookups) formFactor(id int64) catalog.FormFactor {
	if f, ok := lk.formFactors[id]; ok {
		return f
	}
	return catalog.FormFactor{ID: id}
}

func (lk *lookups) formFactorList(ids []int64) []catalog.FormFactor {
	out := make([]catalog.FormFactor, 0, len(ids))
	for _, id := range ids {
		out = append(out, lk.formFactor(id))
	}
	return out
}

func (lk *lookups) ramBaseList(ids []int64) []catalog.RAMBase {
	out := make([]catalog.RAMBase, 0, len(ids))
	for _, id := range ids {
		if b, ok := lk.ramBases[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (lk *lookups) connectorList(ids []int64) []catalog.Connector {
	out := make([]catalog.Connector, 0, len(ids))
	for _, id := range ids {
		if c, ok := lk.connectors[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
