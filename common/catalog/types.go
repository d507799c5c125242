package catalog

import (
	"github.com/shopspring/decimal"
)

// RAMType is a memory generation
type RAMType string

const (
	DDR3 RAMType = "DDR3"
	DDR4 RAMType = "DDR4"
	DDR5 RAMType = "DDR5"
)

// ConnectorCategory enumerates every physical/electrical interface kind
type ConnectorCategory string

const (
	CategoryPCIe        ConnectorCategory = "PCIe"
	CategoryM2PCIe      ConnectorCategory = "M.2 PCIe"
	CategoryM2SATA      ConnectorCategory = "M.2 SATA"
	CategorySATA        ConnectorCategory = "SATA"
	CategoryUSB         ConnectorCategory = "USB"
	CategoryHDMI        ConnectorCategory = "HDMI"
	CategoryDisplayPort ConnectorCategory = "DisplayPort"
	CategoryDVI         ConnectorCategory = "DVI"
	CategoryVGA         ConnectorCategory = "VGA"
	CategoryUSBC        ConnectorCategory = "USB-C"
	CategoryFan         ConnectorCategory = "Fan"
	CategoryATXPower    ConnectorCategory = "ATX Power"
	CategoryCPUPower    ConnectorCategory = "CPU Power"
	CategoryPCIePower   ConnectorCategory = "PCIe Power"
	CategorySATAPower   ConnectorCategory = "SATA Power"
	CategoryMolex       ConnectorCategory = "Molex"
	CategoryAudio       ConnectorCategory = "Audio"
)

// Manufacturer is referenced by every part for display only
type Manufacturer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Socket is the CPU/motherboard mounting standard (e.g. "AM5")
type Socket struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// FormFactor is a motherboard or PSU physical size standard
type FormFactor struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// RAMBase is a memory generation and transfer rate pair
type RAMBase struct {
	ID   int64   `db:"id" json:"id"`
	Type RAMType `db:"type" json:"type"`
	MTs  int     `db:"mts" json:"mts"`
}

// Connector is the unified descriptor for slots, ports and power plugs
type Connector struct {
	ID       int64             `db:"id" json:"id"`
	Category ConnectorCategory `db:"category" json:"category"`
	Version  *float64          `db:"version" json:"version,omitempty"`
	Lanes    *int              `db:"lanes" json:"lanes,omitempty"`
	Speed    string            `db:"speed" json:"speed,omitempty"`
	Extra    string            `db:"extra" json:"extra,omitempty"`
	IsPower  bool              `db:"is_power" json:"is_power"`
}

// ConnectorLink associates a connector with a part, with quantity
type ConnectorLink struct {
	Connector Connector `json:"connector"`
	Quantity  int       `json:"quantity"`
}

// PowerConnector is the normalized PSU supply entry.
// Pins is nil when the category is known but the pin count is not.
type PowerConnector struct {
	Category ConnectorCategory `json:"category"`
	Pins     *int              `json:"pins,omitempty"`
	Version  *float64          `json:"version,omitempty"`
	Quantity int               `json:"quantity"`
}

// CPU is a processor SKU
type CPU struct {
	ID                  int64            `json:"id"`
	Manufacturer        Manufacturer     `json:"manufacturer"`
	Name                string           `json:"name"`
	Family              string           `json:"family,omitempty"`
	Generation          string           `json:"generation,omitempty"`
	Socket              Socket           `json:"socket"`
	PCores              int              `json:"p_cores"`
	ECores              int              `json:"e_cores"`
	Threads             int              `json:"threads"`
	BaseClockGHz        float64          `json:"base_clock_ghz"`
	BoostClockGHz       float64          `json:"boost_clock_ghz"`
	CacheMB             int              `json:"cache_mb"`
	TDP                 int              `json:"tdp"`
	IntegratedGPU       bool             `json:"integrated_gpu"`
	MaxInternalMemoryGB *int             `json:"max_internal_memory_gb,omitempty"`
	SupportedRAM        []RAMBase        `json:"supported_ram"`
	SupportedPCIe       []Connector      `json:"supported_pcie"`
	Price               *decimal.Decimal `json:"price,omitempty"`
}

// GraphicsChip is the GPU silicon shared by board-partner SKUs
type GraphicsChip struct {
	ID            int64  `json:"id"`
	Vendor        string `json:"vendor,omitempty"`
	MarketingName string `json:"marketing_name"`
	Architecture  string `json:"architecture,omitempty"`
	ShaderUnits   int    `json:"shader_units"`
	MemoryType    string `json:"memory_type,omitempty"`
	PCIeMaxGen    *int   `json:"pcie_max_gen,omitempty"`
	PCIeMaxWidth  int    `json:"pcie_max_width"`
	RayTracingGen *int   `json:"ray_tracing_gen,omitempty"`
	Upscaling     string `json:"upscaling_technology,omitempty"`
}

// GPU is a graphics card SKU
type GPU struct {
	ID                      int64            `json:"id"`
	Manufacturer            Manufacturer     `json:"manufacturer"`
	ModelName               string           `json:"model_name"`
	Chip                    *GraphicsChip    `json:"graphics_chip,omitempty"`
	VRAMSizeGB              int              `json:"vram_size_gb"`
	BaseClockMHz            int              `json:"base_clock_mhz"`
	BoostClockMHz           int              `json:"boost_clock_mhz"`
	TDP                     *int             `json:"tdp,omitempty"`
	RecommendedSystemPowerW *int             `json:"recommended_system_power_w,omitempty"`
	LengthMM                *int             `json:"length_mm,omitempty"`
	SlotWidth               float64          `json:"slot_width,omitempty"`
	Connectors              []ConnectorLink  `json:"connectors"`
	Price                   *decimal.Decimal `json:"price,omitempty"`
}

// Motherboard is a mainboard SKU
type Motherboard struct {
	ID               int64            `json:"id"`
	Manufacturer     Manufacturer     `json:"manufacturer"`
	Name             string           `json:"name"`
	Socket           Socket           `json:"socket"`
	FormFactor       FormFactor       `json:"form_factor"`
	SupportedRAM     []RAMBase        `json:"supported_ram"`
	DIMMSlots        int              `json:"dimm_slots"`
	MaxRAMCapacityGB int              `json:"max_ram_capacity"`
	Connectors       []ConnectorLink  `json:"connectors"`
	Price            *decimal.Decimal `json:"price,omitempty"`
}

// RAM is a memory kit
type RAM struct {
	ID           int64            `json:"id"`
	Manufacturer Manufacturer     `json:"manufacturer"`
	Name         string           `json:"name"`
	Base         RAMBase          `json:"base"`
	ModulesCount int              `json:"modules_count"`
	ModuleSizeGB int              `json:"module_size_gb"`
	CASLatency   int              `json:"cas_latency"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// Storage is a drive
type Storage struct {
	ID           int64            `json:"id"`
	Manufacturer Manufacturer     `json:"manufacturer"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	CapacityGB   int              `json:"capacity_gb"`
	Connector    *Connector       `json:"connector,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// PSU is a power supply. Connectors are normalized on ingestion.
type PSU struct {
	ID           int64            `json:"id"`
	Manufacturer Manufacturer     `json:"manufacturer"`
	Name         string           `json:"name"`
	Wattage      int              `json:"wattage"`
	FormFactor   FormFactor       `json:"form_factor"`
	Connectors   []PowerConnector `json:"connectors"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// Case is a chassis
type Case struct {
	ID                     int64            `json:"id"`
	Manufacturer           Manufacturer     `json:"manufacturer"`
	Name                   string           `json:"name"`
	MaxGPULengthMM         *int             `json:"max_gpu_length_mm,omitempty"`
	MotherboardFormFactors []FormFactor     `json:"mobo_form_factor_support"`
	PSUFormFactors         []FormFactor     `json:"psu_form_factor_support"`
	Price                  *decimal.Decimal `json:"price,omitempty"`
}

// Cooler is a CPU cooler
type Cooler struct {
	ID           int64            `json:"id"`
	Manufacturer Manufacturer     `json:"manufacturer"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	TDPSupported int              `json:"tdp_w_supported"`
	Sockets      []Socket         `json:"sockets"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}
