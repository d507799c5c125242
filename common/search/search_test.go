package search

import (
	"context"
	"testing"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/catalogtest"
	"github.com/rigforge/configurator/common/compat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strongCPU(id int64, price string) *catalog.CPU {
	cpu := catalogtest.CPU(id, price)
	cpu.Name = "Ryzen 7 7800X3D"
	cpu.PCores = 8
	cpu.BoostClockGHz = 5.4
	cpu.CacheMB = 96
	return cpu
}

func strongGPU(id int64, price string) *catalog.GPU {
	gpu := catalogtest.GPU(id, price)
	gpu.ModelName = "RX 7900"
	gpu.Chip.ShaderUnits = 6144
	gpu.BoostClockMHz = 2600
	gpu.VRAMSizeGB = 16
	gpu.RecommendedSystemPowerW = catalogtest.Int(650)
	return gpu
}

// tieredCatalog has two CPUs (tiers 5 and 7) and two GPUs (tiers 3 and 5)
// around a single motherboard, RAM kit, drive, PSU and case costing 450.
func tieredCatalog() *catalog.Catalog {
	parts := catalogtest.Scenario()
	parts.CPUs = append(parts.CPUs, strongCPU(2, "450"))
	parts.GPUs = append(parts.GPUs, strongGPU(2, "800"))
	return catalog.New(parts)
}

func search(t *testing.T, s Searcher, cat *catalog.Catalog, budget int64) *Result {
	t.Helper()
	res, err := s.Search(context.Background(), cat, budget)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestTierScores(t *testing.T) {
	assert.Equal(t, 5.08, catalogtest.CPU(1, "1").TierScore())
	assert.Equal(t, 7.28, strongCPU(2, "1").TierScore())
	assert.Equal(t, 3.75, catalogtest.GPU(1, "1").TierScore())
	assert.Equal(t, 5.3, strongGPU(2, "1").TierScore())
}

func TestGreedy_EndToEndScenario(t *testing.T) {
	cat := catalogtest.ScenarioCatalog()
	g := NewGreedy(DefaultConfig(), nil)

	res := search(t, g, cat, 1300)
	require.True(t, res.Found)
	b := res.Build
	assert.Equal(t, int64(1), b.CPU.ID)
	assert.Equal(t, int64(1), b.GPU.ID)
	assert.Equal(t, int64(1), b.Motherboard.ID)
	assert.Equal(t, int64(1), b.RAM.ID)
	assert.Equal(t, int64(1), b.Storage.ID)
	assert.Equal(t, int64(1), b.PSU.ID)
	assert.Equal(t, int64(1), b.Case.ID)
	assert.True(t, b.TotalPrice.Equal(decimal.NewFromInt(1250)), "total %s", b.TotalPrice)
	assert.Equal(t, 8, b.Score)

	res = search(t, g, cat, 1000)
	assert.False(t, res.Found)
	assert.Nil(t, res.Build)
}

func TestGreedy_NonPositiveBudget(t *testing.T) {
	g := NewGreedy(DefaultConfig(), nil)
	for _, budget := range []int64{0, -1, -5000} {
		res := search(t, g, catalogtest.ScenarioCatalog(), budget)
		assert.False(t, res.Found, "budget %d", budget)
	}
}

func TestGreedy_NeverExceedsBudget(t *testing.T) {
	cat := tieredCatalog()
	g := NewGreedy(DefaultConfig(), nil)
	for budget := int64(1000); budget <= 2500; budget += 50 {
		res := search(t, g, cat, budget)
		if res.Found {
			assert.True(t, res.Build.TotalPrice.LessThanOrEqual(decimal.NewFromInt(budget)),
				"budget %d total %s", budget, res.Build.TotalPrice)
		}
	}
}

func TestGreedy_ScoreThenHigherPrice(t *testing.T) {
	cat := tieredCatalog()
	g := NewGreedy(DefaultConfig(), nil)

	res := search(t, g, cat, 1450)
	require.True(t, res.Found)
	assert.Equal(t, 10, res.Build.Score)
	assert.Equal(t, "1400.00", res.Build.TotalPrice.StringFixed(2))

	// Strong CPU + weak GPU and weak CPU + strong GPU both score 10; the
	// pricier one wins.
	res = search(t, g, cat, 1600)
	require.True(t, res.Found)
	assert.Equal(t, 10, res.Build.Score)
	assert.Equal(t, "1550.00", res.Build.TotalPrice.StringFixed(2))
	assert.Equal(t, int64(2), res.Build.GPU.ID)
	assert.Equal(t, int64(1), res.Build.CPU.ID)

	res = search(t, g, cat, 1800)
	require.True(t, res.Found)
	assert.Equal(t, 12, res.Build.Score)
	assert.Equal(t, "1700.00", res.Build.TotalPrice.StringFixed(2))
}

func TestGreedy_MatchesExhaustiveOnSmallCatalog(t *testing.T) {
	cat := tieredCatalog()
	g := NewGreedy(DefaultConfig(), nil)
	x := NewExhaustive(DefaultConfig())

	for _, budget := range []int64{900, 1250, 1300, 1450, 1600, 1800, 2500} {
		got := search(t, g, cat, budget)
		want := search(t, x, cat, budget)
		require.Equal(t, want.Found, got.Found, "budget %d", budget)
		if !want.Found {
			continue
		}
		assert.Equal(t, want.Build.Score, got.Build.Score, "budget %d", budget)
		assert.True(t, want.Build.TotalPrice.Equal(got.Build.TotalPrice), "budget %d", budget)
	}
}

func TestGreedy_NeverBeatsExhaustive(t *testing.T) {
	parts := catalogtest.Scenario()
	parts.CPUs = append(parts.CPUs, strongCPU(2, "450"))
	parts.GPUs = append(parts.GPUs, strongGPU(2, "800"))
	parts.RAMs = append(parts.RAMs, catalogtest.RAM(2, 2, 32, "160"))
	parts.Storages = append(parts.Storages, catalogtest.Storage(2, 2000, "120"))
	parts.PSUs = append(parts.PSUs, catalogtest.PSU(2, 850, "130"))
	cat := catalog.New(parts)

	g := NewGreedy(DefaultConfig(), nil)
	x := NewExhaustive(DefaultConfig())

	for budget := int64(1000); budget <= 2600; budget += 100 {
		got := search(t, g, cat, budget)
		want := search(t, x, cat, budget)
		if !got.Found {
			continue
		}
		require.True(t, want.Found, "budget %d", budget)
		assert.LessOrEqual(t, got.Build.Score, want.Build.Score, "budget %d", budget)
		if got.Build.Score == want.Build.Score {
			assert.True(t, got.Build.TotalPrice.LessThanOrEqual(want.Build.TotalPrice), "budget %d", budget)
		}
	}
}

func TestGreedy_ResultIsCompatible(t *testing.T) {
	cat := tieredCatalog()
	res := search(t, NewGreedy(DefaultConfig(), nil), cat, 1800)
	require.True(t, res.Found)

	engine := compat.NewEngine()
	assert.Empty(t, engine.Check(res.Build.Selection(compat.DefaultOptions())))
}

func TestGreedy_WorkerCountDoesNotChangeResult(t *testing.T) {
	cat := tieredCatalog()
	single := DefaultConfig()
	single.Workers = 1
	many := DefaultConfig()
	many.Workers = 8

	for _, budget := range []int64{1300, 1600, 1800} {
		a := search(t, NewGreedy(single, nil), cat, budget)
		b := search(t, NewGreedy(many, nil), cat, budget)
		assert.Equal(t, a, b, "budget %d", budget)
	}
}

func TestGreedy_SkipsIncompleteGPUs(t *testing.T) {
	parts := catalogtest.Scenario()
	unpriced := strongGPU(2, "1")
	unpriced.Price = nil
	noRecommendation := strongGPU(3, "600")
	noRecommendation.RecommendedSystemPowerW = nil
	parts.GPUs = append(parts.GPUs, unpriced, noRecommendation)

	res := search(t, NewGreedy(DefaultConfig(), nil), catalog.New(parts), 5000)
	require.True(t, res.Found)
	assert.Equal(t, int64(1), res.Build.GPU.ID)
}

func TestGreedy_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGreedy(DefaultConfig(), nil).Search(ctx, catalogtest.ScenarioCatalog(), 1300)
	assert.Error(t, err)
}

func TestTargetsAndLadders(t *testing.T) {
	tests := []struct {
		budget  int64
		ram     int
		storage int
	}{
		{10001, 64, 2000},
		{10000, 32, 2000},
		{6000, 32, 2000},
		{5999, 16, 1000},
		{1, 16, 1000},
	}
	for _, tt := range tests {
		ram, storage := Targets(tt.budget)
		assert.Equal(t, tt.ram, ram, "budget %d", tt.budget)
		assert.Equal(t, tt.storage, storage, "budget %d", tt.budget)
	}

	assert.Equal(t, []int{64, 32, 16}, RAMLadder(64))
	assert.Equal(t, []int{32, 16}, RAMLadder(32))
	assert.Equal(t, []int{16}, RAMLadder(16))
	assert.Equal(t, []int{2000, 1000}, StorageLadder(2000))
	assert.Equal(t, []int{1000}, StorageLadder(1000))
}

func TestPickRAM_PrefersDDR5ThenLargerAtSamePrice(t *testing.T) {
	cpu := catalogtest.CPU(1, "300")
	cpu.SupportedRAM = []catalog.RAMBase{catalogtest.DDR4Base, catalogtest.DDR5Base}
	mobo := catalogtest.Motherboard(1, "150")
	mobo.SupportedRAM = cpu.SupportedRAM

	cheapDDR4 := catalogtest.RAM(1, 2, 16, "50")
	cheapDDR4.Base = catalogtest.DDR4Base
	small := catalogtest.RAM(2, 2, 16, "90")
	large := catalogtest.RAM(3, 2, 32, "90")
	pricey := catalogtest.RAM(4, 2, 32, "150")

	rams := byPrice([]*catalog.RAM{pricey, large, small, cheapDDR4}, func(r *catalog.RAM) priced { return priced{r.Price, r.ID} })
	got := pickRAM(rams, cpu, mobo, 16)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)

	assert.Nil(t, pickRAM(rams, cpu, mobo, 128))
}

func TestPickStorage_CheapestThenSmallest(t *testing.T) {
	mobo := catalogtest.Motherboard(1, "150")
	big := catalogtest.Storage(1, 2000, "100")
	small := catalogtest.Storage(2, 1000, "100")
	cheapSmall := catalogtest.Storage(3, 500, "40")

	drives := byPrice([]*catalog.Storage{big, small, cheapSmall}, func(s *catalog.Storage) priced { return priced{s.Price, s.ID} })
	got := pickStorage(compat.Backward, drives, mobo, 4, 1000)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestPickStorage_OnlyAtCardGeneration(t *testing.T) {
	mobo := catalogtest.Motherboard(1, "150")
	current := catalogtest.Storage(1, 1000, "60")
	older := driveAtGen(2, 3, "30")

	drives := byPrice([]*catalog.Storage{current, older}, func(s *catalog.Storage) priced { return priced{s.Price, s.ID} })
	got := pickStorage(compat.Backward, drives, mobo, 4, 1000)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	assert.Nil(t, pickStorage(compat.Backward, drives, mobo, 5, 1000))
}

func driveAtGen(id int64, gen float64, price string) *catalog.Storage {
	drive := catalogtest.Storage(id, 1000, price)
	conn := catalogtest.PCIe(catalog.CategoryM2PCIe, gen, 4)
	drive.Connector = &conn
	return drive
}

func TestSearch_CheaperOlderDriveIsNotPicked(t *testing.T) {
	parts := catalogtest.Scenario()
	parts.Storages = append(parts.Storages, driveAtGen(2, 3, "30"))
	cat := catalog.New(parts)

	for name, s := range map[string]Searcher{
		"greedy":     NewGreedy(DefaultConfig(), nil),
		"exhaustive": NewExhaustive(DefaultConfig()),
	} {
		res := search(t, s, cat, 1300)
		require.True(t, res.Found, name)
		assert.Equal(t, int64(1), res.Build.Storage.ID, name)
		assert.Equal(t, "1250.00", res.Build.TotalPrice.StringFixed(2), name)
	}
}

func TestSearch_BoardNeedsM2SlotAtCardGeneration(t *testing.T) {
	parts := catalogtest.Scenario()
	mobo := parts.Motherboards[0]
	mobo.Connectors[1] = catalogtest.Slot(catalogtest.PCIe(catalog.CategoryM2PCIe, 5, 4), 1)
	cat := catalog.New(parts)

	assert.False(t, search(t, NewGreedy(DefaultConfig(), nil), cat, 5000).Found)
	assert.False(t, search(t, NewExhaustive(DefaultConfig()), cat, 5000).Found)
}

func TestSearch_CPUStageMatchesGenerationOnly(t *testing.T) {
	t.Run("link without lane count", func(t *testing.T) {
		parts := catalogtest.Scenario()
		parts.CPUs[0].SupportedPCIe = []catalog.Connector{{Category: catalog.CategoryPCIe, Version: catalogtest.Float(4)}}
		cat := catalog.New(parts)

		for name, s := range map[string]Searcher{
			"greedy":     NewGreedy(DefaultConfig(), nil),
			"exhaustive": NewExhaustive(DefaultConfig()),
		} {
			res := search(t, s, cat, 1300)
			require.True(t, res.Found, name)
			assert.Equal(t, int64(1), res.Build.CPU.ID, name)
		}
	})

	t.Run("only a newer generation", func(t *testing.T) {
		parts := catalogtest.Scenario()
		parts.CPUs[0].SupportedPCIe = []catalog.Connector{catalogtest.PCIe(catalog.CategoryPCIe, 5, 16)}
		cat := catalog.New(parts)

		assert.False(t, search(t, NewGreedy(DefaultConfig(), nil), cat, 5000).Found)
		assert.False(t, search(t, NewExhaustive(DefaultConfig()), cat, 5000).Found)
	})
}
