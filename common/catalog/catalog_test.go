package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/catalogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndexesAndOrders(t *testing.T) {
	cat := catalog.New(catalog.Parts{
		CPUs: []*catalog.CPU{catalogtest.CPU(3, "100"), nil, catalogtest.CPU(1, "200")},
	})

	require.Len(t, cat.CPUs, 2)
	assert.Equal(t, int64(1), cat.CPUs[0].ID)
	assert.Equal(t, int64(3), cat.CPUs[1].ID)

	cpu, ok := cat.CPU(3)
	require.True(t, ok)
	assert.Equal(t, "100", cpu.Price.String())

	_, ok = cat.CPU(2)
	assert.False(t, ok)
	_, ok = cat.GPU(1)
	assert.False(t, ok)
}

func TestDerivedAttributes(t *testing.T) {
	ram := catalogtest.RAM(1, 2, 16, "80")
	assert.Equal(t, 32, ram.TotalCapacityGB())
	assert.InDelta(t, 10.0, ram.LatencyNS(), 0.001)

	ram.Base.MTs = 0
	assert.Equal(t, 0.0, ram.LatencyNS())

	cpu := catalogtest.CPU(1, "300")
	assert.InDelta(t, 5.08, cpu.TierScore(), 0.001)
	assert.Equal(t, 5, catalog.Tier(cpu.TierScore()))
	assert.True(t, cpu.SupportsRAMType(catalog.DDR5))
	assert.False(t, cpu.SupportsRAMType(catalog.DDR4))

	gpu := catalogtest.GPU(1, "500")
	assert.InDelta(t, 3.75, gpu.TierScore(), 0.001)
	gen, width, ok := gpu.PCIeGen()
	assert.True(t, ok)
	assert.Equal(t, 4, gen)
	assert.Equal(t, 16, width)

	gpu.Chip = nil
	assert.Equal(t, 0.0, gpu.TierScore())
	_, _, ok = gpu.PCIeGen()
	assert.False(t, ok)
}

func TestTierScore_Capped(t *testing.T) {
	cpu := catalogtest.CPU(1, "300")
	cpu.PCores = 64
	assert.Equal(t, catalog.MaxTierScore, cpu.TierScore())

	assert.Equal(t, 0, catalog.Tier(-1))
}

type flakyReader struct {
	loads int
	fail  bool
}

func (r *flakyReader) Load(ctx context.Context) (*catalog.Catalog, error) {
	r.loads++
	if r.fail {
		return nil, errors.New("unavailable")
	}
	return catalogtest.ScenarioCatalog(), nil
}

func TestCachedReader(t *testing.T) {
	src := &flakyReader{}
	r := catalog.NewCachedReader(src, time.Hour)
	ctx := context.Background()

	first, err := r.Load(ctx)
	require.NoError(t, err)
	second, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.loads)

	r.Invalidate()
	src.fail = true
	_, err = r.Load(ctx)
	assert.Error(t, err)
	assert.Equal(t, 2, src.loads)
}

func TestCachedReader_ZeroTTLAlwaysReloads(t *testing.T) {
	src := &flakyReader{}
	r := catalog.NewCachedReader(src, 0)

	for i := 0; i < 3; i++ {
		_, err := r.Load(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, src.loads)
}

func TestStaticReader(t *testing.T) {
	cat := catalogtest.ScenarioCatalog()
	got, err := catalog.StaticReader{Catalog: cat}.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, cat, got)
}
