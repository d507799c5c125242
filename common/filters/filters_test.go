package filters

import (
	"net/url"
	"testing"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/catalogtest"
	"github.com/rigforge/configurator/common/compat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	parts := catalogtest.Scenario()

	intel := catalogtest.CPU(2, "420")
	intel.Family = "Core i7"
	intel.Socket = catalogtest.LGA1700
	intel.PCores = 8
	intel.ECores = 12
	intel.TDP = 125
	intel.IntegratedGPU = true
	intel.SupportedRAM = []catalog.RAMBase{catalogtest.DDR4Base, catalogtest.DDR5Base}

	parts.CPUs = append(parts.CPUs, intel)
	return catalog.New(parts)
}

func option(t *testing.T, opts []Option, field string) Option {
	t.Helper()
	for _, o := range opts {
		if o.Field == field {
			return o
		}
	}
	require.Failf(t, "missing option", "field %s", field)
	return Option{}
}

func ids(items []any) []int64 {
	var out []int64
	for _, item := range items {
		if cpu, ok := item.(*catalog.CPU); ok {
			out = append(out, cpu.ID)
		}
	}
	return out
}

func TestOptions_DistinctSortedValues(t *testing.T) {
	opts := Options(testCatalog())

	cpu := opts["cpu"]
	require.NotEmpty(t, cpu)

	assert.Equal(t, []string{"AM5", "LGA1700"}, option(t, cpu, "socket").Values)
	assert.Equal(t, []string{"6", "8"}, option(t, cpu, "p_cores").Values)
	assert.Equal(t, []string{"DDR4", "DDR5"}, option(t, cpu, "supported_ram").Values)
	assert.Equal(t, []string{"false", "true"}, option(t, cpu, "integrated_gpu").Values)

	tdp := option(t, cpu, "tdp")
	assert.Equal(t, Range, tdp.Kind)
	require.NotNil(t, tdp.Min)
	require.NotNil(t, tdp.Max)
	assert.Equal(t, 65.0, *tdp.Min)
	assert.Equal(t, 125.0, *tdp.Max)

	price := option(t, cpu, "price")
	assert.Equal(t, 300.0, *price.Min)
	assert.Equal(t, 420.0, *price.Max)
}

func TestOptions_EveryPartType(t *testing.T) {
	opts := Options(testCatalog())
	for _, slot := range compat.Slots {
		assert.NotEmpty(t, opts[string(slot)], "slot %s", slot)
	}
	assert.Equal(t, []string{"4"}, option(t, opts["gpu"], "graphics_chip_pcie_max_gen").Values)
	assert.Equal(t, []string{"32"}, option(t, opts["ram"], "total_capacity").Values)
}

func TestOptions_EmptyCatalog(t *testing.T) {
	opts := Options(catalog.New(catalog.Parts{}))
	tdp := option(t, opts["cpu"], "tdp")
	assert.Nil(t, tdp.Min)
	assert.Nil(t, tdp.Max)
	assert.Empty(t, option(t, opts["cpu"], "socket").Values)
}

func TestApply(t *testing.T) {
	cat := testCatalog()
	items := Items(cat, compat.SlotCPU)

	tests := []struct {
		name  string
		query url.Values
		want  []int64
	}{
		{"no filters", url.Values{}, []int64{1, 2}},
		{"in single", url.Values{"socket": {"LGA1700"}}, []int64{2}},
		{"in list", url.Values{"socket": {"AM5,LGA1700"}}, []int64{1, 2}},
		{"in case insensitive", url.Values{"family": {"ryzen 5"}}, []int64{1}},
		{"numeric canonical", url.Values{"p_cores": {"8.0"}}, []int64{2}},
		{"multi valued field", url.Values{"supported_ram": {"DDR4"}}, []int64{2}},
		{"range min", url.Values{"tdp_min": {"100"}}, []int64{2}},
		{"range max inclusive", url.Values{"price_max": {"300"}}, []int64{1}},
		{"range both", url.Values{"price_min": {"301"}, "price_max": {"419"}}, nil},
		{"unknown field ignored", url.Values{"color": {"red"}, "cpu": {"1"}}, []int64{1, 2}},
		{"combined", url.Values{"integrated_gpu": {"true"}, "tdp_max": {"200"}}, []int64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(compat.SlotCPU, items, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_MalformedNumber(t *testing.T) {
	items := Items(testCatalog(), compat.SlotCPU)
	_, err := Apply(compat.SlotCPU, items, url.Values{"price_min": {"cheap"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestApply_UnpricedExcludedFromPriceRange(t *testing.T) {
	parts := catalogtest.Scenario()
	unpriced := catalogtest.GPU(2, "1")
	unpriced.Price = nil
	parts.GPUs = append(parts.GPUs, unpriced)
	cat := catalog.New(parts)

	got, err := Apply(compat.SlotGPU, Items(cat, compat.SlotGPU), url.Values{"price_max": {"10000"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].(*catalog.GPU).ID)
}
