package fixture

import (
	"context"
	"strings"
	"testing"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_LoadsTestdata(t *testing.T) {
	cat, err := NewReader("testdata/catalog.json").Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.CPUs, 2)
	assert.Len(t, cat.Motherboards, 1)
	assert.Len(t, cat.PSUs, 2)

	cpu, ok := cat.CPU(1)
	require.True(t, ok)
	assert.Equal(t, "AM5", cpu.Socket.Name)
	assert.Equal(t, "300", cpu.Price.String())

	gpu, ok := cat.GPU(1)
	require.True(t, ok)
	require.NotNil(t, gpu.Chip)
	assert.Equal(t, 4, *gpu.Chip.PCIeMaxGen)
}

func TestReader_NormalizesPSUConnectors(t *testing.T) {
	cat, err := NewReader("testdata/catalog.json").Load(context.Background())
	require.NoError(t, err)

	psu, ok := cat.PSU(1)
	require.True(t, ok)

	// "fan header" is not a power connector and is dropped
	require.Len(t, psu.Connectors, 4)
	byCategory := map[catalog.ConnectorCategory]catalog.PowerConnector{}
	for _, c := range psu.Connectors {
		byCategory[c.Category] = c
	}
	assert.Equal(t, 24, *byCategory[catalog.CategoryATXPower].Pins)
	assert.Equal(t, 8, *byCategory[catalog.CategoryCPUPower].Pins)
	assert.Equal(t, 2, byCategory[catalog.CategoryPCIePower].Quantity)
	assert.Nil(t, byCategory[catalog.CategoryMolex].Pins)

	psu, ok = cat.PSU(2)
	require.True(t, ok)
	for _, c := range psu.Connectors {
		if c.Category == catalog.CategoryPCIePower {
			assert.Equal(t, 8, *c.Pins)
			assert.Equal(t, 4, c.Quantity)
		}
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader("testdata/missing.json").Load(context.Background())
	assert.Error(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"cpus": [`))
	assert.Error(t, err)

	cat, err := Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, cat.CPUs)
}
