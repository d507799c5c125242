package power

import (
	"testing"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredWattage_Recommended(t *testing.T) {
	cpu := &catalog.CPU{TDP: 65}

	watts, ok := RequiredWattage(Recommended, &catalog.GPU{RecommendedSystemPowerW: pins(750), TDP: pins(300)}, cpu)
	require.True(t, ok)
	assert.Equal(t, 750, watts)

	watts, ok = RequiredWattage(Recommended, &catalog.GPU{TDP: pins(300)}, cpu)
	require.True(t, ok)
	assert.Equal(t, 400, watts)

	watts, ok = RequiredWattage(Recommended, nil, cpu)
	require.True(t, ok)
	assert.Equal(t, 315, watts)

	_, ok = RequiredWattage(Recommended, &catalog.GPU{}, cpu)
	assert.False(t, ok)
}

func TestRequiredWattage_TDPHeadroom(t *testing.T) {
	watts, ok := RequiredWattage(TDPHeadroom, &catalog.GPU{TDP: pins(200)}, &catalog.CPU{TDP: 100})
	require.True(t, ok)
	assert.Equal(t, 390, watts)

	watts, ok = RequiredWattage(TDPHeadroom, &catalog.GPU{TDP: pins(201)}, &catalog.CPU{TDP: 100})
	require.True(t, ok)
	assert.Equal(t, 392, watts)
}

func TestWattageSufficient_InclusiveBoundary(t *testing.T) {
	gpu := &catalog.GPU{RecommendedSystemPowerW: pins(750)}

	assert.False(t, WattageSufficient(Recommended, &catalog.PSU{Wattage: 700}, gpu, nil))
	assert.True(t, WattageSufficient(Recommended, &catalog.PSU{Wattage: 750}, gpu, nil))
}

func TestParseWattagePolicy(t *testing.T) {
	p, err := ParseWattagePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Recommended, p)

	p, err = ParseWattagePolicy("TDP")
	require.NoError(t, err)
	assert.Equal(t, TDPHeadroom, p)

	_, err = ParseWattagePolicy("max")
	assert.Error(t, err)
}
