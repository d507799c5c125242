package power

import (
	"testing"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/stretchr/testify/assert"
)

func pins(n int) *int { return &n }

func supply(category catalog.ConnectorCategory, p, qty int) catalog.PowerConnector {
	return catalog.PowerConnector{Category: category, Pins: pins(p), Quantity: qty}
}

func need(category catalog.ConnectorCategory, p int) Requirement {
	return Requirement{Category: category, Pins: pins(p)}
}

func TestMatch_QuantityConsumesDistinctConnectors(t *testing.T) {
	reqs := []Requirement{need(catalog.CategoryPCIePower, 8), need(catalog.CategoryPCIePower, 8)}

	oneEightOneSix := []catalog.PowerConnector{
		supply(catalog.CategoryPCIePower, 8, 1),
		supply(catalog.CategoryPCIePower, 6, 1),
	}
	assert.False(t, Match(oneEightOneSix, reqs))

	twoEight := []catalog.PowerConnector{supply(catalog.CategoryPCIePower, 8, 2)}
	assert.True(t, Match(twoEight, reqs))
}

func TestMatch_BestFitKeepsLargeConnectors(t *testing.T) {
	// Greedy first-fit would spend the 12-pin on the 6-pin requirement.
	supplyPool := []catalog.PowerConnector{
		supply(catalog.CategoryPCIePower, 12, 1),
		supply(catalog.CategoryPCIePower, 6, 1),
	}
	reqs := []Requirement{need(catalog.CategoryPCIePower, 6), need(catalog.CategoryPCIePower, 12)}
	assert.True(t, Match(supplyPool, reqs))
}

func TestMatch_SurplusPinsSatisfyLowerRequirement(t *testing.T) {
	assert.True(t, Match(
		[]catalog.PowerConnector{supply(catalog.CategoryCPUPower, 8, 1)},
		[]Requirement{need(catalog.CategoryCPUPower, 4)},
	))
}

func TestMatch_CategoriesAreIndependent(t *testing.T) {
	pool := []catalog.PowerConnector{supply(catalog.CategoryCPUPower, 8, 2)}
	assert.False(t, Match(pool, []Requirement{need(catalog.CategoryPCIePower, 8)}))
}

func TestMatch_IndeterminateSupplyFailsClosed(t *testing.T) {
	pool := []catalog.PowerConnector{
		supply(catalog.CategoryPCIePower, 8, 2),
		{Category: catalog.CategoryPCIePower, Quantity: 1},
	}
	assert.False(t, Match(pool, []Requirement{need(catalog.CategoryPCIePower, 8)}))

	// Other categories are unaffected.
	pool = append(pool, supply(catalog.CategoryATXPower, 24, 1))
	assert.True(t, Match(pool, []Requirement{need(catalog.CategoryATXPower, 24)}))
}

func TestMatch_Version(t *testing.T) {
	v5, v4 := 5.0, 4.0
	req := []Requirement{{Category: catalog.CategoryPCIePower, Pins: pins(16), Version: &v5}}

	old := []catalog.PowerConnector{{Category: catalog.CategoryPCIePower, Pins: pins(16), Version: &v4, Quantity: 1}}
	assert.False(t, Match(old, req))

	current := []catalog.PowerConnector{{Category: catalog.CategoryPCIePower, Pins: pins(16), Version: &v5, Quantity: 1}}
	assert.True(t, Match(current, req))

	unversioned := []catalog.PowerConnector{supply(catalog.CategoryPCIePower, 16, 1)}
	assert.False(t, Match(unversioned, req))
}

func TestMatch_RequirementWithoutCategory(t *testing.T) {
	pool := []catalog.PowerConnector{supply(catalog.CategoryPCIePower, 8, 4)}
	assert.False(t, Match(pool, []Requirement{{Pins: pins(8)}}))
	assert.True(t, Match(pool, nil))
}

func TestRequirementsFor_ExpandsQuantity(t *testing.T) {
	links := []catalog.ConnectorLink{
		{Connector: catalog.Connector{Category: catalog.CategoryPCIePower, Lanes: pins(8), IsPower: true}, Quantity: 3},
		{Connector: catalog.Connector{Category: catalog.CategoryPCIe, Lanes: pins(16)}, Quantity: 1},
	}
	gpu := &catalog.GPU{Connectors: links}
	reqs := GPURequirements(gpu)
	assert.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, catalog.CategoryPCIePower, r.Category)
	}
}
