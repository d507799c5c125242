package service

import (
	"strings"

	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/power"
)

// policyOptions overrides the service defaults with caller-supplied
// policies. Empty strings keep the default.
func policyOptions(defaults compat.Options, pcie, wattage string) (compat.Options, error) {
	opts := defaults
	if strings.TrimSpace(pcie) != "" {
		p, err := compat.ParsePCIePolicy(pcie)
		if err != nil {
			return compat.Options{}, err
		}
		opts.PCIe = p
	}
	if strings.TrimSpace(wattage) != "" {
		w, err := power.ParseWattagePolicy(wattage)
		if err != nil {
			return compat.Options{}, err
		}
		opts.Wattage = w
	}
	return opts, nil
}
