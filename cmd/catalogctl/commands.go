package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/fixture"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/power"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	catalogPath string
	pcie        string
	wattage     string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Run compatibility checks and build searches against a catalog file",
		Long: `catalogctl loads a JSON part catalog and runs the configurator engine
against it without a database: resolve compatible parts, list filter
options, check or evaluate a selection and search for a budget build.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "path to the JSON catalog fixture")
	rootCmd.PersistentFlags().StringVar(&flags.pcie, "policy", "backward", "PCIe matching policy (backward|strict)")
	rootCmd.PersistentFlags().StringVar(&flags.wattage, "wattage", "recommended", "PSU wattage policy (recommended|tdp)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	_ = rootCmd.MarkPersistentFlagRequired("catalog")

	rootCmd.AddCommand(
		newSearchCmd(flags),
		newResolveCmd(flags),
		newOptionsCmd(flags),
		newCheckCmd(flags),
		newEvaluateCmd(flags),
	)
	return rootCmd
}

// env is what every command needs after flag parsing
type env struct {
	catalog *catalog.Catalog
	opts    compat.Options
	log     *logger.Logger
}

func (f *globalFlags) load(ctx context.Context, stderr io.Writer) (*env, error) {
	pcie, err := compat.ParsePCIePolicy(f.pcie)
	if err != nil {
		return nil, err
	}
	wattage, err := power.ParseWattagePolicy(f.wattage)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(stderr, f.logLevel, "text")
	cat, err := fixture.NewReader(f.catalogPath).Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("catalog loaded", "path", f.catalogPath, "cpus", len(cat.CPUs), "gpus", len(cat.GPUs))

	return &env{
		catalog: cat,
		opts:    compat.Options{PCIe: pcie, Wattage: wattage},
		log:     log,
	}, nil
}

// parseSelect reads "cpu=1,mobo=2" into query values
func parseSelect(raw string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid selection %q, want slot=id", pair)
		}
		values.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return values, nil
}

// selection resolves --select into catalog parts
func (e *env) selection(raw string) (compat.Selection, error) {
	values, err := parseSelect(raw)
	if err != nil {
		return compat.Selection{}, err
	}
	ids, err := compat.ParseIDs(values)
	if err != nil {
		return compat.Selection{}, err
	}
	return compat.SelectionFromIDs(e.catalog, ids, e.opts)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
