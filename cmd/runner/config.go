package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration runner would use, after the search order and
command line overrides are applied.

Search order:
  --config <path>
  ~/.runner/configs/runner.yaml
  ./configs/runner.yaml
  built-in defaults

Examples:
  runner config
  runner config --catalog
  runner config --defaults > configs/runner.yaml`,
	RunE: runConfig,
}

var (
	flagDefaults bool
	flagCatalog  bool
)

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults instead")
	configCmd.Flags().BoolVar(&flagCatalog, "catalog", false, "List the obstacle kinds instead")
}

// loadConfig loads the runner config and applies global flag overrides.
func loadConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagTickRate > 0 {
		cfg.Simulation.TickRate = flagTickRate
	}
	return cfg, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagDefaults {
		_, err := os.Stdout.Write(config.GetDefaultYAML())
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagCatalog {
		cat, err := catalog.New(cfg.Obstacles.Catalog)
		if err != nil {
			return err
		}
		printCatalog(cat)
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// printCatalog lists obstacle kinds by name.
func printCatalog(cat *catalog.Catalog) {
	fmt.Println(titleStyle.Render("Obstacle Kinds"))
	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("  %-12s  %5s  %-20s  %s", "Name", "Index", "Half extents", "Color")))
	for _, info := range cat.List() {
		k, ok := cat.Lookup(info.Name)
		if !ok {
			continue
		}
		ext := fmt.Sprintf("%.2f x %.2f x %.2f", k.HalfExtents.X(), k.HalfExtents.Y(), k.HalfExtents.Z())
		fmt.Printf("  %-12s  %5d  %-20s  %s\n", k.Name, info.Index, ext, k.Color.Hex())
	}
}
