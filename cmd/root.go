package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/virtfit/virtfit/internal/config"
	"github.com/virtfit/virtfit/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "virtfit",
	Short: "VM placement heuristics and optimization experiments",
	Long: `Virtfit assigns virtual machines with multi-dimensional resource demands
onto a fixed pool of physical hosts, minimizing active hosts, energy, and
fragmentation.

It ships two deterministic decreasing-fit heuristics (FFD, BFD), a
simulated-annealing local search, and an exact branch-and-bound baseline for
small instances, and scores every solution with a common metrics evaluator.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: virtfit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	// Global flags that map to config
	rootCmd.PersistentFlags().Int64("seed", 42, "base random seed for generators and local search")
	rootCmd.PersistentFlags().String("results-dir", "", "directory for persisted result records")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("experiment.seed", rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("output.results_dir", rootCmd.PersistentFlags().Lookup("results-dir"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("virtfit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.virtfit")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("VIRTFIT")
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.SetLogLevel(level)
}
