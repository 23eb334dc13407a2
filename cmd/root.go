package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/magenta-aps/go-dar-client/config"
	"github.com/magenta-aps/go-dar-client/dar"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	darClient *dar.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "darctl",
	Short: "A test CLI for the DAR address registry client",
	Long: `darctl exercises the DAR client library against the Danish address
registry (DAWA). It can check reachability, resolve single or bulk DAR
UUIDs and search addresses by free text.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information from build flags
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration, logger and DAR client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	darClient = dar.New(
		dar.WithBaseURL(cfg.DAR.BaseURL),
		dar.WithTimeout(cfg.DAR.Timeout),
		dar.WithChunkSize(cfg.DAR.ChunkSize),
		dar.WithConcurrency(cfg.DAR.Concurrency),
		dar.WithCacheSize(cfg.DAR.CacheSize),
		dar.WithRetry(cfg.DAR.Retry.Count, cfg.DAR.Retry.WaitMin, cfg.DAR.Retry.WaitMax),
		dar.WithLogger(logger),
	)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether DAR can be reached",
	Long:  `Check the connection to the DAR registry. Exits non-zero when DAR is unreachable.`,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	fmt.Printf("Checking DAR at %s...\n", cfg.DAR.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !darClient.Healthcheck(ctx) {
		return fmt.Errorf("DAR is not reachable at %s", cfg.DAR.BaseURL)
	}

	fmt.Println("✓ DAR is reachable")
	return nil
}

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <uuid>...",
	Short: "Resolve one or more DAR UUIDs",
	Long: `Resolve DAR UUIDs one at a time, trying each address collection in
order, and print the resolved addresses as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringSliceVar(&addrTypeNames, "type", nil, "address collections to query (adresser, adgangsadresser, ...)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	addrTypes, err := parseAddressTypes(addrTypeNames)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid UUID %q: %w", arg, err)
		}

		addr, err := darClient.Lookup(ctx, id, addrTypes...)
		if err != nil {
			return err
		}

		if err := printJSON(addr); err != nil {
			return err
		}
	}

	return nil
}

var addrTypeNames []string

// parseAddressTypes maps --type flag values to address types
func parseAddressTypes(names []string) ([]dar.AddressType, error) {
	known := map[string]dar.AddressType{
		string(dar.TypeAddress):               dar.TypeAddress,
		string(dar.TypeAccessAddress):         dar.TypeAccessAddress,
		string(dar.TypeHistoricAddress):       dar.TypeHistoricAddress,
		string(dar.TypeHistoricAccessAddress): dar.TypeHistoricAccessAddress,
	}

	var types []dar.AddressType
	for _, name := range names {
		t, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown address type: %s", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// printJSON prints a value as indented JSON on stdout
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or client needed for the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("darctl %s (built %s)\n", version, buildTime)
	},
}
