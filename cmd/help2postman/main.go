package main

import (
	"fmt"
	"os"
	"time"

	"help2postman/internal/config"
	"help2postman/internal/fetcher"
	"help2postman/internal/logging"
	"help2postman/internal/parser"
	"help2postman/internal/pipeline"
	"help2postman/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "help2postman",
		Short:        "Generate a Postman collection from an API help page",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runGenerate,
	}
	configPath string
	flags      struct {
		helpURL    string
		baseURL    string
		output     string
		apiKey     string
		dbPath     string
		reportPath string
		logLevel   string
		strict     bool
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	pf.StringVar(&flags.dbPath, "db", "", "Path to the SQLite snapshot database (optional)")

	f := rootCmd.Flags()
	f.StringVar(&flags.helpURL, "help-url", "", "URL of the API help page")
	f.StringVar(&flags.baseURL, "base-url", "", "Value of the baseUrl collection variable")
	f.StringVarP(&flags.output, "output", "o", "", "Output collection file")
	f.StringVar(&flags.apiKey, "api-key", "", "Value of the apiKey header on every request")
	f.StringVar(&flags.reportPath, "report", "", "Write a JSON run report to this path")
	f.StringVar(&flags.logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	f.BoolVar(&flags.strict, "strict-sections", false, "Do not bind a heading to a table after the next heading")

	rootCmd.AddCommand(historyCmd)
}

// loadConfig applies command-line flags on top of the config file and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	overrides := []struct {
		value string
		dst   *string
	}{
		{flags.helpURL, &cfg.HelpURL},
		{flags.baseURL, &cfg.BaseURL},
		{flags.output, &cfg.OutputPath},
		{flags.apiKey, &cfg.APIKey},
		{flags.dbPath, &cfg.DBPath},
		{flags.reportPath, &cfg.ReportPath},
		{flags.logLevel, &cfg.Log.Level},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.dst = o.value
		}
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logging.New(os.Stderr, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	f := fetcher.New(fetcher.Options{Timeout: cfg.Timeout, UserAgent: "help2postman", Logger: log})
	p := pipeline.New(cfg, f, parser.New(parser.Options{StopAtNextHeading: cfg.StrictSections || flags.strict}))
	p.Out = cmd.OutOrStdout()
	p.Log = log

	if cfg.DBPath != "" {
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer store.Close()
		p.Store = store
	}

	_, err = p.Run(cmd.Context())
	return err
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous runs stored in the snapshot database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DBPath == "" {
			return fmt.Errorf("no snapshot database configured (use --db or db_path)")
		}

		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), 20)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs stored yet.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "#%d  %s  %s  %d sections, %d endpoints\n",
				r.ID, r.CreatedAt.Local().Format(time.DateTime), r.HelpURL, r.SectionCount, r.EndpointCount)
		}
		return nil
	},
}
