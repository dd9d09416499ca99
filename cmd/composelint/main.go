package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"composelint/internal/analysis"
	"composelint/internal/config"
	"composelint/internal/generator"
	"composelint/internal/git"
	"composelint/internal/pipeline"
	"composelint/internal/storage"
	"composelint/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	rootCmd = &cobra.Command{
		Use:               "composelint",
		Short:             "Static checks for Jetpack Compose code",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	configPath string
	dbPath     string
	verbose    bool
	emitters   []string
	failOnHits bool
	forceSync  bool
	ruleFilter []string
	formatName string

	cfg    *config.Config
	logger *zap.Logger
)

// errFindings makes the process exit non-zero without printing an error.
var errFindings = errors.New("findings reported")

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if errors.Is(err, errFindings) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	flags.StringVarP(&dbPath, "db", "d", "", "Path to the findings database (SQLite); overrides storage.db")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringSliceVar(&emitters, "emitters", nil, "Additional composables known to emit content")

	scanCmd.Flags().BoolVar(&failOnHits, "fail", false, "Exit with status 1 when findings are reported")
	updateCmd.Flags().BoolVar(&forceSync, "force", false, "Run a full scan when git reports no changes")
	reportCmd.Flags().StringSliceVar(&ruleFilter, "rule", nil, "Only show findings of these rules")
	reportCmd.Flags().StringVarP(&formatName, "format", "f", "text", "Output format: text, markdown, pretty or json")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l

	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.DB = dbPath
	}
	cfg.Analysis.ContentEmitters = append(cfg.Analysis.ContentEmitters, emitters...)
	logger.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.String("db", cfg.Storage.DB),
		zap.Strings("emitters", cfg.Analysis.ContentEmitters))
	return nil
}

func projectRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Project.Root
}

func printFindings(findings []analysis.Finding) {
	_ = generator.Write(os.Stdout, generator.FormatText, findings)
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Analyze every Kotlin file under the project and store the findings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectRoot(args)

		p, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		fmt.Printf("📂 Scanning directory: %s\n", root)
		start := time.Now()
		result, err := p.Scan(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		printFindings(result.Findings)
		fmt.Printf("✅ Analyzed %d files in %v. %d project emitters, %d findings. Database: %s\n",
			result.Files, time.Since(start).Round(time.Millisecond), len(result.Emitters), len(result.Findings), cfg.Storage.DB)

		if failOnHits && len(result.Findings) > 0 {
			return errFindings
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [base-ref]",
	Short: "Re-analyze Kotlin files changed since a git ref",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		baseRef := "HEAD"
		if len(args) > 0 {
			baseRef = args[0]
		}
		root := cfg.Project.Root

		changes, err := git.GetChangedFiles(ctx, root, baseRef)
		if err != nil {
			return fmt.Errorf("failed to get git changes: %w", err)
		}
		changes = git.FilterBySuffix(changes, ".kt")

		p, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(changes) == 0 {
			if !forceSync {
				fmt.Println("✅ No changes detected.")
				return nil
			}
			fmt.Println("🧭 No git changes detected. Running full scan (--force).")
			result, err := p.Scan(ctx, root)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			printFindings(result.Findings)
			fmt.Printf("📊 %d files analyzed, %d findings.\n", result.Files, len(result.Findings))
			return nil
		}

		fmt.Printf("📝 Detected %d changed Kotlin files.\n", len(changes))
		result, err := p.Sync(ctx, root, changes)
		if err != nil {
			return err
		}
		fmt.Printf("🔍 %d stored findings on changed lines, %d untouched.\n",
			len(result.Impact.Touched), len(result.Impact.Untouched))
		if len(result.Rechecked) > 0 {
			fmt.Printf("🔗 %d caller files re-checked after emitter changes.\n", len(result.Rechecked))
		}
		printFindings(result.Findings)
		fmt.Printf("📊 %d files re-analyzed, %d removed, %d findings.\n",
			len(result.Updated)+len(result.Rechecked), len(result.Deleted), len(result.Findings))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print stored findings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := generator.ParseFormat(formatName)
		if err != nil {
			return err
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		findings, err := store.LoadFindings(cmd.Context(), ruleFilter...)
		if err != nil {
			return fmt.Errorf("failed to load findings: %w", err)
		}
		return generator.Write(os.Stdout, format, findings)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-analyze Kotlin files as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		root := projectRoot(args)

		p, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.UseStoredEmitters(ctx); err != nil {
			return err
		}

		w, err := watch.New(root,
			watch.WithIgnored(cfg.Project.Exclude...),
			watch.WithLogger(logger.Named("watch")))
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}

		fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", root)
		return w.Run(ctx, func(ctx context.Context, c watch.Change) {
			if c.Removed {
				if err := p.Forget(ctx, c.Path); err != nil {
					logger.Error("failed to forget file", zap.Error(err))
				}
				return
			}
			findings, err := p.RecordPath(ctx, c.Path)
			if err != nil {
				logger.Warn("failed to analyze file", zap.String("path", c.Path), zap.Error(err))
				return
			}
			fmt.Printf("🔄 %s: %d findings\n", c.Path, len(findings))
			printFindings(findings)
		})
	},
}
