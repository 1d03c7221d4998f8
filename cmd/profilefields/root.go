package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-profilefields/internal/config"
	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
	"github.com/goliatone/go-profilefields/pkg/store"
	"github.com/goliatone/go-profilefields/pkg/store/memory"
	"github.com/goliatone/go-profilefields/pkg/store/sqlstore"
)

// app carries the collaborators built once per invocation.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     store.Store
	renderer  *vanilla.Renderer
	localizer *render.Localizer
	registry  *field.Registry
	close     func() error
}

type rootFlags struct {
	verbose     bool
	db          string
	fixtures    string
	templates   string
	locale      string
	patternMode string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     = &app{}
	)

	root := &cobra.Command{
		Use:           "profilefields",
		Short:         "Render, validate and display extended profile fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logCfg := zap.NewProductionConfig()
			if flags.verbose {
				logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := logCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			cfg := config.Load(logger)
			if err := applyFlags(cmd, cfg, flags); err != nil {
				return err
			}
			if cfg.Verbose && !flags.verbose {
				logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				if logger, err = logCfg.Build(); err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}

			return a.init(cmd.Context(), cfg, logger)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.shutdown()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&flags.db, "db", "", "sqlite DSN (overrides PROFILEFIELDS_DB)")
	pf.StringVar(&flags.fixtures, "fixtures", "", "fixture directory for the in-memory store (overrides PROFILEFIELDS_FIXTURES)")
	pf.StringVar(&flags.templates, "templates", "", "admin template directory (overrides PROFILEFIELDS_TEMPLATES)")
	pf.StringVar(&flags.locale, "locale", "", "message locale (overrides PROFILEFIELDS_LOCALE)")
	pf.StringVar(&flags.patternMode, "pattern-mode", "", "pattern combination: last-wins or all")

	root.AddCommand(
		newTypesCmd(a),
		newValidateCmd(a),
		newRenderCmd(a),
		newDisplayCmd(a),
		newPromptCmd(a),
		newServeCmd(a),
		newSeedCmd(a),
	)
	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, flags rootFlags) error {
	pf := cmd.Flags()
	if pf.Changed("db") {
		cfg.DatabaseDSN = flags.db
	}
	if pf.Changed("fixtures") {
		cfg.FixturesDir = flags.fixtures
	}
	if pf.Changed("templates") {
		cfg.TemplatesDir = flags.templates
	}
	if pf.Changed("locale") {
		cfg.Locale = flags.locale
	}
	if pf.Changed("verbose") {
		cfg.Verbose = flags.verbose
	}
	if pf.Changed("pattern-mode") {
		mode, err := field.ParsePatternMode(flags.patternMode)
		if err != nil {
			return err
		}
		cfg.PatternMode = mode
	}
	return nil
}

func (a *app) init(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.cfg = cfg
	a.logger = logger
	a.close = func() error { return nil }

	s, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.store = s
	a.close = closer

	a.renderer, err = vanilla.New(vanilla.WithTemplatesDir(cfg.TemplatesDir))
	if err != nil {
		return err
	}
	a.localizer = render.NewLocalizer(render.WithDefaultLocale(cfg.Locale))

	a.registry, err = fieldtypes.NewRegistry(
		fieldtypes.WithStore(s),
		fieldtypes.WithRenderer(a.renderer),
		fieldtypes.WithLocalizer(a.localizer),
		fieldtypes.WithLogger(logger),
		fieldtypes.WithPatternMode(cfg.PatternMode),
	)
	return err
}

func (a *app) shutdown() error {
	var errs []error
	if a.close != nil {
		errs = append(errs, a.close())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// openStore selects the sqlite store when a DSN is configured, else a memory
// store seeded from the fixture directory.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func() error, error) {
	if cfg.DatabaseDSN != "" {
		s, err := sqlstore.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		logger.Debug("using sqlite store", zap.String("dsn", cfg.DatabaseDSN))
		return s, s.Close, nil
	}

	if cfg.FixturesDir == "" {
		logger.Debug("using empty memory store")
		return memory.New(), func() error { return nil }, nil
	}
	s, err := memory.LoadFS(os.DirFS(cfg.FixturesDir))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using memory store", zap.String("fixtures", cfg.FixturesDir))
	return s, func() error { return nil }, nil
}
