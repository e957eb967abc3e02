package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/persist"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

var errPersistenceDisabled = errors.New("persistence is disabled in the configuration")

// app carries what the subcommands share once flags are parsed.
type app struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
	// driver overrides the interactive survey driver.
	driver tui.PromptDriver
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formflow",
		Short: "Run, lint and serve multi-step forms",
		Long: `formflow walks users through multi-step form definitions written in
YAML or JSON, validating each step before moving on and keeping partial
answers so an interrupted session can be resumed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(a),
		newLintCmd(a),
		newDataCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	v := viper.New()
	if a.logLevel != "" {
		v.Set("logging.level", a.logLevel)
	}
	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

// openBackend returns nil when persistence is turned off.
func (a *app) openBackend() (persist.Backend, error) {
	if !a.cfg.Persistence.Enabled {
		return nil, nil
	}
	backend, err := persist.Open(persist.Config{
		Backend: a.cfg.Persistence.Backend,
		Path:    a.cfg.Persistence.Path,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("persistence opened",
		zap.String("backend", a.cfg.Persistence.Backend),
		zap.String("path", a.cfg.Persistence.Path),
	)
	return backend, nil
}

func (a *app) newStore(kv persist.KV, key string) *persist.Store {
	if key == "" {
		key = a.cfg.Persistence.Key
	}
	return persist.NewStore(kv, persist.WithKey(key), persist.WithLogger(a.logger))
}

func (a *app) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithLogger(a.logger)}
	if a.cfg.Form.SubmitValidation {
		opts = append(opts, engine.WithSubmitValidation())
	}
	if a.cfg.Form.VisitedOnlyNavigation {
		opts = append(opts, engine.WithVisitedOnlyNavigation())
	}
	return opts
}

func closeBackend(backend persist.Backend, logger *zap.Logger) {
	if backend == nil {
		return
	}
	if err := backend.Close(); err != nil {
		logger.Warn("close persistence", zap.Error(err))
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
