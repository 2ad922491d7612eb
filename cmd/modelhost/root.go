package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fornjot/modelhost/application/schema"
	"github.com/fornjot/modelhost/config"
	"github.com/fornjot/modelhost/host"
	"github.com/fornjot/modelhost/hostfuncs"
	wazeroadapter "github.com/fornjot/modelhost/infrastructure/wazero"
	"github.com/spf13/cobra"
)

// app carries flag values and the state built from them in PersistentPreRunE.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger
	configPath string
	modelDir   string
	logLevel   string
	cfg        config.Config
	jsonOutput bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "modelhost",
		Short: "Load and run WebAssembly CAD models",
		Long: `modelhost loads every model binary found in a directory into its own sandbox
and either lists the models or asks one of them to generate a shape.

Arguments are passed to a model as key=value pairs:
  modelhost run box width=2 depth=3`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.modelDir, "model-dir", "m", "", `directory to load models from (env MODEL_DIR, default ".")`)
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: error, warn, info, debug or verbose")
	flags.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(a.listCmd(), a.runCmd(), a.schemaCmd())
	return root
}

// setup resolves the configuration. Precedence: flags, then MODEL_DIR, then the
// config file, then defaults.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("model-dir") {
		cfg.ModelDir = a.modelDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.cfg = cfg
	return nil
}

// session is a loaded registry plus the runtime backing it.
type session struct {
	registry *host.Registry
	runtime  *wazeroadapter.Runtime
}

func (s *session) Close(ctx context.Context) {
	_ = s.registry.Close(ctx)
	_ = s.runtime.Close(ctx)
}

func (a *app) load(ctx context.Context) (*session, error) {
	rc := a.cfg.Runtime
	rt := wazeroadapter.NewRuntime(
		wazeroadapter.WithLogger(a.logger),
		wazeroadapter.WithModuleName(rc.ModuleName),
		wazeroadapter.WithMaxMessageSize(rc.MaxMessageSize),
		wazeroadapter.WithMaxResultSize(rc.MaxResultSize),
		wazeroadapter.WithMemoryLimitPages(rc.MemoryLimitPages),
		wazeroadapter.WithWASI(rc.WASI),
		wazeroadapter.WithInterpreter(rc.Interpreter),
	)

	opts := []host.LoaderOption{
		host.WithLogger(a.logger),
		host.WithExtension(a.cfg.Extension),
		host.WithMiddleware(hostfuncs.LoggingMiddleware(a.logger)),
	}
	if a.cfg.ValidatePayloads {
		v, err := schema.NewPayloadValidator()
		if err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("failed to build payload validator: %w", err)
		}
		opts = append(opts, host.WithPayloadValidator(v))
	}

	a.logger.InfoContext(ctx, "Loading models", "model_dir", a.cfg.ModelDir)
	reg, err := host.NewLoader(rt, opts...).Load(ctx, a.cfg.ModelDir)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return &session{registry: reg, runtime: rt}, nil
}
