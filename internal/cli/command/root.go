package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/output"
	"github.com/yndnr/rolodex/internal/config"
	"github.com/yndnr/rolodex/internal/infra/buildinfo"
	"github.com/yndnr/rolodex/internal/storage"
	"github.com/yndnr/rolodex/internal/telemetry/logger"
)

const metaEnv = "env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "rolodex",
		Usage:    "Prefix-searchable contact index",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Commands: append(Commands(), ShellCommand()),
		Before: func(c *cli.Context) error {
			env, err := NewEnv(c)
			if err != nil {
				return err
			}
			c.App.Metadata[metaEnv] = env
			return nil
		},
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[metaEnv].(*Env); ok {
				return env.Close()
			}
			return nil
		},
	}
}

// Commands returns the commands shared by the command line and the shell.
func Commands() []*cli.Command {
	return []*cli.Command{
		AddCommand(),
		SearchCommand(),
		GetCommand(),
		RemoveCommand(),
		DumpCommand(),
		SaveCommand(),
		StatsCommand(),
		BackupCommand(),
		ConfigCommand(),
		VersionCommand(),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.rolodex/config.yaml when present)",
			EnvVars: []string{"ROLODEX_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Index document path (overrides storage.path)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log at debug level",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Indent saved and dumped documents",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config  string
	File    string
	Output  string
	Verbose bool
	Pretty  bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:  c.String("config"),
		File:    c.String("file"),
		Output:  c.String("output"),
		Verbose: c.Bool("verbose"),
		Pretty:  c.Bool("pretty"),
	}
}

// Overrides maps the flags that were given to configuration keys.
func (f *GlobalFlags) Overrides() map[string]any {
	m := make(map[string]any)
	if f.File != "" {
		m["storage.path"] = f.File
	}
	if f.Verbose {
		m["log.level"] = "debug"
	}
	if f.Pretty {
		m["storage.pretty"] = true
	}
	return m
}

// Env carries the loaded configuration, the logger and the lazily opened
// engine from Before to the command actions.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Overrides  map[string]any
	Format     output.Format
	Logger     logger.Logger

	mu     sync.Mutex
	closed bool
	engine *storage.Engine
}

// NewEnv loads the configuration named by the global flags and creates
// the logger. The engine is opened on first use.
func NewEnv(c *cli.Context) (*Env, error) {
	flags := ParseGlobalFlags(c)

	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return nil, err
	}

	path := config.Discover(flags.Config)
	overrides := flags.Overrides()
	cfg, err := config.Load(path, overrides)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = errWriter(c)
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	return &Env{
		Config:     cfg,
		ConfigPath: path,
		Overrides:  overrides,
		Format:     format,
		Logger:     log,
	}, nil
}

// Engine verifies the configuration and opens the index on first call.
func (env *Env) Engine(ctx context.Context) (*storage.Engine, error) {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.closed {
		return nil, errors.New("command environment closed")
	}
	if env.engine != nil {
		return env.engine, nil
	}
	if err := config.Verify(env.Config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	engCfg, err := env.Config.EngineConfig(env.Logger)
	if err != nil {
		return nil, err
	}
	eng, err := storage.Open(ctx, engCfg)
	if err != nil {
		return nil, err
	}
	env.engine = eng
	return eng, nil
}

// Close closes the engine, if it was opened, and the logger. Calls after
// the first do nothing.
func (env *Env) Close() error {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.closed {
		return nil
	}
	env.closed = true

	var errs []error
	if env.engine != nil {
		errs = append(errs, env.engine.Close())
		env.engine = nil
	}
	errs = append(errs, env.Logger.Close())
	return errors.Join(errs...)
}

// Print writes data in the selected output format.
func (env *Env) Print(w io.Writer, data any) error {
	return output.NewFormatter(env.Format).Format(w, data)
}

// GetEnv retrieves the environment set up by Before.
func GetEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[metaEnv].(*Env); ok {
		return env, nil
	}
	return nil, errors.New("command environment not initialized")
}

// commandContext tags the context with the running command's name.
func commandContext(c *cli.Context, name string) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithCommand(ctx, name)
}

// withEngine runs fn with the opened engine and a context tagged with name.
func withEngine(c *cli.Context, name string, fn func(ctx context.Context, env *Env, eng *storage.Engine) error) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c, name)
	eng, err := env.Engine(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, env, eng)
}

func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
