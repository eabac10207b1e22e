package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/repl"
	"github.com/yndnr/rolodex/internal/config"
	"github.com/yndnr/rolodex/internal/infra/confloader"
	"github.com/yndnr/rolodex/internal/infra/shutdown"
	"github.com/yndnr/rolodex/internal/storage"
	"github.com/yndnr/rolodex/internal/telemetry/logger"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively against one open index",
		Description: "Every command is available without the program name; unique\n" +
			"prefixes are accepted (\"sea Jo\"). Changes to the configuration\n" +
			"file's log level and search.default_max apply immediately.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (default ~/.rolodex/history)",
				Value: repl.DefaultHistoryFile(),
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload the configuration file while running",
			},
		},
		Action: shellRun,
	}
}

func shellRun(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c, "shell")
	eng, err := env.Engine(ctx)
	if err != nil {
		return err
	}

	if env.ConfigPath != "" && !c.Bool("no-watch") {
		w, err := watchConfig(env, eng)
		if err != nil {
			env.Logger.Warn("configuration reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	history := repl.NewHistory(c.String("history"), repl.DefaultHistorySize)
	if err := history.Load(); err != nil {
		env.Logger.Warn("failed to load shell history", "error", err)
	}

	// A signal while the shell waits on input saves the history and closes
	// the index before exiting.
	stop := shutdown.NewHandler(5 * time.Second)
	stop.OnShutdown(func(context.Context) error { return env.Close() })
	stop.OnShutdown(func(context.Context) error { return history.Save() })
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		sig, err := stop.Wait(waitCtx)
		if sig == nil {
			return
		}
		if err != nil {
			fmt.Fprintf(errWriter(c), "error: %v\n", err)
		}
		os.Exit(shutdown.ExitCode(sig))
	}()

	r := repl.New(
		func(ctx context.Context, args []string) error {
			app := shellApp(c, env)
			return app.RunContext(ctx, append([]string{app.Name}, args...))
		},
		repl.WithIO(reader(c), c.App.Writer),
		repl.WithCompleter(repl.NewCompleter(commandPaths(Commands()))),
		repl.WithHistory(history),
	)

	runErr := r.Run(ctx)
	if err := history.Save(); err != nil {
		env.Logger.Warn("failed to save shell history", "error", err)
	}
	return runErr
}

// shellApp builds the app that executes one shell line. It shares env
// with the outer app and leaves closing it to the outer After.
func shellApp(c *cli.Context, env *Env) *cli.App {
	return &cli.App{
		Name:           c.App.Name,
		Usage:          "rolodex shell",
		Commands:       Commands(),
		HideVersion:    true,
		Writer:         c.App.Writer,
		ErrWriter:      c.App.ErrWriter,
		Metadata:       map[string]any{metaEnv: env},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// watchConfig re-reads the configuration file on change and applies the
// settings that can change while the index is open.
func watchConfig(env *Env, eng *storage.Engine) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(env.Logger.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(env.ConfigPath); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, err := config.Load(path, env.Overrides)
		if err == nil {
			err = config.Verify(cfg)
		}
		if err != nil {
			env.Logger.Warn("configuration reload rejected", "path", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		eng.SetDefaultMax(cfg.Search.DefaultMax)
		env.Logger.Info("configuration reloaded",
			"path", path,
			"log_level", cfg.Log.Level,
			"default_max", cfg.Search.DefaultMax)
	})
	w.StartAsync()
	return w, nil
}

// commandPaths lists command names, aliases and subcommand paths.
func commandPaths(cmds []*cli.Command) []string {
	paths := []string{"help"}
	for _, cmd := range cmds {
		for _, name := range cmd.Names() {
			paths = append(paths, name)
			for _, sub := range cmd.Subcommands {
				for _, subName := range sub.Names() {
					paths = append(paths, name+" "+subName)
				}
			}
		}
	}
	return paths
}

func reader(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}
