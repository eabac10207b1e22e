package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/output"
	"github.com/yndnr/rolodex/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the merged configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	source := env.ConfigPath
	if source == "" {
		source = "(defaults and environment)"
	}
	env.Logger.Debug("showing configuration", "source", source)

	// Nested sections do not fit a table
	format := env.Format
	if format == output.FormatTable {
		format = output.FormatYAML
		fmt.Fprintf(c.App.Writer, "# source: %s\n", source)
	}
	return output.NewFormatter(format).Format(c.App.Writer, config.Sanitize(env.Config))
}

func configValidate(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	if err := config.Verify(env.Config); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	if _, err := env.Config.ResolvePassphrase(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Fprintln(c.App.Writer, "configuration is valid")
	return nil
}
