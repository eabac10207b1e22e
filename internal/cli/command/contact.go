package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/output"
	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/storage"
)

// AddCommand returns the add command.
func AddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a contact or merge new values into an existing one",
		ArgsUsage: "NAME... [ALIAS|EMAIL|@SOCIAL|NUMBER]...",
		Description: "Leading plain words form the contact name. Following words are\n" +
			"classified: @handle is a social, anything with @ is an email,\n" +
			"numbers are numbers and other words are aliases. A lone '/'\n" +
			"ends the name so that plain words after it become aliases.",
		Action: contactAdd,
	}
}

// SearchCommand returns the search command.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"find"},
		Usage:     "Find contacts by name, alias, email, social or number prefix",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (default search.default_max)",
			},
		},
		Action: contactSearch,
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show the contact stored under an exact name",
		ArgsUsage: "NAME",
		Action:    contactGet,
	}
}

// RemoveCommand returns the remove command.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove the first contact matching a query",
		ArgsUsage: "QUERY",
		Action:    contactRemove,
	}
}

// addOutput reports the outcome of add.
type addOutput struct {
	Name    string   `json:"name" yaml:"name"`
	Created bool     `json:"created" yaml:"created"`
	Indexed []string `json:"indexed" yaml:"indexed"`
}

func contactAdd(c *cli.Context) error {
	input := joinArgs(c)
	if input == "" {
		return errors.New("contact name is required")
	}

	return withEngine(c, "add", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		res, err := eng.Add(ctx, input)
		if err != nil {
			return err
		}
		indexed := res.Indexed
		if indexed == nil {
			indexed = []string{}
		}
		return env.Print(c.App.Writer, addOutput{
			Name:    res.Key,
			Created: res.Created,
			Indexed: indexed,
		})
	})
}

func contactSearch(c *cli.Context) error {
	query := joinArgs(c)
	if query == "" {
		return errors.New("search query is required")
	}

	return withEngine(c, "search", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		results := eng.Search(ctx, query, c.Int("max"))
		if len(results) == 0 {
			if env.Format == output.FormatTable {
				fmt.Fprintf(c.App.Writer, "no contacts match %q\n", query)
				return nil
			}
			results = []domain.Result{}
		}
		return env.Print(c.App.Writer, results)
	})
}

func contactGet(c *cli.Context) error {
	name := joinArgs(c)
	if name == "" {
		return errors.New("contact name is required")
	}

	return withEngine(c, "get", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		res, err := eng.Get(ctx, name)
		if err != nil {
			return err
		}
		return env.Print(c.App.Writer, res)
	})
}

func contactRemove(c *cli.Context) error {
	query := joinArgs(c)
	if query == "" {
		return errors.New("query is required")
	}

	return withEngine(c, "remove", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		removed, err := eng.Remove(ctx, query)
		if err != nil {
			return err
		}
		if env.Format == output.FormatTable {
			fmt.Fprintf(c.App.Writer, "removed %s\n", removed.Name)
			return nil
		}
		return env.Print(c.App.Writer, removed)
	})
}

// joinArgs rebuilds the input line from the positional arguments.
func joinArgs(c *cli.Context) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
}
