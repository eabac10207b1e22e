package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/output"
	"github.com/yndnr/rolodex/internal/storage"
)

// DumpCommand returns the dump command.
func DumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Print the index document, or only its index tree or record data",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "index",
				Usage: "Print only the index tree",
			},
			&cli.BoolFlag{
				Name:  "data",
				Usage: "Print only the record data",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the output",
			},
		},
		Action: documentDump,
	}
}

// SaveCommand returns the save command.
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Write the index to storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the saved document",
			},
		},
		Action: documentSave,
	}
}

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show index and storage statistics",
		Action: documentStats,
	}
}

func documentDump(c *cli.Context) error {
	part := storage.PartAll
	switch {
	case c.Bool("index") && c.Bool("data"):
		return errors.New("--index and --data are mutually exclusive")
	case c.Bool("index"):
		part = storage.PartIndex
	case c.Bool("data"):
		part = storage.PartData
	}

	return withEngine(c, "dump", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		b, err := eng.Export(part, c.Bool("pretty") || env.Config.Storage.Pretty)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, string(b))
		return err
	})
}

func documentSave(c *cli.Context) error {
	return withEngine(c, "save", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		if err := eng.Save(ctx, c.Bool("pretty") || env.Config.Storage.Pretty); err != nil {
			return err
		}
		st, err := eng.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "saved %d contacts to %s\n", st.Records, st.Location)
		return nil
	})
}

func documentStats(c *cli.Context) error {
	return withEngine(c, "stats", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		st, err := eng.Stats(ctx)
		if err != nil {
			return err
		}
		if env.Format != output.FormatTable {
			return env.Print(c.App.Writer, st)
		}
		return statsTable(st).Render(c.App.Writer)
	})
}

// statsTable flattens the stats, including the key-value store section,
// into field/value rows.
func statsTable(st *storage.Stats) *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("backend", st.Backend)
	t.AddRow("location", st.Location)
	t.AddRow("sealed", fmt.Sprint(st.Sealed))
	t.AddRow("records", fmt.Sprint(st.Records))
	t.AddRow("tokens", fmt.Sprint(st.Tokens))
	t.AddRow("nodes", fmt.Sprint(st.Nodes))
	t.AddRow("max_key_length", fmt.Sprint(st.MaxKeyLength))
	t.AddRow("default_max", fmt.Sprint(st.DefaultMax))
	if kv := st.KV; kv != nil {
		t.AddRow("kv.total_size", fmt.Sprint(kv.TotalSize))
		t.AddRow("kv.lsm_size", fmt.Sprint(kv.LSMSize))
		t.AddRow("kv.value_log_size", fmt.Sprint(kv.ValueLogSize))
		t.AddRow("kv.gc_rewrites", fmt.Sprint(kv.GCRewrites))
		last := "-"
		if kv.LastGCTime > 0 {
			last = time.UnixMilli(kv.LastGCTime).Format("2006-01-02 15:04:05")
		}
		t.AddRow("kv.last_gc", last)
	}
	return t
}
