package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rolodex/internal/cli/output"
	"github.com/yndnr/rolodex/internal/storage"
	"github.com/yndnr/rolodex/internal/storage/snapshot"
)

// BackupCommand returns the backup subcommand group.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Backup and restore the index",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Write the current index to a new compressed backup",
				Action: backupCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List backups, newest first",
				Action:  backupList,
			},
			{
				Name:      "restore",
				Usage:     "Replace the index with a backup and save it",
				ArgsUsage: "BACKUP_ID",
				Action:    backupRestore,
			},
		},
	}
}

func backupCreate(c *cli.Context) error {
	return withEngine(c, "backup create", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		info, err := eng.Backup(ctx)
		if err != nil {
			return err
		}
		return env.Print(c.App.Writer, info)
	})
}

func backupList(c *cli.Context) error {
	return withEngine(c, "backup list", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		backups, err := eng.Backups(ctx)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			if env.Format == output.FormatTable {
				fmt.Fprintln(c.App.Writer, "no backups")
				return nil
			}
			backups = []*snapshot.BackupInfo{}
		}
		return env.Print(c.App.Writer, backups)
	})
}

func backupRestore(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("backup ID is required")
	}

	return withEngine(c, "backup restore", func(ctx context.Context, env *Env, eng *storage.Engine) error {
		if err := eng.Restore(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "restored backup %s\n", id)
		return nil
	})
}
