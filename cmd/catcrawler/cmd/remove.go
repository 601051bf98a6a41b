package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/prompt"
	"github.com/Aman-CERP/catcrawler/internal/ui"
)

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove [index]",
		Short: "Remove a volume and its index file from the catalog",
		Long: `Remove a catalogued volume. Its index file is deleted first; the catalog
entry is removed only when that succeeds. Without an index you are asked
to choose one.`,
		Example: `  catcrawler remove 2
  catcrawler remove 2 --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, a, args, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runRemove(cmd *cobra.Command, a *app, args []string, yes bool) error {
	ctx := cmd.Context()
	out := newOutput(cmd)
	p := newPrompter(cmd)

	c, _, err := a.openCatalog(ctx, false)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.Len() == 0 {
		out.Println(emptyCatalogMessage)
		return nil
	}

	var i int
	if len(args) == 1 {
		if i, err = parseIndex(args[0]); err != nil {
			return err
		}
	} else {
		rows := make([]ui.VolumeRow, c.Len())
		for j, r := range c.Records() {
			rows[j] = recordRow(j, r)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.VolumeTable(rows, a.colorless(cmd.OutOrStdout()), a.now()))
		i, err = p.ChooseIndex("Choose volume to remove", c.Len())
		if errors.Is(err, prompt.ErrQuit) {
			out.Println("Ok, quitting")
			return nil
		}
		if err != nil {
			return err
		}
	}

	rec, err := c.At(i)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := p.Confirm(fmt.Sprintf("Are you sure you want to remove volume %s %s?", rec.Name, rec.Serial))
		if err != nil {
			return err
		}
		if !ok {
			out.Println("Ok, quitting")
			return nil
		}
	}

	if err := c.Remove(ctx, rec.Serial); err != nil {
		return err
	}
	out.Successf("Volume %s removed", rec.Serial)
	return nil
}

func newPurgeCmd(a *app) *cobra.Command {
	var yes, force bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove the whole catalog and every index file",
		Long: `Remove every catalogued volume, its index file and the catalog database.
Only catcrawler's own data is affected; your files and volumes are not.

--force discards a catalog that can no longer be read, deleting the database
and every index file in the data directory without opening them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPurge(cmd, a, yes, force)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&force, "force", false, "Delete the catalog even if it cannot be opened")

	return cmd
}

func runPurge(cmd *cobra.Command, a *app, yes, force bool) error {
	ctx := cmd.Context()
	out := newOutput(cmd)

	cfg, err := a.config()
	if err != nil {
		return err
	}

	if !yes {
		ok, err := newPrompter(cmd).Confirm("Are you sure you want to remove database and index files?\n" +
			"This action will only affect this software database, your files and volumes won't be affected\n")
		if err != nil {
			return err
		}
		if !ok {
			out.Println("Ok, quitting")
			return nil
		}
	}

	var report *catalog.PurgeReport
	if force {
		report, err = catalog.ForcePurge(cfg.DataDir, cfg.IndexDir())
	} else {
		var c *catalog.Catalog
		c, _, err = a.openCatalog(ctx, false)
		if err != nil {
			return err
		}
		report, err = c.PurgeAll(ctx)
		_ = c.Close()
	}
	if err != nil {
		return err
	}

	if report.StoreErr != nil {
		out.Warningf("Couldn't remove %s: %s",
			filepath.Join(cfg.DataDir, catalog.StoreFileName), caterrors.FormatForUser(report.StoreErr))
	}
	out.Successf("Purged %d volumes", len(report.Removed))
	return nil
}
