package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
	"github.com/Aman-CERP/catcrawler/internal/prompt"
	"github.com/Aman-CERP/catcrawler/internal/scanner"
	"github.com/Aman-CERP/catcrawler/internal/ui"
	"github.com/Aman-CERP/catcrawler/internal/volume"
)

type scanOptions struct {
	path            string
	serial          string
	name            string
	yes             bool
	description     string
	keepDescription bool
	plain           bool
}

func newScanCmd(a *app) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [volume#]",
		Short: "Scan a volume and add it to the catalog",
		Long: `Scan an attached volume and record every file and folder name in its index
file. Without an argument the attached volumes are listed and you are asked
to choose one. Use --path to scan any directory as if it were a volume.

Scanning a volume that is already catalogued replaces its index. Its
description is kept unless --description is given or --keep-description=false.`,
		Example: `  catcrawler scan
  catcrawler scan 1 --yes
  catcrawler scan --path /mnt/backup --serial BACKUP-01 --name Backup
  catcrawler scan 1 --description "holiday photos 2023"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep-description") {
				opts.keepDescription = cfg.Scan.KeepDescription
			}
			return runScan(cmd, a, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", "", "Scan this directory instead of an attached volume")
	cmd.Flags().StringVar(&opts.serial, "serial", "", "Serial to record for --path (default: derived from the path)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Name to record for --path (default: the directory name)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Re-scan without asking and skip the description prompt")
	cmd.Flags().StringVar(&opts.description, "description", "", "Description to store with the volume")
	cmd.Flags().BoolVar(&opts.keepDescription, "keep-description", true, "Keep the existing description on re-scan")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain progress output (no TUI)")

	return cmd
}

func runScan(cmd *cobra.Command, a *app, args []string, opts scanOptions) error {
	ctx := cmd.Context()
	out := newOutput(cmd)
	p := newPrompter(cmd)

	if opts.path == "" && (opts.serial != "" || opts.name != "") {
		return caterrors.ValidationError("--serial and --name are only valid with --path", nil)
	}

	desc, err := chooseVolume(ctx, cmd, a, p, args, opts)
	if errors.Is(err, prompt.ErrQuit) {
		out.Println("Let's quit then!")
		return nil
	}
	if err != nil {
		return err
	}

	c, cfg, err := a.openCatalog(ctx, false)
	if err != nil {
		return err
	}
	defer c.Close()

	description := opts.description
	if pos, ok := c.FindBySerial(desc.Serial); ok {
		if !opts.yes {
			update, err := p.Confirm("This volume was already indexed. Update?")
			if err != nil {
				return err
			}
			if !update {
				out.Println("Ok, quitting")
				return nil
			}
		}
		if existing, err := c.At(pos); err == nil && description == "" && opts.keepDescription {
			description = existing.Description
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nScanning drive %s...\nthis might take a few minutes\n",
		strings.TrimRight(desc.Caption, `/\`))

	renderer := ui.NewRenderer(ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(opts.plain),
		ui.WithNoColor(a.colorless(cmd.OutOrStdout())),
		ui.WithTitle(desc.Caption)))
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer renderer.Stop()

	start := a.now()
	slog.Info("scan_started", slog.String("serial", desc.Serial), slog.String("root", desc.Caption))

	res, err := scanner.Scan(ctx, desc.Caption, scanner.Options{
		Exclude: cfg.Scan.Exclude,
		Progress: func(dirs, files int) {
			renderer.Progress(ui.ScanEvent{Dirs: dirs, Files: files})
		},
	})
	if err != nil {
		slog.Error("scan_failed", caterrors.FormatForLog(err)...)
		return err
	}

	rec := desc.Record()
	rec.RootPath = res.Root
	rec.Description = description
	rec.IndexedAt = a.now().UTC()

	indexPath, err := storeScan(ctx, c, rec, res)
	if err != nil {
		return err
	}

	elapsed := a.now().Sub(start)
	slog.Info("scan_completed",
		slog.String("serial", rec.Serial),
		slog.Int("dirs", len(res.Directories)),
		slog.Int("files", len(res.Files)),
		slog.Int("skipped", res.Skipped),
		slog.Duration("duration", elapsed))

	renderer.Complete(ui.ScanSummary{
		Volume:    desc.Caption,
		Serial:    rec.Serial,
		Dirs:      len(res.Directories),
		Files:     len(res.Files),
		Skipped:   res.Skipped,
		Duration:  elapsed,
		IndexPath: indexPath,
	})
	_ = renderer.Stop()
	out.Successf("Volume %s added to local database", rec.Serial)

	if opts.yes || opts.description != "" || !ui.IsInteractive(cmd.InOrStdin()) {
		return nil
	}
	answer, err := p.Ask("You can add description for this volume (or q to quit): ")
	if err != nil {
		return err
	}
	if answer == "" || strings.EqualFold(answer, "q") {
		out.Println("Ok, quitting")
		return nil
	}
	return c.Update(ctx, rec.Serial, catalog.SetDescription(answer))
}

// storeScan replaces any previous index and record for rec.Serial with the
// scan result: the old entry is removed, the new index written, then the
// record added.
func storeScan(ctx context.Context, c *catalog.Catalog, rec catalog.VolumeRecord, res *scanner.Result) (string, error) {
	if _, ok := c.FindBySerial(rec.Serial); ok {
		if err := c.Remove(ctx, rec.Serial); err != nil {
			return "", err
		}
	}

	path := c.IndexPath(rec.Serial)
	if err := indexfile.Write(path, res.Entries()); err != nil {
		return "", err
	}
	if err := c.Add(ctx, rec); err != nil {
		return "", err
	}
	return path, nil
}

// chooseVolume resolves the volume to scan from --path, the index argument,
// or an interactive choice.
func chooseVolume(ctx context.Context, cmd *cobra.Command, a *app, p *prompt.Prompter, args []string, opts scanOptions) (volume.Descriptor, error) {
	if opts.path != "" {
		if len(args) > 0 {
			return volume.Descriptor{}, caterrors.ValidationError("give either a volume index or --path, not both", nil)
		}
		return volume.DescribePath(ctx, opts.path, opts.serial, opts.name)
	}

	vols, err := a.volumes.Volumes(ctx)
	if err != nil {
		return volume.Descriptor{}, err
	}
	if len(vols) == 0 {
		return volume.Descriptor{}, caterrors.NotFound("no volumes are attached", nil).
			WithSuggestion("use --path to scan a directory")
	}

	var i int
	if len(args) == 1 {
		if i, err = parseIndex(args[0]); err != nil {
			return volume.Descriptor{}, err
		}
		if i >= len(vols) {
			return volume.Descriptor{}, caterrors.New(caterrors.ErrCodeInvalidIndex,
				fmt.Sprintf("drive index should be between 0 and %d, got %d", len(vols)-1, i), nil).
				WithSuggestion("run 'catcrawler local' to list attached volumes")
		}
	} else {
		printDescriptors(cmd, a, vols)
		if i, err = p.ChooseIndex("Choose drive you want to index", len(vols)); err != nil {
			return volume.Descriptor{}, err
		}
	}

	d := vols[i]
	if d.Serial == "" {
		return volume.Descriptor{}, caterrors.ValidationError("volume "+d.Caption+" reports no serial number", nil).
			WithSuggestion("scan it with --path and --serial instead")
	}
	return d, nil
}

func printDescriptors(cmd *cobra.Command, a *app, vols []volume.Descriptor) {
	noColor := a.colorless(cmd.OutOrStdout())
	for i, d := range vols {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), ui.VolumeDetail(descriptorRow(i, d), noColor))
	}
}
