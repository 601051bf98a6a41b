package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	"github.com/Aman-CERP/catcrawler/internal/config"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/output"
	"github.com/Aman-CERP/catcrawler/internal/prompt"
	"github.com/Aman-CERP/catcrawler/internal/search"
	"github.com/Aman-CERP/catcrawler/internal/ui"
	"github.com/Aman-CERP/catcrawler/internal/viewer"
)

type searchOptions struct {
	volume     int
	all        bool
	jsonOutput bool
}

func newSearchCmd(a *app) *cobra.Command {
	opts := searchOptions{volume: -1}

	cmd := &cobra.Command{
		Use:   "search <text...>",
		Short: "Search catalogued volumes for file and folder names",
		Long: `Search every catalogued volume for files and folders whose path contains
the given text (case-sensitive). Multiple arguments are joined with a space.

When more than one volume matches you are asked which one to show, unless
--volume or --all is given. Long result lists are written to a report file
and opened in the configured viewer.`,
		Example: `  catcrawler search report
  catcrawler search holiday photos --all
  catcrawler search invoice --volume 2
  catcrawler search invoice --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVar(&opts.volume, "volume", -1, "Show results for this catalog index only")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Show results for every matching volume")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the full result as JSON")

	return cmd
}

func newEngine(cfg *config.Config) (*search.Engine, error) {
	return search.New(cfg.IndexDir(), search.Options{
		Exclude:     cfg.Scan.Exclude,
		FolderDedup: search.FolderDedup(cfg.Search.FolderDedup),
		Strict:      cfg.Search.Strict,
		CacheSize:   cfg.Search.CacheSize,
		Workers:     cfg.Search.Workers,
	})
}

func runSearch(cmd *cobra.Command, a *app, query string, opts searchOptions) error {
	ctx := cmd.Context()
	out := newOutput(cmd)

	c, cfg, err := a.openCatalog(ctx, true)
	if err != nil {
		return err
	}
	defer c.Close()

	records := c.Records()
	if opts.volume >= len(records) {
		return caterrors.New(caterrors.ErrCodeInvalidIndex,
			fmt.Sprintf("volume index %d is out of range (catalog has %d volumes)", opts.volume, len(records)), nil)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	outcome, err := engine.Search(ctx, records, query)
	if err != nil {
		return err
	}
	slog.Info("search_completed",
		slog.String("query", outcome.Query),
		slog.Int("volumes", outcome.Searched),
		slog.Int("candidates", len(outcome.Results)),
		slog.Int("failures", len(outcome.Failures)),
		slog.Duration("duration", outcome.Duration))

	if opts.jsonOutput {
		return out.JSON(outcome)
	}
	if len(records) == 0 {
		out.Println(emptyCatalogMessage)
		return nil
	}

	for _, f := range outcome.Failures {
		out.Warningf("Volume %s skipped: %s", f.Serial, f.Reason)
	}
	reportNoMatches(out, records, outcome)

	shown, err := selectResults(cmd, outcome, opts)
	if errors.Is(err, prompt.ErrQuit) {
		out.Println("Let's quit then!")
		return nil
	}
	if err != nil {
		return err
	}

	policy := search.Policy{ShortLimit: cfg.Search.ShortLimit, LongThreshold: cfg.Search.LongThreshold}
	v := viewer.New(cfg.Viewer.Command, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())

	for _, r := range shown {
		out.Newline()
		out.Printf("Found %q in %d files and %d folders on volume %s\n",
			outcome.Query, len(r.Files), len(r.Folders), r.Volume.Serial)

		if policy.ShortForm(r) {
			if err := policy.RenderShort(cmd.OutOrStdout(), r); err != nil {
				return err
			}
		} else {
			path, err := search.WriteReport(cfg.ReportDir(), outcome.Query, r, a.now())
			if err != nil {
				return err
			}
			slog.Info("search_report_written", slog.String("path", path), slog.Int("matches", r.Total()))
			if _, err := v.Open(ctx, path); err != nil {
				out.Warning(caterrors.FormatForUser(err))
			}
		}

		roots, err := engine.RootFolders(ctx, r.Volume)
		if err != nil {
			slog.Warn("root_folders_unavailable", caterrors.FormatForLog(err)...)
			continue
		}
		out.List(fmt.Sprintf("Root folders of %s %s:", r.Volume.Name, r.Volume.Serial), roots)
	}
	return nil
}

// reportNoMatches names every searched volume that produced nothing.
func reportNoMatches(out *output.Writer, records []catalog.VolumeRecord, outcome *search.Outcome) {
	skip := make(map[int]bool, len(outcome.Results)+len(outcome.Failures))
	for _, r := range outcome.Results {
		skip[r.Index] = true
	}
	for _, f := range outcome.Failures {
		skip[f.Index] = true
	}
	for i, rec := range records {
		if !skip[i] {
			out.Printf("Nothing found in volume %s\n", rec.Serial)
		}
	}
}

// selectResults picks which volumes' matches to display.
func selectResults(cmd *cobra.Command, outcome *search.Outcome, opts searchOptions) ([]search.VolumeResult, error) {
	switch {
	case opts.volume >= 0:
		r, ok := outcome.ByIndex(opts.volume)
		if !ok {
			return nil, nil
		}
		return []search.VolumeResult{r}, nil
	case opts.all || len(outcome.Results) <= 1 || !ui.IsInteractive(cmd.InOrStdin()):
		return outcome.Results, nil
	}

	for _, r := range outcome.Results {
		fmt.Fprintln(cmd.OutOrStdout(), search.Header(r))
	}
	i, err := newPrompter(cmd).ChooseFrom("Show results for volume", outcome.Candidates())
	if err != nil {
		return nil, err
	}
	r, _ := outcome.ByIndex(i)
	return []search.VolumeResult{r}, nil
}
