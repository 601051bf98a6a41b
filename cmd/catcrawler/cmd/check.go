package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
)

func newCheckCmd(a *app) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the catalog and index files agree",
		Long: `Report catalogued volumes whose index file is missing or unreadable, and
index files no volume refers to. --repair removes volumes without an index
and deletes orphan index files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, a, repair)
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Fix what can be fixed")

	return cmd
}

func runCheck(cmd *cobra.Command, a *app, repair bool) error {
	ctx := cmd.Context()
	out := newOutput(cmd)

	c, _, err := a.openCatalog(ctx, !repair)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.Check(ctx)
	if err != nil {
		return err
	}

	if res.OK() {
		out.Successf("Catalog is consistent (%d volumes checked)", res.Checked)
		return nil
	}

	for _, issue := range res.Inconsistencies {
		out.Warningf("%s: %s", issue.Type, issue.Details)
	}

	if !repair {
		out.Newline()
		out.Status("💡", "Run 'catcrawler check --repair' to fix")
		return nil
	}

	fixed, err := c.Repair(ctx, res.Inconsistencies)
	if err != nil {
		return err
	}
	out.Successf("Fixed %d of %d issues", fixed, len(res.Inconsistencies))
	if unfixable := countType(res.Inconsistencies, catalog.InconsistencyUnreadableIndex); unfixable > 0 {
		out.Warningf("%d unreadable index files need attention", unfixable)
	}
	return nil
}

func countType(issues []catalog.Inconsistency, t catalog.InconsistencyType) int {
	n := 0
	for _, i := range issues {
		if i.Type == t {
			n++
		}
	}
	return n
}
