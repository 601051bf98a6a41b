package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/ui"
)

func newPrintCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "print [index]",
		Short: "Print indexed volumes",
		Long: `Print the volumes in the catalog as a table, or one volume in detail
when its index is given.`,
		Example: `  catcrawler print
  catcrawler print 2
  catcrawler print --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, a, args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runPrint(cmd *cobra.Command, a *app, args []string, jsonOutput bool) error {
	c, _, err := a.openCatalog(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer c.Close()

	out := newOutput(cmd)
	noColor := a.colorless(cmd.OutOrStdout())

	if len(args) == 1 {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		rec, err := c.At(i)
		if err != nil {
			return err
		}
		if jsonOutput {
			return out.JSON(rec)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.VolumeDetail(recordRow(i, rec), noColor))
		return nil
	}

	records := c.Records()
	if jsonOutput {
		return out.JSON(records)
	}
	if len(records) == 0 {
		out.Println(emptyCatalogMessage)
		return nil
	}

	rows := make([]ui.VolumeRow, len(records))
	for i, r := range records {
		rows[i] = recordRow(i, r)
	}
	out.Println("Indexed volumes in database:")
	fmt.Fprint(cmd.OutOrStdout(), ui.VolumeTable(rows, noColor, a.now()))
	return nil
}

func newLocalCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Print volumes attached to this computer",
		Long: `Print the volumes currently attached to this computer with the index
numbers 'catcrawler scan' accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vols, err := a.volumes.Volumes(cmd.Context())
			if err != nil {
				return err
			}
			out := newOutput(cmd)
			if jsonOutput {
				return out.JSON(vols)
			}
			out.Println("Connected local drives:")
			printDescriptors(cmd, a, vols)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
