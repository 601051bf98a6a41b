package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/ui"
)

func newDescribeCmd(a *app) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "describe <index> [text...]",
		Short: "Set the description of a catalogued volume",
		Long: `Set the free-text description of a catalogued volume. Without text you are
asked for it.`,
		Example: `  catcrawler describe 0 holiday photos 2023
  catcrawler describe 0 --clear`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, a, args[0], strings.TrimSpace(strings.Join(args[1:], " ")), clear)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the description")

	return cmd
}

func runDescribe(cmd *cobra.Command, a *app, indexArg, text string, clear bool) error {
	ctx := cmd.Context()

	i, err := parseIndex(indexArg)
	if err != nil {
		return err
	}

	c, _, err := a.openCatalog(ctx, false)
	if err != nil {
		return err
	}
	defer c.Close()

	rec, err := c.At(i)
	if err != nil {
		return err
	}

	switch {
	case clear:
		text = ""
	case text == "" && ui.IsInteractive(cmd.InOrStdin()):
		if text, err = newPrompter(cmd).Ask("Description: "); err != nil {
			return err
		}
		if text == "" {
			return nil
		}
	case text == "":
		return caterrors.ValidationError("description text is required", nil).
			WithSuggestion("pass the text after the index, or --clear")
	}

	if err := c.Update(ctx, rec.Serial, catalog.SetDescription(text)); err != nil {
		return err
	}
	newOutput(cmd).Successf("Description of volume %s updated", rec.Serial)
	return nil
}
