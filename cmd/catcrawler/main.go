// Package main provides the entry point for the catcrawler CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/catcrawler/cmd/catcrawler/cmd"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, caterrors.FormatForCLI(err))
		os.Exit(caterrors.ExitCode(err))
	}
}
