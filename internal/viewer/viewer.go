// Package viewer shows a search report to the user, either through a
// configured external program, a built-in pager, or by pointing at the file.
package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/ui"
)

// Mode is how a report was shown.
type Mode int

const (
	// ModePath printed the report's location only.
	ModePath Mode = iota
	// ModeCommand ran the configured external viewer.
	ModeCommand
	// ModePager displayed the report in the built-in pager.
	ModePager
)

// Viewer opens reports.
type Viewer struct {
	// Command is an external program, with optional arguments, that is run
	// with the report path appended. Empty selects the built-in pager.
	Command string
	In      io.Reader
	Out     io.Writer
	Err     io.Writer

	// runPager is replaced in tests.
	runPager func(ctx context.Context, title, content string, in io.Reader, out io.Writer) error
}

// New creates a Viewer for the given streams.
func New(command string, in io.Reader, out, errOut io.Writer) *Viewer {
	return &Viewer{Command: command, In: in, Out: out, Err: errOut, runPager: runPager}
}

// Open shows the report at path and reports which mode was used. The
// built-in pager is only used when both input and output are terminals.
func (v *Viewer) Open(ctx context.Context, path string) (Mode, error) {
	if args := strings.Fields(v.Command); len(args) > 0 {
		if err := v.runCommand(ctx, args, path); err != nil {
			return ModeCommand, err
		}
		return ModeCommand, nil
	}

	if v.runPager != nil && ui.IsTTY(v.Out) && ui.IsInteractive(v.In) {
		data, err := os.ReadFile(path)
		if err != nil {
			return ModePager, caterrors.New(caterrors.ErrCodeReadFailed, "failed to read report "+path, err)
		}
		if err := v.runPager(ctx, path, string(data), v.In, v.Out); err != nil {
			slog.Warn("pager_failed", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			return ModePager, nil
		}
	}

	fmt.Fprintf(v.Out, "Full results written to %s\n", path)
	return ModePath, nil
}

func (v *Viewer) runCommand(ctx context.Context, args []string, path string) error {
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = v.In
	cmd.Stdout = v.Out
	cmd.Stderr = v.Err

	slog.Debug("viewer_started", slog.String("command", args[0]), slog.String("path", path))
	if err := cmd.Run(); err != nil {
		return caterrors.InternalError("viewer "+args[0]+" failed", err).
			WithDetail("path", path).
			WithSuggestion("the report is still available at " + path)
	}
	return nil
}
