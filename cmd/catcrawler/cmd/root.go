// Package cmd provides the CLI commands for catcrawler.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	"github.com/Aman-CERP/catcrawler/internal/config"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/logging"
	"github.com/Aman-CERP/catcrawler/internal/output"
	"github.com/Aman-CERP/catcrawler/internal/profiling"
	"github.com/Aman-CERP/catcrawler/internal/prompt"
	"github.com/Aman-CERP/catcrawler/internal/ui"
	"github.com/Aman-CERP/catcrawler/internal/volume"
	"github.com/Aman-CERP/catcrawler/pkg/version"
)

// app carries per-invocation state shared by every subcommand.
type app struct {
	configPath string
	debug      bool
	noColor    bool

	cfg    *config.Config
	cfgErr error

	logCleanup func()

	profile  profiling.Options
	profiler *profiling.Session

	// volumes lists host volumes; tests replace it.
	volumes volume.Provider
	now     func() time.Time
}

func newApp() *app {
	return &app{
		volumes: volume.NewSystemProvider(),
		now:     time.Now,
	}
}

// NewRootCmd creates the root command for the catcrawler CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catcrawler",
		Short: "Catalog the contents of your volumes and search them offline",
		Long: `catcrawler scans a volume (a drive, USB stick or any directory) once and
records every file and folder name in an index file. Later you can search
all catalogued volumes without them being attached.

Catalog, index files, reports and logs live in the data directory
(~/.catcrawler by default, see 'catcrawler config show').`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("catcrawler version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Read configuration from this file as well")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (mirrored to stderr)")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")
	for _, name := range []string{"profile-cpu", "profile-mem", "profile-trace"} {
		_ = cmd.PersistentFlags().MarkHidden(name)
	}

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		a.setup()
		return a.startProfiling()
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return a.close()
	}

	cmd.AddCommand(newPrintCmd(a))
	cmd.AddCommand(newLocalCmd(a))
	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newPurgeCmd(a))
	cmd.AddCommand(newDescribeCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context so scans and searches stop cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer func() { _ = a.close() }()
	return newRootCmd(a).ExecuteContext(ctx)
}

// setup loads the configuration and starts file logging. A configuration
// error is kept for the commands that need it, so `version` and `config path`
// still work with a broken file.
func (a *app) setup() {
	a.cfg, a.cfgErr = config.Load(a.configPath)

	dataDir := config.NewConfig().DataDir
	logCfg := logging.DefaultConfig(dataDir)
	if a.cfg != nil {
		dataDir = a.cfg.DataDir
		logCfg = logging.DefaultConfig(dataDir)
		logCfg.Level = a.cfg.Logging.Level
		logCfg.MaxSizeMB = a.cfg.Logging.MaxSizeMB
		logCfg.MaxFiles = a.cfg.Logging.MaxFiles
	}
	if a.debug {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		slog.SetDefault(logging.Discard())
		return
	}
	a.logCleanup = cleanup
	slog.SetDefault(logger)
	slog.Debug("catcrawler_started",
		slog.String("version", version.Version),
		slog.String("data_dir", dataDir),
		slog.String("log_file", logCfg.FilePath))
}

func (a *app) startProfiling() error {
	if !a.profile.Enabled() {
		return nil
	}
	s, err := profiling.Start(a.profile)
	if err != nil {
		return caterrors.IOFailure("failed to start profiling", err)
	}
	a.profiler = s
	return nil
}

// close stops profiling and flushes the log. It is safe to call repeatedly.
func (a *app) close() error {
	var err error
	if a.profiler != nil {
		if perr := a.profiler.Stop(); perr != nil {
			err = caterrors.IOFailure("failed to write profile", perr)
		}
		a.profiler = nil
	}
	if a.logCleanup != nil {
		a.logCleanup()
		a.logCleanup = nil
	}
	return err
}

// config returns the loaded configuration or the error that prevented it.
func (a *app) config() (*config.Config, error) {
	if a.cfg == nil && a.cfgErr == nil {
		a.cfg, a.cfgErr = config.Load(a.configPath)
	}
	return a.cfg, a.cfgErr
}

// openCatalog opens the catalog in the configured data directory.
func (a *app) openCatalog(ctx context.Context, readOnly bool) (*catalog.Catalog, *config.Config, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	c, err := catalog.Open(ctx, catalog.Options{
		Dir:      cfg.DataDir,
		IndexDir: cfg.IndexDir(),
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

func (a *app) colorless(w io.Writer) bool {
	return a.noColor || ui.DetectNoColor() || !ui.IsTTY(w)
}

func newPrompter(cmd *cobra.Command) *prompt.Prompter {
	return prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
}

func newOutput(cmd *cobra.Command) *output.Writer {
	return output.New(cmd.OutOrStdout())
}

// parseIndex converts a volume index argument.
func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 {
		return 0, caterrors.New(caterrors.ErrCodeInvalidIndex,
			"volume index should be a non-negative number, got "+strconv.Quote(arg), err).
			WithSuggestion("run 'catcrawler print' to list catalogued volumes")
	}
	return i, nil
}

const emptyCatalogMessage = `Local database is empty. Scan volumes using "scan"`

func recordRow(i int, r catalog.VolumeRecord) ui.VolumeRow {
	return ui.VolumeRow{
		Index:       i,
		Caption:     r.RootPath,
		Name:        r.Name,
		Serial:      r.Serial,
		FileSystem:  r.FileSystem,
		DriveType:   r.DriveType,
		Size:        r.SizeBytes,
		Free:        r.FreeBytes,
		Description: r.Description,
		IndexedAt:   r.IndexedAt,
	}
}

func descriptorRow(i int, d volume.Descriptor) ui.VolumeRow {
	return ui.VolumeRow{
		Index:      i,
		Caption:    d.Caption,
		Name:       d.Name,
		Serial:     d.Serial,
		FileSystem: d.FileSystem,
		DriveType:  d.DriveType(),
		Size:       d.SizeBytes,
		Free:       d.FreeBytes,
	}
}
