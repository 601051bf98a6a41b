package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// TUIRenderer shows live scan progress using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *scanModel
	tracker *ProgressTracker
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer.
// Returns an error if the output is not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	tracker := NewProgressTracker()
	model := newScanModel(tracker, cfg.Title)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:     cfg,
		tracker: tracker,
		model:   model,
		done:    make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	ctx, r.cancel = context.WithCancel(ctx)

	var opts []tea.ProgramOption
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	// Ctrl+C is delivered to the command's context, not to the program.
	opts = append(opts, tea.WithInput(nil), tea.WithoutSignalHandler())

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	program := r.program
	go func() {
		defer close(r.done)
		_, _ = program.Run()
	}()
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	return nil
}

// Progress implements Renderer.
func (r *TUIRenderer) Progress(event ScanEvent) {
	r.tracker.Update(event)
}

// Warn implements Renderer.
func (r *TUIRenderer) Warn(event WarnEvent) {
	r.tracker.AddWarning(event)
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(summary ScanSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(completeMsg(summary))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	if r.program != nil {
		r.program.Quit()
		// Do not hang on an unresponsive terminal.
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
		}
	}
	return nil
}

type completeMsg ScanSummary
type tickMsg time.Time

// scanModel is the bubbletea model for scan progress.
type scanModel struct {
	tracker  *ProgressTracker
	width    int
	complete bool
	summary  ScanSummary
	spinner  spinner.Model
	styles   Styles
	title    string
}

func newScanModel(tracker *ProgressTracker, title string) *scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	return &scanModel{
		tracker: tracker,
		spinner: s,
		styles:  DefaultStyles(),
		width:   80,
		title:   title,
	}
}

// Init implements tea.Model.
func (m *scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case completeMsg:
		m.complete = true
		m.summary = ScanSummary(msg)
		return m, tea.Quit
	case tickMsg:
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *scanModel) View() string {
	if m.complete {
		return m.renderComplete()
	}

	width := m.contentWidth()
	stats := m.tracker.Stats()

	lines := []string{
		fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Active.Render("Scanning")),
		fmt.Sprintf("%s %s   %s %s",
			m.styles.Label.Render("Folders:"), humanize.Comma(int64(stats.Dirs)),
			m.styles.Label.Render("Files:"), humanize.Comma(int64(stats.Files))),
		m.styles.Label.Render(fmt.Sprintf("Speed: %.0f/s  •  Elapsed: %s", stats.Speed, formatDuration(stats.Elapsed))),
	}
	if stats.Current != "" {
		lines = append(lines, m.styles.Dim.Render(truncatePath(stats.Current, width-2)))
	}
	if stats.WarnCount > 0 {
		lines = append(lines, m.styles.Warning.Render(fmt.Sprintf("⚠ %d unreadable", stats.WarnCount)))
	}

	title := "catcrawler"
	if m.title != "" {
		title = "catcrawler • " + m.title
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDarkGray)).
		Padding(0, 1).
		Width(width)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(title),
		panel.Render(strings.Join(lines, "\n")),
	) + "\n"
}

func (m *scanModel) contentWidth() int {
	if w := m.width - 4; w >= 40 {
		return w
	}
	return 40
}

func (m *scanModel) renderComplete() string {
	s := m.summary
	lines := []string{
		m.styles.Success.Render("✓ Scan complete"),
		"",
		fmt.Sprintf("%s  %s", m.styles.Label.Render("Volume:  "), s.Volume),
		fmt.Sprintf("%s  %s", m.styles.Label.Render("Folders: "), humanize.Comma(int64(s.Dirs))),
		fmt.Sprintf("%s  %s", m.styles.Label.Render("Files:   "), humanize.Comma(int64(s.Files))),
		fmt.Sprintf("%s  %s", m.styles.Label.Render("Duration:"), formatDuration(s.Duration)),
	}
	if s.Skipped > 0 {
		lines = append(lines, "", m.styles.Warning.Render(fmt.Sprintf("⚠ %d unreadable entries skipped", s.Skipped)))
	}
	if s.IndexPath != "" {
		lines = append(lines, "", m.styles.Dim.Render(s.IndexPath))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorLime)).
		Padding(1, 2).
		Width(m.contentWidth())
	return panel.Render(strings.Join(lines, "\n")) + "\n"
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// truncatePath shortens path from the left to fit within maxLen bytes.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen < 4 {
		return "..."
	}
	return "..." + path[len(path)-maxLen+3:]
}

var _ Renderer = (*TUIRenderer)(nil)
