package viewer

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/catcrawler/internal/ui"
)

// pagerModel is a scrollable read-only view of a report.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
	styles   ui.Styles
}

func newPagerModel(title, content string) *pagerModel {
	return &pagerModel{
		title:   title,
		content: content,
		styles:  ui.GetStyles(ui.DetectNoColor()),
	}
}

// Init implements tea.Model.
func (m *pagerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Header and footer take one line each.
		height := msg.Height - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := m.styles.Header.Render(m.title)
	footer := m.styles.Label.Render(fmt.Sprintf("%3.0f%%  ↑/↓ scroll  q quit", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

// runPager shows content full-screen until the user quits or ctx ends.
func runPager(ctx context.Context, title, content string, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newPagerModel(title, content),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
