// Package tui renders live batch progress with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qaforge/qaforge/internal/llm"
	"github.com/qaforge/qaforge/internal/qagen"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	seedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

type progressMsg struct {
	event qagen.ProgressEvent
}

type doneMsg struct{}

type seedLine struct {
	seed    qagen.SeedPair
	records int
	err     error
}

type model struct {
	spinner spinner.Model
	cancel  context.CancelFunc

	total     int
	completed int
	records   int
	failed    int
	recent    []seedLine

	canceling bool
	done      bool
}

func newModel(total int, cancel context.CancelFunc) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return model{
		spinner: s,
		cancel:  cancel,
		total:   total,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Stop the batch but keep the screen up until the
			// runner hands back whatever it finished.
			m.canceling = true
			m.cancel()
			return m, nil
		}
		return m, nil

	case progressMsg:
		ev := msg.event
		m.completed = ev.Index + 1
		m.records = ev.TotalRecords
		if ev.Err != nil {
			m.failed++
		}
		m.recent = append(m.recent, seedLine{seed: ev.Seed, records: ev.Records, err: ev.Err})
		if len(m.recent) > 5 {
			m.recent = m.recent[len(m.recent)-5:]
		}
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() tea.View {
	v := tea.NewView("")

	var b strings.Builder
	b.WriteString(titleStyle.Render("Generating QA pairs"))
	b.WriteString("\n\n")

	for _, line := range m.recent {
		label := fmt.Sprintf("%s / %s", line.seed.Category, line.seed.Topic)
		if line.err != nil {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				failStyle.Render("✗"),
				seedStyle.Render(label),
				dimStyle.Render(truncateErr(line.err))))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				okStyle.Render("✓"),
				seedStyle.Render(label),
				dimStyle.Render(fmt.Sprintf("%d records", line.records))))
		}
	}

	if !m.done && m.completed < m.total {
		status := "working"
		if m.canceling {
			status = "stopping"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), dimStyle.Render(status)))
	}

	b.WriteString("\n")
	b.WriteString(renderBar(m.completed, m.total, 40))
	b.WriteString(fmt.Sprintf("  %d/%d seeds", m.completed, m.total))
	if m.failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d records", m.records)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  ctrl+c to stop and keep partial results"))
	b.WriteString("\n")

	v.SetContent(b.String())
	return v
}

func renderBar(completed, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := width * completed / total
	if filled > width {
		filled = width
	}
	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return "  " + bar
}

func truncateErr(err error) string {
	msg := err.Error()
	if len(msg) > 60 {
		msg = msg[:57] + "..."
	}
	return msg
}

type batchOutcome struct {
	result *qagen.BatchResult
	err    error
}

// RunBatch runs the generation batch behind a live progress display.
// The returned result includes everything completed before an
// interrupt, mirroring the non-TUI path.
func RunBatch(ctx context.Context, provider llm.Provider, cfg qagen.Config, seeds []qagen.SeedPair) (*qagen.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(len(seeds), cancel))

	cfg.Progress = func(ev qagen.ProgressEvent) {
		p.Send(progressMsg{event: ev})
	}
	runner := qagen.NewRunner(provider, cfg)

	outcome := make(chan batchOutcome, 1)
	go func() {
		result, err := runner.Run(ctx, seeds)
		outcome <- batchOutcome{result: result, err: err}
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		out := <-outcome
		if out.err != nil {
			return out.result, out.err
		}
		return out.result, err
	}

	out := <-outcome
	return out.result, out.err
}
