package breathing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/serene/internal/timeutil"
)

var (
	baseStyle  = lipgloss.NewStyle().Padding(1, padding)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2DD4BF"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))

	phaseStyles = map[Phase]lipgloss.Style{
		Inhale: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE")),
		Hold:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FBBF24")),
		Exhale: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA")),
	}
)

func (m *Model) idleView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Guided breathing"))
	s.WriteString("\n\n")
	s.WriteString(hintStyle.Render(
		"Follow the prompts to slow your breathing and calm your nervous system.",
	))
	s.WriteString("\n\n")
	s.WriteString("Duration: " + clockStyle.Render(timeutil.Clock(m.duration)))

	if m.last != nil {
		s.WriteString("\n\n")
		s.WriteString(summary(m.last.Cycles, m.last.Completed))
	}

	return s.String()
}

func summary(breaths int, completed bool) string {
	if completed {
		return titleStyle.Render(
			fmt.Sprintf("Well done! You completed %d full breaths.", breaths),
		)
	}

	return hintStyle.Render(fmt.Sprintf("Stopped after %d full breaths.", breaths))
}

func (m *Model) activeView() string {
	var s strings.Builder

	style := phaseStyles[m.step.Phase]

	s.WriteString(style.Render(m.step.Phase.String()))
	s.WriteString(hintStyle.Render(
		fmt.Sprintf(" %ds", int(m.step.Remaining.Seconds())),
	))
	s.WriteString("\n\n")
	s.WriteString(m.step.Phase.Instruction())
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(m.step.Progress(m.pattern)))
	s.WriteString("\n\n")
	s.WriteString(clockStyle.Render(timeutil.Clock(m.clock.Timeout)))
	s.WriteString(hintStyle.Render(
		fmt.Sprintf(" remaining (%d breaths)", m.step.Breaths),
	))

	return s.String()
}

func (m *Model) View() string {
	view := m.idleView()
	if m.active {
		view = m.activeView()
	}

	view += "\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.toggle,
		defaultKeymap.quit,
	})

	return baseStyle.Render(view)
}
