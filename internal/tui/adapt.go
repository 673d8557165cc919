package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pacemaker/internal/adapt"
	"pacemaker/internal/service"
	"pacemaker/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AdaptModel is the adaptation screen model
type AdaptModel struct {
	feedback *service.FeedbackService
	units    Units
	running  bool
	result   *service.AdaptResult
	err      error
	done     bool
}

// NewAdaptModel creates a new adaptation model
func NewAdaptModel(fs *service.FeedbackService, units Units) AdaptModel {
	return AdaptModel{
		feedback: fs,
		units:    units,
	}
}

// Init initializes the adaptation screen
func (m AdaptModel) Init() tea.Cmd {
	return nil
}

// AdaptDoneMsg is sent when the adaptation pass finishes
type AdaptDoneMsg struct {
	Result *service.AdaptResult
	Err    error
}

// Update handles messages
func (m AdaptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AdaptDoneMsg:
		m.running = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if m.err == nil && len(m.result.Diff.Applied) > 0 {
			return m, func() tea.Msg { return AdaptCompleteMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		if !m.running {
			switch msg.String() {
			case "enter", "a":
				m.running = true
				m.done = false
				m.err = nil
				m.result = nil
				return m, m.runAdapt
			}
		}
	}
	return m, nil
}

func (m AdaptModel) runAdapt() tea.Msg {
	result, err := m.feedback.Adapt(time.Now())
	return AdaptDoneMsg{Result: result, Err: err}
}

// View renders the adaptation screen
func (m AdaptModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Adaptive Feedback")
	sections = append(sections, title)

	if m.err != nil {
		if errors.Is(m.err, store.ErrPlanNotFound) {
			sections = append(sections, "\n  No active plan to adapt. Press '4' to build one.")
		} else {
			sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
			sections = append(sections, "\n"+statusStyle.Render("  Press 'a' or Enter to retry"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && m.result != nil {
		sections = append(sections, m.renderSignals())
		sections = append(sections, m.renderModifications())
		sections = append(sections, "\n"+statusStyle.Render("  Press 'a' to run again, '2' to review the plan"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.running {
		sections = append(sections, "\n  Analyzing training feedback...")
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AdaptModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will review your recent training and adjust the plan:")
	lines = append(lines, "")
	lines = append(lines, "  1. Score recovery from your latest check-ins")
	lines = append(lines, "  2. Measure training load, fatigue and adherence")
	lines = append(lines, "  3. Scale back or reshape the coming weeks when needed")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 'a' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m AdaptModel) renderSignals() string {
	s := m.result.Signals

	var lines []string
	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Signals"))
	lines = append(lines, "  "+RenderMetric("Load ratio", fmt.Sprintf("%.2f", s.Load.Ratio), trendArrow(s.Load.Trend)))
	lines = append(lines, "  "+RenderMetric("Recovery", fmt.Sprintf("%.0f/100", s.RecoveryScore), ""))
	lines = append(lines, "  "+RenderMetric("Fatigue", string(s.Fatigue.Level), ""))
	lines = append(lines, "  "+RenderMetric("Adherence", fmt.Sprintf("%.0f%% (%d of %d)",
		s.Progress.AdherenceRate*100, s.Progress.Completed, s.Progress.Planned), ""))

	status := recoveryStatusStyle(s.Recovery).Render(s.Recovery.Description())
	lines = append(lines, "  "+status)

	if s.InjuryReported {
		lines = append(lines, "  "+errorStyle.Render("Injury reported in the last check-in"))
	}
	if len(s.Fatigue.Patterns) > 0 {
		lines = append(lines, "  "+warningStyle.Render("Patterns: "+strings.Join(s.Fatigue.Patterns, ", ")))
	}

	return strings.Join(lines, "\n")
}

func (m AdaptModel) renderModifications() string {
	var lines []string
	lines = append(lines, "")

	diff := m.result.Diff
	if len(diff.Applied) == 0 {
		lines = append(lines, successStyle.Render("  No changes needed. The plan holds as scheduled."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, sectionTitleStyle.Render("Modifications applied"))
	for _, mod := range diff.Applied {
		lines = append(lines, fmt.Sprintf("  %s %s",
			priorityStyle(mod.Priority).Render(fmt.Sprintf("[%s]", mod.Priority)),
			modificationLabel(mod)))
		lines = append(lines, mutedStyle.Render("      "+mod.Reason))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  %d workouts changed, %d removed",
		diff.Changed, diff.Removed))

	for _, w := range diff.Warnings {
		lines = append(lines, warningStyle.Render("  ! "+w))
	}

	return strings.Join(lines, "\n")
}

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case adapt.PriorityHigh:
		return errorStyle
	case adapt.PriorityMedium:
		return warningStyle
	default:
		return mutedStyle
	}
}

// modificationLabel describes one modification in plain words
func modificationLabel(mod adapt.Modification) string {
	switch {
	case mod.Full:
		return "injury protocol: upcoming quality work removed"
	case mod.VolumeFactor > 0 && mod.VolumeFactor != 1:
		return fmt.Sprintf("%s: volume scaled to %.0f%%", mod.Type, mod.VolumeFactor*100)
	case mod.IntensityDelta != 0:
		return fmt.Sprintf("%s: intensity shifted %+d", mod.Type, mod.IntensityDelta)
	default:
		return mod.Type
	}
}
