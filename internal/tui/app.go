package tui

import (
	"pacemaker/internal/config"
	"pacemaker/internal/service"
	"pacemaker/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenPlan
	ScreenWeek
	ScreenAdapt
	ScreenRebuild
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard DashboardModel
	planView  PlanModel
	week      WeekModel
	adapt     AdaptModel
	rebuild   RebuildModel
	help      HelpModel

	// Services
	db       *store.DB
	query    *service.QueryService
	plans    *service.PlanService
	feedback *service.FeedbackService
	units    Units

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, cfg *config.Config, plans *service.PlanService, feedback *service.FeedbackService, query *service.QueryService) *App {
	units := NewUnits(cfg.Display)
	return &App{
		screen:    ScreenDashboard,
		db:        db,
		query:     query,
		plans:     plans,
		feedback:  feedback,
		units:     units,
		dashboard: NewDashboardModel(query, units),
		planView:  NewPlanModel(query, units),
		adapt:     NewAdaptModel(feedback, units),
		rebuild:   NewRebuildModel(plans, units),
		help:      NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless a rebuild is running)
		if a.screen != ScreenRebuild || !a.rebuild.building {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.query, a.units)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenPlan
				return a, a.planView.Init()
			case "3":
				if a.screen != ScreenAdapt {
					a.screen = ScreenAdapt
					return a, a.adapt.Init()
				}
			case "4":
				if a.screen != ScreenRebuild {
					a.screen = ScreenRebuild
					return a, a.rebuild.Init()
				}
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
				}
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenWeek:
					a.screen = ScreenPlan
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenWeekMsg:
		a.screen = ScreenWeek
		a.week = NewWeekModel(a.query, a.units, msg.Week, msg.MaxWeek, a.width, a.height)
		return a, a.week.Init()

	case RebuildCompleteMsg, AdaptCompleteMsg:
		// The plan changed underneath the read screens. Reload them but
		// stay put so the summary on screen remains readable.
		a.dashboard = NewDashboardModel(a.query, a.units)
		a.planView = NewPlanModel(a.query, a.units)
		return a, tea.Batch(a.dashboard.Init(), a.planView.Init())
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenPlan:
		var m tea.Model
		m, cmd = a.planView.Update(msg)
		a.planView = m.(PlanModel)
	case ScreenWeek:
		var m tea.Model
		m, cmd = a.week.Update(msg)
		a.week = m.(WeekModel)
	case ScreenAdapt:
		var m tea.Model
		m, cmd = a.adapt.Update(msg)
		a.adapt = m.(AdaptModel)
	case ScreenRebuild:
		var m tea.Model
		m, cmd = a.rebuild.Update(msg)
		a.rebuild = m.(RebuildModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenPlan:
		content = a.planView.View()
	case ScreenWeek:
		content = a.week.View()
	case ScreenAdapt:
		content = a.adapt.View()
	case ScreenRebuild:
		content = a.rebuild.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Pacemaker Adaptive Training Planner")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Plan", ScreenPlan},
		{"3", "Adapt", ScreenAdapt},
		{"4", "Rebuild", ScreenRebuild},
		{"?", "Help", ScreenHelp},
	}

	// The week detail is a drill-down of the plan screen
	active := a.screen
	if active == ScreenWeek {
		active = ScreenPlan
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if active == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// OpenWeekMsg opens the week detail screen
type OpenWeekMsg struct {
	Week    int
	MaxWeek int
}

// RebuildCompleteMsg is sent when a plan rebuild finishes
type RebuildCompleteMsg struct{}

// AdaptCompleteMsg is sent when an adaptation pass has been applied
type AdaptCompleteMsg struct{}
