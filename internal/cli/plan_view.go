package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/cli/formatter"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// ── messages ─────────────────────────────────────────────────────────────────

// scopeChangedMsg carries a ReleaseScopeChanged event into the program.
type scopeChangedMsg struct {
	scope domain.ReleaseScope
}

// rangeChangedMsg carries a ReleaseVelocityChanged event into the program.
type rangeChangedMsg struct {
	r domain.StoryPointRange
}

// selectDoneMsg reports the outcome of an end-sprint selection.
type selectDoneMsg struct {
	err error
}

// ── keys ─────────────────────────────────────────────────────────────────────

type planKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func defaultPlanKeys() planKeyMap {
	return planKeyMap{
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier end")),
		Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later end")),
		First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k planKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

func (k planKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.First, k.Last}, {k.Quit}}
}

// ── model ────────────────────────────────────────────────────────────────────

// planModel is the interactive release planner. The cursor moves at once;
// the scope panel follows the bus events the selection publishes.
type planModel struct {
	ctx      context.Context
	settings service.SettingsService
	sprints  []domain.Sprint
	now      time.Time

	cursor int
	scope  *domain.ReleaseScope
	rng    domain.StoryPointRange
	err    error

	keys  planKeyMap
	help  help.Model
	width int
}

func newPlanModel(ctx context.Context, settings service.SettingsService, state *app.PlanState, now time.Time) planModel {
	m := planModel{
		ctx:      ctx,
		settings: settings,
		sprints:  state.Available,
		now:      now,
		keys:     defaultPlanKeys(),
		help:     help.New(),
	}
	if state.Scope != nil {
		scope := state.Scope.Scope
		m.scope = &scope
		m.rng = state.Scope.Range
		m.cursor = scope.EndIndex()
	}
	return m
}

func (m planModel) Init() tea.Cmd { return nil }

func (m planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			return m.moveTo(m.cursor - 1)
		case key.Matches(msg, m.keys.Next):
			return m.moveTo(m.cursor + 1)
		case key.Matches(msg, m.keys.First):
			return m.moveTo(0)
		case key.Matches(msg, m.keys.Last):
			return m.moveTo(len(m.sprints) - 1)
		}
		return m, nil

	case scopeChangedMsg:
		scope := msg.scope
		m.scope = &scope
		if m.cursor < 0 {
			m.cursor = scope.EndIndex()
		}
		return m, nil

	case rangeChangedMsg:
		m.rng = msg.r
		return m, nil

	case selectDoneMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m planModel) moveTo(i int) (tea.Model, tea.Cmd) {
	if len(m.sprints) == 0 {
		return m, nil
	}
	i = max(0, min(i, len(m.sprints)-1))
	if i == m.cursor {
		return m, nil
	}
	m.cursor = i
	return m, m.selectCmd(m.sprints[i].Name)
}

func (m planModel) selectCmd(name string) tea.Cmd {
	settings, ctx := m.settings, m.ctx
	return func() tea.Msg {
		_, err := settings.SelectEndSprint(ctx, name)
		return selectDoneMsg{err: err}
	}
}

func (m planModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Release planner"))
	b.WriteString("\n\n")
	b.WriteString(m.renderStrip())
	b.WriteString("\n\n")
	b.WriteString(m.renderScope())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("✖ " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderStrip lays the sprints out in a row. Sprints in scope are bright,
// the cursor is boxed.
func (m planModel) renderStrip() string {
	end := -1
	if m.scope != nil {
		end = m.scope.EndIndex()
	}
	cursorStyle := lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)

	cells := make([]string, len(m.sprints))
	for i, s := range m.sprints {
		label := strings.TrimPrefix(s.Name, "Sprint ")
		switch {
		case i == m.cursor:
			cells[i] = cursorStyle.Render("[" + label + "]")
		case i <= end:
			cells[i] = formatter.SprintStateColor(s.StateAt(m.now)).Render(" " + label + " ")
		default:
			cells[i] = formatter.Dim(" " + label + " ")
		}
	}
	return formatter.Dim("Sprints ") + strings.Join(cells, "")
}

func (m planModel) renderScope() string {
	if m.scope == nil || m.scope.EndSprint == nil {
		return formatter.Dim("No release scope selected.")
	}
	end := m.scope.EndSprint
	lines := []string{
		fmt.Sprintf("%s %s %s", formatter.Dim("End sprint "), formatter.Bold(end.Name),
			formatter.Dim("ends "+end.CompletedAt.Format(formatter.DateLayout)+" ("+formatter.RelativeDateFrom(end.CompletedAt, m.now)+")")),
		fmt.Sprintf("%s %d of %d", formatter.Dim("In scope   "), m.scope.EndIndex()+1, len(m.scope.Sprints)),
		fmt.Sprintf("%s %s", formatter.Dim("Deliverable"),
			formatter.FormatRange(m.rng.MinStoryPoints, m.rng.MeanStoryPoints, m.rng.MaxStoryPoints)),
	}
	return strings.Join(lines, "\n")
}

// subscribePlanner forwards release events to send, normally a running
// program's Send. The returned function detaches both handlers.
func subscribePlanner(bus *events.Bus, send func(tea.Msg)) func() {
	unsubScope := bus.OnScopeChanged(func(_ context.Context, s domain.ReleaseScope) {
		send(scopeChangedMsg{scope: s})
	})
	unsubRange := bus.OnVelocityChanged(func(_ context.Context, r domain.StoryPointRange) {
		send(rangeChangedMsg{r: r})
	})
	return func() {
		unsubScope()
		unsubRange()
	}
}

func newPlanCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Interactively move the release end sprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return errors.New("plan needs an interactive terminal; use 'scope --end' instead")
			}
			if a.Bus == nil {
				return errors.New("event bus is not configured")
			}
			b, state, err := a.loadPlan(cmd, "")
			if err != nil {
				return err
			}
			if state.Scope == nil {
				return domain.ErrNoSprintsAvailable
			}

			p := tea.NewProgram(
				newPlanModel(cmd.Context(), b.Settings, state, a.now()),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			unsubscribe := subscribePlanner(a.Bus, p.Send)
			defer unsubscribe()

			_, err = p.Run()
			return err
		},
	}
}
