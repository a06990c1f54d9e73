package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/game"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	statusWidth = 72
)

type dashModel struct {
	client  *cl.Client
	gameID  string
	spin    spinner.Model
	state   *game.GameState
	err     error
	loading bool
}

type stateMsg struct {
	state game.GameState
}

type errMsg struct {
	err error
}

type refreshTickMsg struct{}

func newDashModel(client *cl.Client, gameID string) dashModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return dashModel{client: client, gameID: gameID, spin: sp, loading: true}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetch(), refreshAfter())
}

func (m dashModel) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		g, err := m.client.GameState(ctx, m.gameID)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{g}
	}
}

func refreshAfter() tea.Cmd {
	return tea.Tick(15*time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetch()
		}
	case stateMsg:
		m.state = &msg.state
		m.err = nil
		m.loading = false
		return m, nil
	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil
	case refreshTickMsg:
		return m, tea.Batch(m.fetch(), refreshAfter())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashModel) View() string {
	if m.loading && m.state == nil {
		return fmt.Sprintf("\n %s loading company...\n", m.spin.View())
	}
	if m.err != nil && m.state == nil {
		return badStyle.Render(fmt.Sprintf("\n error: %v\n", m.err))
	}
	g := m.state

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  ·  %s  ·  turn %d", g.CompanyName, g.Industry, g.Turn)))
	b.WriteString("\n")

	cash := goodStyle
	if g.Cash < 0 {
		cash = badStyle
	}
	top := fmt.Sprintf("%s %s   %s %s   %s %d   %s %.1f%%   %s %s/mo",
		labelStyle.Render("cash"), cash.Render(formatCash(g.Cash)),
		labelStyle.Render("users"), comma(int64(g.Users)),
		labelStyle.Render("morale"), g.Morale,
		labelStyle.Render("equity"), g.Equity,
		labelStyle.Render("burn"), formatCash(game.BurnRate(g)))
	b.WriteString(panelStyle.Width(statusWidth).Render(top))
	b.WriteString("\n")

	var products strings.Builder
	products.WriteString(titleStyle.Render("Products") + "\n")
	for _, p := range g.Products {
		products.WriteString(fmt.Sprintf("%-22s %-16s %3d%%  q%-3d bugs %-3d rev %s\n",
			truncate(p.Name, 22), p.Stage, p.DevelopmentProgress, p.Quality, p.Bugs, formatCash(p.Revenue)))
	}
	b.WriteString(panelStyle.Width(statusWidth).Render(strings.TrimRight(products.String(), "\n")))
	b.WriteString("\n")

	if len(g.Employees) > 0 {
		var team strings.Builder
		team.WriteString(titleStyle.Render("Team") + "\n")
		for _, e := range g.Employees {
			stress := fmt.Sprintf("%.0f", e.Stress)
			if e.Stress > 80 {
				stress = badStyle.Render(stress)
			}
			team.WriteString(fmt.Sprintf("%-18s %-10s morale %-3d stress %s\n",
				truncate(e.Name, 18), e.Role, e.Morale, stress))
		}
		b.WriteString(panelStyle.Width(statusWidth).Render(strings.TrimRight(team.String(), "\n")))
		b.WriteString("\n")
	}

	if g.PendingEvent != nil {
		b.WriteString(alertStyle.Render(fmt.Sprintf("! %s - answer with 'tyc event'", g.PendingEvent.Title)))
		b.WriteString("\n")
	}
	if g.Stage == game.StageGameOver {
		b.WriteString(badStyle.Render("GAME OVER: " + g.GameOverReason))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(badStyle.Render(fmt.Sprintf("refresh failed: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("r refresh · q quit"))
	return b.String()
}

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Live company dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			p := tea.NewProgram(newDashModel(newClient(apiBase), sess.GameID))
			_, err = p.Run()
			return err
		},
	}
}
