// Package player is the terminal front end for a playback.Engine.
package player

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scriptvoice/internal/playback"
)

const (
	rateStep     = 0.1
	tickInterval = 200 * time.Millisecond
	barWidth     = 30
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// Controller is the part of playback.Engine the model drives.
type Controller interface {
	Toggle() error
	SetRate(rate float64) error
	Status() playback.Status
	Download() (playback.Artifact, error)
}

// TickMsg refreshes the position display.
type TickMsg time.Time

// Model represents the TUI state
type Model struct {
	ctrl    Controller
	title   string
	outDir  string
	status  playback.Status
	message string
	err     error
	width   int
}

// NewModel builds a model over ctrl. Downloads are written into outDir.
func NewModel(ctrl Controller, title, outDir string) Model {
	return Model{
		ctrl:   ctrl,
		title:  title,
		outDir: outDir,
		status: ctrl.Status(),
	}
}

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		m.status = m.ctrl.Status()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.message = ""

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.err = m.ctrl.Toggle()
	case "+", "=", "right":
		m.err = m.changeRate(rateStep)
	case "-", "_", "left":
		m.err = m.changeRate(-rateStep)
	case "d":
		m.message, m.err = m.download()
	}

	m.status = m.ctrl.Status()
	return m, nil
}

// changeRate steps the rate and clamps it to the supported range.
func (m Model) changeRate(delta float64) error {
	rate := math.Round((m.ctrl.Status().Rate+delta)*10) / 10
	rate = math.Max(playback.MinRate, math.Min(playback.MaxRate, rate))
	return m.ctrl.SetRate(rate)
}

func (m Model) download() (string, error) {
	art, err := m.ctrl.Download()
	if err != nil {
		return "", err
	}
	path := filepath.Join(m.outDir, art.Name)
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return "saved " + path, nil
}

// View renders the TUI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	icon := "■"
	switch m.status.State {
	case playback.StatePlaying:
		icon = "▶"
	case playback.StatePaused:
		icon = "❚❚"
	case playback.StateLoading:
		icon = "…"
	}

	fmt.Fprintf(&sb, "%s %s  %s / %s  %.1fx\n",
		icon,
		renderBar(m.status.Position, m.status.Duration, barWidth),
		formatSeconds(m.status.Position),
		formatSeconds(m.status.Duration),
		m.status.Rate,
	)

	if m.message != "" {
		sb.WriteString("\n" + m.message + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render("space play/pause · +/- speed · d download · q quit") + "\n")
	return sb.String()
}

func renderBar(pos, total float64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(math.Min(pos/total, 1) * float64(width)))
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func formatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Run blocks until the user quits.
func Run(ctrl Controller, title, outDir string) error {
	p := tea.NewProgram(NewModel(ctrl, title, outDir))
	_, err := p.Run()
	return err
}
