package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"citadel-sim/internal/config"
	"citadel-sim/internal/threat"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries the latest render snapshot.
type snapshotMsg struct{ Snapshot }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

type setPauseMsg struct{ fn func() bool }

const (
	gaugeWidth     = 30
	sidePanelWidth = 44
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff"))
	threatStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorThreat))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNominal))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUIWriter renders snapshots as a terminal dashboard using bubbletea. The
// log panel shows the snapshot's diagnostic log.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. When the
// user quits, the process receives an interrupt so the command shuts down.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Render implements Renderer.
func (w *TUIWriter) Render(s Snapshot) {
	w.program.Send(snapshotMsg{Snapshot: s})
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetPauseToggle registers the callback bound to the pause key.
func (w *TUIWriter) SetPauseToggle(fn func() bool) {
	w.program.Send(setPauseMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type logLine struct {
	text   string
	threat bool
}

type tuiModel struct {
	cfg         *config.SimulationConfig
	assets      table.Model
	vp          viewport.Model
	logs        []logLine
	snap        Snapshot
	haveSnap    bool
	admin       bool
	paused      bool
	wrap        bool
	autoscroll  bool
	help        bool
	width       int
	height      int
	togglePause func() bool
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 26},
		{Title: "Category", Width: 13},
		{Title: "Status", Width: 8},
	}
	var rows []table.Row
	if cfg != nil {
		for _, a := range cfg.Assets {
			rows = append(rows, table.Row{a.ID, a.Name, string(a.Category), string(WeightNominal)})
		}
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		assets:     t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?", "h":
			m.help = true
			return m, nil
		case "p":
			if m.togglePause != nil {
				m.paused = m.togglePause()
			}
			return m, nil
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		}
		if !m.autoscroll {
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case snapshotMsg:
		m.snap = msg.Snapshot
		m.haveSnap = true
		m.paused = msg.Paused
		m.assets.SetRows(markerRows(msg.Markers))
		m.logs = logLines(msg.Log)
		m.refreshViewport()
	case adminMsg:
		m.admin = msg.active
	case setPauseMsg:
		m.togglePause = msg.fn
	}
	return m, nil
}

// logLines renders the diagnostic log carried by a snapshot, oldest first.
func logLines(entries []LogEntry) []logLine {
	lines := make([]logLine, len(entries))
	for i, e := range entries {
		lines[i] = logLine{text: e.Line() + " " + e.Status(), threat: e.IsThreat}
	}
	return lines
}

func markerRows(markers []Marker) []table.Row {
	rows := make([]table.Row, len(markers))
	for i, mk := range markers {
		rows[i] = table.Row{mk.ID, mk.Name, string(mk.Category), string(mk.Weight)}
	}
	return rows
}

func (m *tuiModel) resize() {
	w := m.width - sidePanelWidth - 2
	if w < 10 {
		w = m.width
	}
	m.vp.Width = w
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderBottom()) - lipgloss.Height(m.assets.View()) - 3
	if h < 1 {
		h = 1
	}
	m.vp.Height = h
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		text := l.text
		if m.wrap && m.vp.Width > 0 {
			text = wordwrap.String(text, m.vp.Width)
		}
		if l.threat {
			text = threatStyle.Render(text)
		}
		lines = append(lines, text)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.vp.View(), " ", m.renderSidePanel())
	sections := []string{
		m.renderHeader(),
		divider,
		body,
		divider,
		m.assets.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	sector := ""
	if m.cfg != nil {
		sector = m.cfg.SectorName
	}
	clock := ClockText(time.Now())
	if m.haveSnap {
		clock = m.snap.Clock
	}
	return fmt.Sprintf("%s  %s  %s", titleStyle.Render("CITADEL GRID DEFENSE"), sector, dimStyle.Render(clock))
}

// gauge draws a bar proportional to stability.
func gauge(stability float64, width int) string {
	filled := int(stability / MaxStability * float64(width))
	if filled < 0 {
		filled = 0
	} else if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m tuiModel) renderSidePanel() string {
	var b strings.Builder
	stability := 0.0
	if m.haveSnap {
		stability = m.snap.Stability
	} else if m.cfg != nil {
		stability = m.cfg.InitialStability
	}
	style := okStyle
	if m.haveSnap && m.snap.IsThreat {
		style = threatStyle
	}
	fmt.Fprintf(&b, "GRID STABILITY %s\n", style.Render(StabilityText(stability)))
	fmt.Fprintf(&b, "%s\n", style.Render(gauge(stability, gaugeWidth)))
	fmt.Fprintf(&b, "BLOCKED ATTACKS %d\n", m.snap.Blocked)
	if m.haveSnap {
		fmt.Fprintf(&b, "ALERT %s\n", m.snap.Alert.Label)
		if m.snap.Alert.Readiness != "" {
			fmt.Fprintf(&b, "%s\n", dimStyle.Render(m.snap.Alert.Readiness))
		}
	}
	b.WriteString("\nATTACKER FEED\n")
	if len(m.snap.Feed) == 0 {
		b.WriteString(dimStyle.Render("none"))
	}
	for i, a := range m.snap.Feed {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderAttack(a))
	}
	return panelStyle.Width(sidePanelWidth - 4).Render(b.String())
}

func renderAttack(a threat.Attack) string {
	return fmt.Sprintf("%s %s", threatStyle.Render(fmt.Sprintf("%-12s", a.SourceIP)), a.Organization)
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	state := fmt.Sprintf("%sSTATE%s %stick=%d%s %sstability=%s%s %sblocked=%d%s",
		colorBlue, colorReset,
		colorYellow, m.snap.Tick, colorReset,
		colorGreen, StabilityText(m.snap.Stability), colorReset,
		colorRed, m.snap.Blocked, colorReset)
	return fmt.Sprintf("%s | Admin UI %s | Paused %s | Wrap %s | Scroll %s | Help ?",
		state, indicator(m.admin), indicator(m.paused), indicator(m.wrap), indicator(m.autoscroll))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" p  pause or resume the simulation",
		" w  toggle wrap for the log",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
