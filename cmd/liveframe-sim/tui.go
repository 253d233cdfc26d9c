package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"liveframe/internal/follow"
	"liveframe/internal/geom"
	"liveframe/internal/hotkey"
	"liveframe/internal/mode"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	desktopStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
)

const (
	pointerStep = 40
	statusLines = 5
)

type redrawMsg time.Time

func redrawCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

type model struct {
	eng    *engine
	width  int
	height int
}

func newModel(eng *engine) model {
	return model{eng: eng, width: 80, height: 24}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		redrawCmd(),
		tea.SetWindowTitle("liveframe-sim"),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case redrawMsg:
		return m, redrawCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.eng
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "e":
		e.press(hotkey.ToggleEdit)
	case "b":
		e.press(hotkey.ToggleBlindfold)
	case "a":
		e.press(hotkey.ToggleActiveWindowFollow)
	case "m":
		e.press(hotkey.ToggleMouseFollow)
	case "f":
		e.press(hotkey.FitToActiveWindow)
	case "n":
		e.svc.SetFollowMode(mode.FollowNone)
	case "s":
		e.svc.SetFollowSubWindow(!e.svc.Snapshot().FollowSubWindow)
	case "tab":
		e.desk.CycleForeground(e.host.Handle())
	case "+", "=":
		e.svc.Zoom(-follow.WheelNotch)
	case "-":
		e.svc.Zoom(follow.WheelNotch)
	case " ":
		if e.loop.Paused() {
			e.loop.Resume()
		} else {
			e.loop.Pause()
		}
	case "up":
		m.movePointer(0, -pointerStep)
	case "down":
		m.movePointer(0, pointerStep)
	case "left":
		m.movePointer(-pointerStep, 0)
	case "right":
		m.movePointer(pointerStep, 0)
	default:
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '7' {
			e.svc.SetCaptureMode(mode.Tiers()[k[0]-'1'].Mode)
		}
	}
	return m, nil
}

func (m model) movePointer(dx, dy int) {
	p := m.eng.desk.Pointer()
	screen := m.eng.desk.PrimaryScreen()
	m.eng.hook.Move(geom.Point{
		X: geom.Clamp(p.X+dx, screen.Left, screen.Right-1),
		Y: geom.Clamp(p.Y+dy, screen.Top, screen.Bottom-1),
	})
}

func (m model) View() string {
	e := m.eng
	st := e.svc.Snapshot()
	hs := e.host.State()

	cols := max(m.width-2, 10)
	rows := max(m.height-statusLines-2, 5)
	grid := render(scene{
		screen:   e.desk.PrimaryScreen(),
		windows:  e.desk.Windows(),
		overlay:  e.host.Handle(),
		chrome:   hs.Chrome,
		hasFrame: hs.HasFrame,
		pointer:  e.desk.Pointer(),
	}, cols, rows)

	field := func(label, value string) string {
		return labelStyle.Render(label+": ") + valueStyle.Render(value)
	}

	polling := "running"
	if e.loop.Paused() {
		polling = "paused"
	}
	fg := e.desk.ForegroundWindow()
	fgTitle := "none"
	if w, ok := e.desk.Window(fg); ok {
		fgTitle = w.Title
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("liveframe-sim") + "  ")
	b.WriteString(field("visible", st.VisibleMode.String()) + "  ")
	b.WriteString(field("follow", st.FollowMode.String()) + "  ")
	b.WriteString(field("capture", st.CaptureMode.Tier().Label) + "\n")
	b.WriteString(field("find me", fmt.Sprint(st.FindMe)) + "  ")
	b.WriteString(field("sub window", fmt.Sprint(st.FollowSubWindow)) + "  ")
	b.WriteString(field("interval", st.Interval.String()) + "  ")
	b.WriteString(field("poll", polling) + "  ")
	b.WriteString(field("foreground", fgTitle) + "\n")
	b.WriteString(field("bounds", fmt.Sprintf("%v", st.Bounds)) + "  ")
	b.WriteString(field("opacity", fmt.Sprintf("%.1f", hs.Chrome.Opacity)) + "  ")
	ps := e.frames.Stats()
	b.WriteString(field("frame", fmt.Sprint(hs.HasFrame)) + "  ")
	b.WriteString(field("pool", fmt.Sprintf("%d free, %d hits, %d misses", ps.Free, ps.Hits, ps.Misses)) + "\n")
	b.WriteString(keyStyle.Render("e") + " edit  " + keyStyle.Render("b") + " blindfold  " +
		keyStyle.Render("a") + " active window  " + keyStyle.Render("m") + " mouse  " +
		keyStyle.Render("f") + " fit  " + keyStyle.Render("n") + " stop following  " +
		keyStyle.Render("s") + " sub window\n")
	b.WriteString(keyStyle.Render("1-7") + " capture tier  " + keyStyle.Render("tab") + " foreground  " +
		keyStyle.Render("arrows") + " pointer  " + keyStyle.Render("+/-") + " zoom  " +
		keyStyle.Render("space") + " pause  " + keyStyle.Render("q") + " quit")

	return desktopStyle.Render(strings.Join(grid, "\n")) + "\n" + b.String()
}
