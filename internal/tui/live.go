package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/world"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	orange  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var tapeStyles = map[string]lipgloss.Style{
	"blue":   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	"silver": lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
}

const (
	linearStep  = 0.1
	angularStep = 0.25
	linearMax   = 1.0
	angularMax  = 2.5
)

// LiveApp drives a Sim in real time with keyboard teleop.
type LiveApp struct {
	sim *world.Sim

	linear  float64
	angular float64
	paused  bool
	err     error

	width  int
	height int

	lastFrame time.Time
	fps       float64
}

func NewLiveApp(s *world.Sim) *LiveApp {
	return &LiveApp{sim: s, width: 80, height: 24}
}

func (a *LiveApp) Init() tea.Cmd { return tick(a.sim) }

type tickMsg time.Time

// One Update advances the sim by ticksPerUpdate small steps, so the
// frame period has to match that span for wall-clock playback.
func tick(s *world.Sim) tea.Cmd {
	period := time.Duration(float64(time.Second) * s.Dt * float64(s.TicksPerUpdate))
	return tea.Tick(period, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *LiveApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case tickMsg:
		if !a.paused {
			a.sim.Robot().SetDesiredVelocity(a.linear, a.angular)
			if err := a.sim.Update(); err != nil {
				a.err = err
				return a, tea.Quit
			}
		}
		now := time.Now()
		if !a.lastFrame.IsZero() {
			dt := now.Sub(a.lastFrame).Seconds()
			if dt > 0 {
				a.fps = 1.0 / dt
			}
		}
		a.lastFrame = now
		return a, tick(a.sim)
	}
	return a, nil
}

func (a *LiveApp) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return a, tea.Quit
	case "up":
		a.linear = clampStep(a.linear+linearStep, linearMax)
	case "down":
		a.linear = clampStep(a.linear-linearStep, linearMax)
	case "left":
		a.angular = clampStep(a.angular+angularStep, angularMax)
	case "right":
		a.angular = clampStep(a.angular-angularStep, angularMax)
	case " ":
		a.linear, a.angular = 0, 0
	case "p":
		a.paused = !a.paused
	case "k":
		a.sim.KickBall()
	case "r":
		a.linear, a.angular = 0, 0
		if err := a.sim.Reset(false); err != nil {
			a.err = err
			return a, tea.Quit
		}
	case "R":
		a.linear, a.angular = 0, 0
		if err := a.sim.Reset(true); err != nil {
			a.err = err
			return a, tea.Quit
		}
	}
	return a, nil
}

// Err reports the failure that ended the session, if any.
func (a *LiveApp) Err() error { return a.err }

func clampStep(v, limit float64) float64 {
	v = math.Round(v*100) / 100
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func (a *LiveApp) View() string {
	arena := a.renderArena()
	panel := a.renderPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, arena, "  ", panel)

	help := dim.Render("arrows drive · space stop · p pause · k kick · r reset · R reload · q quit")
	return body + "\n" + help + "\n"
}

type cell struct {
	r     rune
	style lipgloss.Style
}

func (a *LiveApp) renderArena() string {
	room := a.sim.Room()
	cols := a.width - 34
	rows := a.height - 4
	if cols < 20 {
		cols = 20
	}
	if rows < 10 {
		rows = 10
	}

	// Terminal cells are about twice as tall as wide.
	sy := float64(rows) / room.Height
	sx := float64(cols) / room.Width
	if sx > 2*sy {
		sx = 2 * sy
	} else {
		sy = sx / 2
	}
	cols = int(room.Width*sx) + 1
	rows = int(room.Height*sy) + 1

	canvas := make([][]cell, rows)
	for y := range canvas {
		canvas[y] = make([]cell, cols)
		for x := range canvas[y] {
			canvas[y][x] = cell{r: ' ', style: white}
		}
	}

	set := func(p geom.Point, r rune, style lipgloss.Style) {
		cx := int(p.X * sx)
		cy := rows - 1 - int(p.Y*sy)
		if cx >= 0 && cx < cols && cy >= 0 && cy < rows {
			canvas[cy][cx] = cell{r: r, style: style}
		}
	}
	segment := func(p0, p1 geom.Point, r rune, style lipgloss.Style) {
		d := math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
		steps := int(d*sx) + 1
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			set(geom.Point{X: p0.X + t*(p1.X-p0.X), Y: p0.Y + t*(p1.Y-p0.Y)}, r, style)
		}
	}

	for cname, strips := range a.sim.TapeStrips() {
		style, ok := tapeStyles[cname]
		if !ok {
			style = dim
		}
		for _, pts := range strips.PointLists {
			for i := 1; i < len(pts); i++ {
				segment(pts[i-1], pts[i], '·', style)
			}
		}
	}

	for _, obj := range a.sim.Objects() {
		switch o := obj.(type) {
		case *world.Pylon:
			style := orange
			if o.ColorName == "green" {
				style = green
			}
			pos := o.PhysicsBody().GetPosition()
			set(geom.Point{X: pos.X, Y: pos.Y}, 'O', style)
		case *world.Ball:
			pos := o.PhysicsBody().GetPosition()
			set(geom.Point{X: pos.X, Y: pos.Y}, '@', magenta)
		case *world.Wall:
			p0, p1 := o.Endpoints()
			segment(p0, p1, '#', white)
			set(p0, '#', white)
			set(p1, '#', white)
		case *world.Box:
			pos := o.PhysicsBody().GetPosition()
			angle := o.PhysicsBody().GetAngle()
			c, s := math.Cos(angle), math.Sin(angle)
			hw, hh := 0.5*o.Dims.W, 0.5*o.Dims.H
			corners := [4]geom.Point{
				{X: pos.X + c*hw - s*hh, Y: pos.Y + s*hw + c*hh},
				{X: pos.X - c*hw - s*hh, Y: pos.Y - s*hw + c*hh},
				{X: pos.X - c*hw + s*hh, Y: pos.Y - s*hw - c*hh},
				{X: pos.X + c*hw + s*hh, Y: pos.Y + s*hw - c*hh},
			}
			for i := range corners {
				segment(corners[i], corners[(i+1)%4], '▒', yellow)
			}
		}
	}

	robot := a.sim.Robot()
	pose := robot.WorldPose()
	style := cyan
	if b := robot.Bump(); b[0] || b[1] || b[2] {
		style = red
	}
	set(geom.Point{X: pose.X, Y: pose.Y}, '●', style)
	set(geom.Point{
		X: pose.X + 0.18*math.Cos(pose.Angle),
		Y: pose.Y + 0.18*math.Sin(pose.Angle),
	}, headingRune(pose.Angle), style)

	var b strings.Builder
	b.WriteString(dim.Render("┌"+strings.Repeat("─", cols)+"┐") + "\n")
	for _, row := range canvas {
		b.WriteString(dim.Render("│"))
		for _, c := range row {
			b.WriteString(c.style.Render(string(c.r)))
		}
		b.WriteString(dim.Render("│") + "\n")
	}
	b.WriteString(dim.Render("└" + strings.Repeat("─", cols) + "┘"))
	return b.String()
}

func headingRune(angle float64) rune {
	dirs := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	sector := int(math.Round(angle/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return dirs[sector]
}

func (a *LiveApp) renderPanel() string {
	robot := a.sim.Robot()
	truePose := robot.TruePose()
	odomPose := robot.OdomPose()
	wl, wr := robot.WheelVelocities()
	bump := robot.Bump()

	var b strings.Builder
	b.WriteString(cyan.Render("botsim") + dim.Render(fmt.Sprintf("  t=%.2fs", a.sim.SimTime())))
	if a.paused {
		b.WriteString(" " + yellow.Render("[paused]"))
	}
	b.WriteString("\n\n")

	b.WriteString(dim.Render("command") + "\n")
	b.WriteString(fmt.Sprintf("  lin %s m/s   ang %s rad/s\n\n",
		white.Render(fmt.Sprintf("%+.2f", a.linear)),
		white.Render(fmt.Sprintf("%+.2f", a.angular))))

	b.WriteString(dim.Render("pose (true)") + "\n")
	b.WriteString(fmt.Sprintf("  x %+.3f  y %+.3f  θ %+.3f\n", truePose.X, truePose.Y, truePose.Angle))
	b.WriteString(dim.Render("pose (odom)") + "\n")
	b.WriteString(fmt.Sprintf("  x %+.3f  y %+.3f  θ %+.3f\n\n", odomPose.X, odomPose.Y, odomPose.Angle))

	b.WriteString(dim.Render("wheels") + "\n")
	b.WriteString(fmt.Sprintf("  L %+.3f m/s   R %+.3f m/s\n\n", wl, wr))

	b.WriteString(dim.Render("bump") + "  ")
	labels := []string{"L", "C", "R"}
	for i, hit := range bump {
		if hit {
			b.WriteString(red.Render("["+labels[i]+"]") + " ")
		} else {
			b.WriteString(dim.Render(" " + labels[i] + "  "))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render(fmt.Sprintf("fps %.0f  ticks %d", a.fps, a.sim.SimTicks())))
	return b.String()
}
