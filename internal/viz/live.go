package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 240
	statsWidth      = 52

	constantStep = 1.1
	lengthStep   = 0.05
	dampingStep  = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model hosts one screen and turns key presses into scene actions.
type Model struct {
	screen   *scene.Screen
	renderer *Renderer
	keys     keyMap
	help     help.Model
	logger   *slog.Logger
	title    string

	selected int
	history  []float64
	status   string
	showHelp bool
}

func NewModel(sc *scene.Scene, title string, logger *slog.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	r := NewRenderer(width, height)
	return Model{
		screen:   scene.NewScreen(sc, r),
		renderer: r,
		keys:     defaultKeyMap(),
		help:     help.New(),
		logger:   logger,
		title:    title,
		history:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Scene() *scene.Scene { return m.screen.Scene }

// Selected is the mass keyboard actions apply to, or nil for an empty scene.
func (m Model) Selected() *model.Mass {
	sc := m.screen.Scene
	if len(sc.Masses) == 0 {
		return nil
	}
	return sc.Masses[m.selected%len(sc.Masses)]
}

// selectedSpring is the spring the selected mass hangs from, or the first
// spring.
func (m Model) selectedSpring() (int, *model.Spring) {
	sc := m.screen.Scene
	if mass := m.Selected(); mass != nil {
		if sp := mass.Spring.Get(); sp != nil {
			for i, s := range sc.Springs {
				if s == sp {
					return i, s
				}
			}
		}
	}
	if len(sc.Springs) == 0 {
		return -1, nil
	}
	return 0, sc.Springs[0]
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - statsWidth - 6
		h := msg.Height - 4
		if w > 10 && h > 5 {
			m.renderer.Resize(w, h)
		}
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.status = ""
		if err := m.handleKey(msg); err != nil {
			m.status = err.Error()
			m.logger.Debug("key rejected", "key", msg.String(), "err", err)
		}
	case TickMsg:
		m.screen.Step(scene.FrameDt)
		m.record()
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) error {
	sc := m.screen.Scene
	mass := m.Selected()

	switch {
	case key.Matches(msg, m.keys.Next):
		if len(sc.Masses) > 0 && (mass == nil || !mass.UserControlled.Get()) {
			m.selected = (m.selected + 1) % len(sc.Masses)
			m.history = m.history[:0]
		}
	case key.Matches(msg, m.keys.Grab):
		if mass == nil {
			return nil
		}
		if mass.UserControlled.Get() {
			sp, err := sc.Release(mass)
			if err != nil {
				return err
			}
			if sp != nil {
				m.logger.Debug("mass attached", "mass", mass.Label, "spring", sp.ID)
			}
			return nil
		}
		return sc.Grab(mass)
	case key.Matches(msg, m.keys.Up):
		return m.drag(0, -4)
	case key.Matches(msg, m.keys.Down):
		return m.drag(0, 4)
	case key.Matches(msg, m.keys.Left):
		return m.drag(-2, 0)
	case key.Matches(msg, m.keys.Right):
		return m.drag(2, 0)
	case key.Matches(msg, m.keys.Play):
		sc.Playing.Set(!sc.Playing.Get())
	case key.Matches(msg, m.keys.StepOne):
		sc.StepForward()
		m.record()
	case key.Matches(msg, m.keys.Speed):
		if sc.Speed.Get() == model.SpeedNormal {
			sc.Speed.Set(model.SpeedSlow)
		} else {
			sc.Speed.Set(model.SpeedNormal)
		}
	case key.Matches(msg, m.keys.Body):
		bodies := model.Bodies()
		// custom is reached by setting gravity, not by cycling
		next := (int(sc.Body.Get()) + 1) % (len(bodies) - 1)
		sc.SelectBody(bodies[next])
	case key.Matches(msg, m.keys.Stiffer), key.Matches(msg, m.keys.Softer):
		i, sp := m.selectedSpring()
		if sp == nil {
			return nil
		}
		k := sp.SpringConstant.Get() * constantStep
		if key.Matches(msg, m.keys.Softer) {
			k = sp.SpringConstant.Get() / constantStep
		}
		return sc.SetSpringConstant(i, k)
	case key.Matches(msg, m.keys.Longer), key.Matches(msg, m.keys.Shorter):
		i, sp := m.selectedSpring()
		if sp == nil {
			return nil
		}
		d := lengthStep
		if key.Matches(msg, m.keys.Shorter) {
			d = -d
		}
		return sc.SetNaturalLength(i, sp.NaturalRestingLength.Get()+d)
	case key.Matches(msg, m.keys.Damp), key.Matches(msg, m.keys.Undamp):
		i, sp := m.selectedSpring()
		if sp == nil {
			return nil
		}
		b := sp.DampingCoefficient.Get() + dampingStep
		if key.Matches(msg, m.keys.Undamp) {
			b = max(0, sp.DampingCoefficient.Get()-dampingStep)
		}
		return sc.SetDamping(i, b)
	case key.Matches(msg, m.keys.Watch):
		sc.Stopwatch.Toggle()
	case key.Matches(msg, m.keys.Ruler):
		sc.Ruler.Visible.Set(!sc.Ruler.Visible.Get())
	case key.Matches(msg, m.keys.Forces):
		if sc.ForceMode.Get() == model.ForcesIndividual {
			sc.ForceMode.Set(model.ForcesNet)
		} else {
			sc.ForceMode.Set(model.ForcesIndividual)
		}
	case key.Matches(msg, m.keys.Constant):
		if sc.ConstantMode.Get() == model.ConstantSame {
			sc.ConstantMode.Set(model.ConstantDifferent)
		} else {
			sc.ConstantMode.Set(model.ConstantSame)
		}
	case key.Matches(msg, m.keys.Theme):
		NextTheme()
	case key.Matches(msg, m.keys.Reset):
		m.screen.Reset()
		m.history = m.history[:0]
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return nil
}

// drag moves the held mass by a delta in canvas pixels.
func (m *Model) drag(dx, dy float64) error {
	mass := m.Selected()
	if mass == nil || !mass.UserControlled.Get() {
		return nil
	}
	t := m.renderer.Transform(m.screen.Scene)
	return m.screen.Scene.DragBy(mass, t.ViewToModelDelta(r2.Vec{X: dx, Y: dy}))
}

// record keeps the selected mass's recent height for the trace.
func (m *Model) record() {
	mass := m.Selected()
	if mass == nil {
		return
	}
	m.history = append(m.history, mass.Position.Get().Y)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Foreground(CurrentTheme.Spring).Render(m.screen.Frame())
	statsView := statsStyle.Render(m.panel())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	m.help.ShowAll = m.showHelp
	return mainView + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m Model) panel() string {
	sc := m.screen.Scene
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := statusRunning.Render("▶ PLAYING")
	if !sc.Playing.Get() {
		status = statusPaused.Render("❚❚ PAUSED")
	}
	s.WriteString(status + "  " + sc.Speed.Get().String() + "\n\n")

	s.WriteString(row("Body", fmt.Sprintf("%s (%.2f m/s²)", sc.Body.Get(), sc.Gravity.Get())))
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", sc.Time.Get())))
	if w := sc.Stopwatch; w.Running.Get() || w.Elapsed.Get() > 0 {
		state := "stopped"
		if w.Running.Get() {
			state = "running"
		}
		s.WriteString(row("Stopwatch", fmt.Sprintf("%.2fs %s", w.Elapsed.Get(), state)))
	}

	mass := m.Selected()
	if mass != nil {
		where := "free"
		switch {
		case mass.UserControlled.Get():
			where = "held"
		case mass.Attached():
			where = "on " + mass.Spring.Get().ID
		}
		label := lipgloss.NewStyle().Foreground(MassColor(mass.Color.Get())).Render(mass.Label)
		s.WriteString(row("Mass", fmt.Sprintf("%s %.3f kg, %s", label, mass.Mass.Get(), where)))
		if sc.Ruler.Visible.Get() {
			if d, ok := sc.Ruler.Reading(mass.Bottom()); ok {
				s.WriteString(row("Ruler", fmt.Sprintf("%.3f m", d)))
			}
		}
	}

	s.WriteString("\nSPRINGS\n")
	selIdx, _ := m.selectedSpring()
	for i, sp := range sc.Springs {
		line := fmt.Sprintf("%-8s k=%5.1f L=%.2f x=%+.3f", sp.ID, sp.SpringConstant.Get(), sp.NaturalRestingLength.Get(), sp.Displacement.Get())
		if sp.DampingCoefficient.Get() > 0 {
			line += fmt.Sprintf(" b=%.1f", sp.DampingCoefficient.Get())
		}
		if i == selIdx {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	if mass != nil {
		switch sc.Kind {
		case model.ScreenVectors:
			s.WriteString(m.forcesPanel(mass))
		case model.ScreenEnergy:
			s.WriteString(m.energyPanel(mass))
		case model.ScreenLab:
			s.WriteString(m.labPanel())
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("Height (m)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString(statusPaused.Render(m.status) + "\n")
	}
	return s.String()
}

func (m Model) forcesPanel(mass *model.Mass) string {
	sc := m.screen.Scene
	g := sc.Gravity.Get()
	var s strings.Builder
	s.WriteString("\nFORCES (N, up +)\n")
	if sc.ForceMode.Get() == model.ForcesNet {
		s.WriteString(row("Net", fmt.Sprintf("%+.3f", mass.NetForce(g))))
		return s.String()
	}
	s.WriteString(row("Gravity", fmt.Sprintf("%+.3f", -mass.Weight(g))))
	if sp := mass.Spring.Get(); sp != nil {
		s.WriteString(row("Spring", fmt.Sprintf("%+.3f", -sp.SpringForce.Get())))
		if b := sp.DampingCoefficient.Get(); b > 0 {
			s.WriteString(row("Damping", fmt.Sprintf("%+.3f", -b*mass.Velocity.Get())))
		}
	}
	return s.String()
}

func (m Model) energyPanel(mass *model.Mass) string {
	e := m.screen.Scene.Energy(mass)
	total := e.Total()
	frac := func(v float64) float64 {
		if total <= 0 {
			return 0
		}
		return v / total
	}

	var s strings.Builder
	s.WriteString("\nENERGY (J)\n")
	s.WriteString(row("Kinetic", Bar(frac(e.Kinetic), 16, CurrentTheme.Kinetic)+fmt.Sprintf(" %.3f", e.Kinetic)))
	s.WriteString(row("Gravity", Bar(frac(e.Gravitational), 16, CurrentTheme.Gravity)+fmt.Sprintf(" %.3f", e.Gravitational)))
	s.WriteString(row("Elastic", Bar(frac(e.Elastic), 16, CurrentTheme.Elastic)+fmt.Sprintf(" %.3f", e.Elastic)))
	s.WriteString(row("Thermal", Bar(frac(e.Thermal), 16, CurrentTheme.Thermal)+fmt.Sprintf(" %.3f", e.Thermal)))
	s.WriteString(row("Total", fmt.Sprintf("%.3f", total)))
	return s.String()
}

func (m Model) labPanel() string {
	var s strings.Builder
	s.WriteString("\nPERIOD\n")
	for _, sp := range m.screen.Scene.Springs {
		if p := sp.Period(); p > 0 {
			s.WriteString(row(sp.ID, fmt.Sprintf("%.3fs", p)))
		}
	}
	return s.String()
}

// Run starts the interactive lab on the alternate screen.
func Run(sc *scene.Scene, title string, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewModel(sc, title, logger), tea.WithAltScreen()).Run()
	return err
}
