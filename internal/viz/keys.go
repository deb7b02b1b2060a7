package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Grab     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Play     key.Binding
	StepOne  key.Binding
	Speed    key.Binding
	Body     key.Binding
	Stiffer  key.Binding
	Softer   key.Binding
	Longer   key.Binding
	Shorter  key.Binding
	Damp     key.Binding
	Undamp   key.Binding
	Watch    key.Binding
	Ruler    key.Binding
	Forces   key.Binding
	Constant key.Binding
	Theme    key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select mass")),
		Grab:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "grab/release")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "drag up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "drag down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "drag left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "drag right")),
		Play:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		StepOne:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "step")),
		Speed:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "slow/normal")),
		Body:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "body")),
		Stiffer:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "stiffer")),
		Softer:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "softer")),
		Longer:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "longer")),
		Shorter:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "shorter")),
		Damp:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "more damping")),
		Undamp:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "less damping")),
		Watch:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "stopwatch")),
		Ruler:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "ruler")),
		Forces:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forces/net")),
		Constant: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "same/different k")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Grab, k.Play, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Grab, k.Up, k.Down, k.Left, k.Right},
		{k.Play, k.StepOne, k.Speed, k.Body, k.Watch, k.Ruler},
		{k.Stiffer, k.Softer, k.Longer, k.Shorter, k.Damp, k.Undamp},
		{k.Forces, k.Constant, k.Theme, k.Reset, k.Help, k.Quit},
	}
}
