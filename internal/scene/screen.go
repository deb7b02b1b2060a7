package scene

import "github.com/san-kum/springlab/internal/model"

// Renderer draws a scene. Implementations observe the scene's properties
// and never mutate them.
type Renderer interface {
	Render(s *Scene) string
}

// Screen pairs a simulation variant's model with the view that draws it.
type Screen struct {
	Kind  model.Screen
	Scene *Scene
	View  Renderer
}

func NewScreen(s *Scene, view Renderer) *Screen {
	return &Screen{Kind: s.Kind, Scene: s, View: view}
}

func (sc *Screen) Frame() string {
	return sc.View.Render(sc.Scene)
}

// Step and Reset forward to the model so hosts only hold the screen.
func (sc *Screen) Step(dt float64) { sc.Scene.Step(dt) }
func (sc *Screen) Reset()          { sc.Scene.Reset() }
