// Command latticeview is a native visualizer for the consciousness lattice:
// it runs an engine in-process and renders nodes, universe boundaries and
// cluster centroids with ebiten, with a parameter panel and pointer
// interaction (1-4 switch modes, N adds a node, C collapses at the cursor).
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
	"github.com/Jacobcdsmith/CONSIM/pkg/ui"
)

const (
	screenWidth  = 1280
	screenHeight = 800
	worldScale   = 0.7 // world units to pixels
)

var universePalette = []color.RGBA{
	{R: 80, G: 160, B: 255, A: 255},
	{R: 255, G: 120, B: 80, A: 255},
	{R: 120, G: 230, B: 120, A: 255},
	{R: 230, G: 120, B: 230, A: 255},
	{R: 255, G: 220, B: 90, A: 255},
	{R: 110, G: 220, B: 220, A: 255},
}

type Game struct {
	engine *lattice.Engine
	snap   lattice.LatticeSnapshot
	panel  *ui.Panel

	pointerMode   string
	showUniverses *ui.Checkbox
	showClusters  *ui.Checkbox
	paused        *ui.Checkbox
}

func worldToScreen(x, y float64) (float32, float32) {
	return float32(screenWidth/2 + x*worldScale), float32(screenHeight/2 + y*worldScale)
}

func screenToWorld(mx, my int) (float64, float64) {
	return (float64(mx) - screenWidth/2) / worldScale, (float64(my) - screenHeight/2) / worldScale
}

func (g *Game) overPanel(mx, my int) bool {
	return float64(mx) >= g.panel.X && float64(mx) <= g.panel.X+g.panel.Width &&
		float64(my) >= g.panel.Y && float64(my) <= g.panel.Y+g.panel.Height
}

func (g *Game) Update() error {
	g.panel.Update()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.pointerMode = lattice.PointerPush
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.pointerMode = lattice.PointerPull
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.pointerMode = lattice.PointerVortex
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		g.pointerMode = lattice.PointerWave
	}

	mx, my := ebiten.CursorPosition()
	wx, wy := screenToWorld(mx, my)

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.engine.AddNode(wx, wy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.engine.Collapse(wx, wy)
	}

	var pointer *lattice.PointerInfluence
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.overPanel(mx, my) {
		pointer = &lattice.PointerInfluence{X: wx, Y: wy, Mode: g.pointerMode, Active: true}
	}

	if !g.paused.Value {
		g.engine.Step(1.0/float64(ebiten.TPS()), pointer)
	}
	g.snap = g.engine.Snapshot()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// World boundary
	bx, by := worldToScreen(-lattice.WorldHalfExtent, -lattice.WorldHalfExtent)
	side := float32(2 * lattice.WorldHalfExtent * worldScale)
	vector.StrokeRect(screen, bx, by, side, side, 1, color.RGBA{R: 70, G: 70, B: 80, A: 255}, true)

	if g.showUniverses.Value {
		for _, u := range g.snap.Groups {
			cx, cy := worldToScreen(u.CenterX, u.CenterY)
			clr := universePalette[u.ID%len(universePalette)]
			clr.A = 120
			vector.StrokeCircle(screen, cx, cy, float32(u.Radius*worldScale), 1, clr, true)
		}
	}

	for _, e := range g.snap.Entities {
		cx, cy := worldToScreen(e.X, e.Y)
		clr := universePalette[e.GroupID%len(universePalette)]
		r := float32(e.Radius * worldScale)
		if r < 1.5 {
			r = 1.5
		}
		vector.FillCircle(screen, cx, cy, r, clr, true)
		if e.ClusterID >= 0 {
			vector.StrokeCircle(screen, cx, cy, r+2, 1, color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
		}
	}

	if g.showClusters.Value {
		for _, c := range g.snap.Clusters {
			cx, cy := worldToScreen(c.CenterX, c.CenterY)
			vector.StrokeCircle(screen, cx, cy, 6, 2, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
		}
	}

	stats := g.snap.GlobalStats
	hud := fmt.Sprintf("mode: %s [1-4]  |C| = %.2f  resonance = %.4f  nodes = %d  clusters = %d  t = %.1fs\nN: add node  C: collapse  drag: apply pointer",
		g.pointerMode, stats.ConsciousnessMagnitude, stats.GlobalResonance,
		stats.NodeCount, stats.ClusterCount, stats.Time)
	ebitenutil.DebugPrint(screen, hud)

	g.panel.Draw(screen)
}

func (g *Game) Layout(w, h int) (int, int) { return screenWidth, screenHeight }

func newGame(nodes, universes int, seed uint64) *Game {
	engine := lattice.New(nodes, universes, rand.New(rand.NewPCG(seed, seed)))

	g := &Game{
		engine:      engine,
		snap:        engine.Snapshot(),
		pointerMode: lattice.PointerPush,
	}

	panel := ui.NewPanel(screenWidth-250, 10, 240, 330, "Parameters")
	bind := func(key string) func(float64) {
		return func(v float64) {
			engine.SetParams(map[string]float64{key: v})
		}
	}
	p := engine.Params()
	panel.AddSlider("gravity", 0, 3, p.Gravity).OnChange = bind("gravity")
	panel.AddSlider("friction", 0.90, 1.0, p.Friction).OnChange = bind("friction")
	panel.AddSlider("elasticity", 0, 2, p.Elasticity).OnChange = bind("elasticity")
	panel.AddSlider("time dilation", 0, 3, p.TimeDilation).OnChange = bind("time_dilation")
	panel.AddSlider("field strength", 0, 3, p.FieldStrength).OnChange = bind("field_strength")

	g.showUniverses = panel.AddCheckbox("show universes", true)
	g.showClusters = panel.AddCheckbox("show cluster centers", true)
	g.paused = panel.AddCheckbox("pause", false)

	panel.AddButton("collapse at center", func() { engine.Collapse(0, 0) })

	g.panel = panel
	return g
}

func main() {
	nodes := flag.Int("nodes", 128, "initial node count")
	universes := flag.Int("universes", 3, "universe count")
	seed := flag.Uint64("seed", 0, "random seed, 0 = clock-derived")
	flag.Parse()

	effectiveSeed := *seed
	if effectiveSeed == 0 {
		effectiveSeed = uint64(time.Now().UnixNano())
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("CONSIM lattice")

	if err := ebiten.RunGame(newGame(*nodes, *universes, effectiveSeed)); err != nil {
		log.Fatal(err)
	}
}
