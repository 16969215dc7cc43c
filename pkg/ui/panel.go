package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is the interface all panel widgets implement.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
}

// Panel stacks widgets vertically inside a framed background box.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	widgets       []Widget
	nextY         float64

	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewPanel creates an empty panel at the given position.
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		nextY:       y + 24,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSlider appends a slider row and returns it for callback wiring.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	p.nextY += 18 // label line above the track
	s := NewSlider(p.X+10, p.nextY, p.Width-20, label, min, max, value)
	p.nextY += s.H + 10
	p.widgets = append(p.widgets, s)
	return s
}

// AddCheckbox appends a checkbox row and returns it for callback wiring.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, p.nextY, label, value)
	p.nextY += c.Size + 10
	p.widgets = append(p.widgets, c)
	return c
}

// AddButton appends a button row and returns it.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.nextY, p.Width-20, 24, label, onClick)
	p.nextY += b.Height + 10
	p.widgets = append(p.widgets, b)
	return b
}

// Update handles input for all widgets.
func (p *Panel) Update() {
	for _, w := range p.widgets {
		w.Update()
	}
}

// Draw renders the panel frame, title and all widgets.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	for _, w := range p.widgets {
		w.Draw(screen)
	}
}
