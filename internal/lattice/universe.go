package lattice

import (
	"math"

	"github.com/Jacobcdsmith/CONSIM/pkg/geometry"
)

// Universe is a bounded circular region modulating the frequency of nodes
// currently inside it. Universes never own nodes; containment is evaluated
// fresh on every call.
type Universe struct {
	ID             int
	Center         geometry.Vector2D
	Radius         float64
	ResonanceCoeff float64
}

// Contains reports whether pos lies strictly inside the universe boundary.
func (u *Universe) Contains(pos geometry.Vector2D) bool {
	return u.Center.DistanceTo(pos) < u.Radius
}

// Modulate applies the universe's frequency modulation to every contained
// node: frequency = base · (1 + λ · 0.2 · sin(t · 0.05)). Nodes outside the
// boundary keep whatever frequency they last had.
func (u *Universe) Modulate(nodes []*Node, t float64) {
	modulation := 1 + u.ResonanceCoeff*0.2*math.Sin(t*0.05)
	for _, n := range nodes {
		if u.Contains(n.Pos) {
			n.Frequency = n.BaseFrequency * modulation
		}
	}
}
