package lattice

import (
	"math"
	"testing"

	"github.com/Jacobcdsmith/CONSIM/pkg/geometry"
)

// constSource always returns the same value; handy to force one branch of
// the tunneling probability check.
type constSource struct{ v float64 }

func (s constSource) Float64() float64 { return s.v }

func testEnv(src Source) Env {
	return Env{Rand: src, WallSeconds: 0}
}

func TestNodePhaseStaysBounded(t *testing.T) {
	// Setup
	phases := []float64{0, 1.5, 2 * math.Pi, 6.28, 100.0, 1e6, -1.5, -100.0}
	params := DefaultParams()

	for _, start := range phases {
		n := newNode(0, geometry.Vector2D{}, 40, 0, 0, 1)
		n.Phase = start

		// Execute: several updates, including large frequency drift
		for i := 0; i < 10; i++ {
			n.Advance(0.05, params, nil, testEnv(constSource{0.5}))
		}

		// Verify
		if n.Phase < 0 || n.Phase >= 2*math.Pi {
			t.Errorf("start phase %v: phase %v escaped [0, 2*Pi)", start, n.Phase)
		}
	}
}

func TestNodeConsciousnessValue(t *testing.T) {
	// Setup: known attention/frequency/phase
	n := newNode(0, geometry.Vector2D{}, 40, math.Pi/3, 0, 1)
	n.Attention = 0.25

	// Execute
	n.Advance(0.016, DefaultParams(), nil, testEnv(constSource{0.5}))

	// Verify: C = attention * frequency * e^(i*phase) from pre-advance phase
	wantRe := 0.25 * 40 * math.Cos(math.Pi/3)
	wantIm := 0.25 * 40 * math.Sin(math.Pi/3)
	if math.Abs(n.ConsciousnessRe-wantRe) > 1e-9 {
		t.Errorf("ConsciousnessRe = %v, want %v", n.ConsciousnessRe, wantRe)
	}
	if math.Abs(n.ConsciousnessIm-wantIm) > 1e-9 {
		t.Errorf("ConsciousnessIm = %v, want %v", n.ConsciousnessIm, wantIm)
	}

	wantRadius := n.BaseRadius + math.Hypot(wantRe, wantIm)*0.1
	if math.Abs(n.Radius-wantRadius) > 1e-9 {
		t.Errorf("Radius = %v, want %v", n.Radius, wantRadius)
	}
}

func TestBounceReflection(t *testing.T) {
	// Out of bounds with the tunneling branch forced off (0.5 >= 0.05)
	pos, vel := bounce(520, 3.0, 0.8, constSource{0.5})

	if pos != WorldHalfExtent {
		t.Errorf("pos = %v, want clamp at %v", pos, WorldHalfExtent)
	}
	want := 3.0 * -0.8 * 0.8
	if math.Abs(vel-want) > 1e-9 {
		t.Errorf("vel = %v, want %v", vel, want)
	}
}

func TestBounceTunneling(t *testing.T) {
	// Tunneling branch forced on (0.01 < 0.05): teleport to the far edge
	pos, vel := bounce(-510, -2.0, 0.8, constSource{0.01})

	if pos != WorldHalfExtent {
		t.Errorf("pos = %v, want opposite bound %v", pos, WorldHalfExtent)
	}
	if math.Abs(vel-1.0) > 1e-9 {
		t.Errorf("vel = %v, want 1.0 (reversed and halved)", vel)
	}
}

func TestBounceInBoundsUntouched(t *testing.T) {
	pos, vel := bounce(123.4, -5.6, 0.8, constSource{0.01})
	if pos != 123.4 || vel != -5.6 {
		t.Errorf("in-bounds state changed: pos=%v vel=%v", pos, vel)
	}
}

func TestPointerModes(t *testing.T) {
	params := DefaultParams()
	env := testEnv(constSource{0.5})

	tests := []struct {
		mode  string
		check func(t *testing.T, vel geometry.Vector2D)
	}{
		{PointerPush, func(t *testing.T, vel geometry.Vector2D) {
			if vel.X <= 0 {
				t.Errorf("push should drive the node away (+X), vel = %v", vel)
			}
		}},
		{PointerPull, func(t *testing.T, vel geometry.Vector2D) {
			if vel.X >= 0 {
				t.Errorf("pull should drive the node toward the pointer (-X), vel = %v", vel)
			}
		}},
		{PointerVortex, func(t *testing.T, vel geometry.Vector2D) {
			if math.Abs(vel.Y) < 1e-9 {
				t.Errorf("vortex should add a tangential component, vel = %v", vel)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			// Setup: node right of the pointer, gravity off to isolate the force
			n := newNode(0, geometry.Vector2D{X: 100, Y: 0}, 40, 0, 0, 1)
			p := params
			p.Gravity = 0
			pointer := &PointerInfluence{X: 0, Y: 0, Mode: tt.mode, Active: true}

			// Execute
			n.Advance(0.016, p, pointer, env)

			// Verify
			tt.check(t, n.Vel)
		})
	}
}

func TestPointerInactiveOrOutOfRange(t *testing.T) {
	p := DefaultParams()
	p.Gravity = 0
	env := testEnv(constSource{0.5})

	// Inactive pointer
	n := newNode(0, geometry.Vector2D{X: 50, Y: 0}, 40, 0, 0, 1)
	n.Advance(0.016, p, &PointerInfluence{X: 0, Y: 0, Mode: PointerPush, Active: false}, env)
	if !n.Vel.Eq(geometry.Vector2D{}) {
		t.Errorf("inactive pointer moved the node, vel = %v", n.Vel)
	}

	// Out of range (> 200 * field_strength)
	n = newNode(1, geometry.Vector2D{X: 300, Y: 0}, 40, 0, 0, 1)
	n.Advance(0.016, p, &PointerInfluence{X: 0, Y: 0, Mode: PointerPush, Active: true}, env)
	if !n.Vel.Eq(geometry.Vector2D{}) {
		t.Errorf("out-of-range pointer moved the node, vel = %v", n.Vel)
	}
}

func TestPointerExactlyOnNode(t *testing.T) {
	// A pointer with zero distance has no direction; the node must not fault
	// or pick up a force.
	p := DefaultParams()
	p.Gravity = 0
	n := newNode(0, geometry.Vector2D{X: 10, Y: 10}, 40, 0, 0, 1)

	n.Advance(0.016, p, &PointerInfluence{X: 10, Y: 10, Mode: PointerPush, Active: true}, testEnv(constSource{0.5}))

	if math.IsNaN(n.Vel.X) || math.IsNaN(n.Vel.Y) {
		t.Fatalf("vel became NaN: %v", n.Vel)
	}
	if !n.Vel.Eq(geometry.Vector2D{}) {
		t.Errorf("zero-distance pointer applied a force, vel = %v", n.Vel)
	}
}

func TestGravityPullsTowardCenter(t *testing.T) {
	n := newNode(0, geometry.Vector2D{X: 200, Y: 0}, 40, 0, 0, 1)

	n.Advance(0.016, DefaultParams(), nil, testEnv(constSource{0.5}))

	if n.Vel.X >= 0 {
		t.Errorf("gravity should accelerate toward the origin, vel = %v", n.Vel)
	}
}

func TestGravityDeadZoneNearCenter(t *testing.T) {
	// Within distance 10 of the origin gravity does not apply.
	n := newNode(0, geometry.Vector2D{X: 5, Y: 0}, 40, 0, 0, 1)

	n.Advance(0.016, DefaultParams(), nil, testEnv(constSource{0.5}))

	if !n.Vel.Eq(geometry.Vector2D{}) {
		t.Errorf("gravity applied inside the dead zone, vel = %v", n.Vel)
	}
}

func TestTensorEvolution(t *testing.T) {
	// Setup
	n := newNode(0, geometry.Vector2D{}, 40, 0, 0, 1)
	params := DefaultParams()
	rate := 0.02 * params.TimeDilation

	wantMemory := n.Memory.Add(n.Logic.Mul(rate * 0.1))
	wantProcessing := n.Processing.Add(wantMemory.Mul(rate * 0.15))

	// Execute
	n.Advance(0.016, params, nil, testEnv(constSource{0.5}))

	// Verify: logic feeds memory, updated memory feeds processing
	if !n.Memory.Eq(wantMemory) {
		t.Errorf("Memory = %v, want %v", n.Memory, wantMemory)
	}
	if !n.Processing.Eq(wantProcessing) {
		t.Errorf("Processing = %v, want %v", n.Processing, wantProcessing)
	}

	wantDepth := math.Min(1, (n.Logic.Len()+wantMemory.Len()+wantProcessing.Len())/3)
	if math.Abs(n.ConsciousnessDepth-wantDepth) > 1e-9 {
		t.Errorf("ConsciousnessDepth = %v, want %v", n.ConsciousnessDepth, wantDepth)
	}
	wantAwareness := math.Min(1, n.Logic.Len()*0.8)
	if math.Abs(n.SelfAwareness-wantAwareness) > 1e-9 {
		t.Errorf("SelfAwareness = %v, want %v", n.SelfAwareness, wantAwareness)
	}
}

func TestThoughtIntensityDecay(t *testing.T) {
	n := newNode(0, geometry.Vector2D{}, 40, 0, 0, 1)
	n.ThoughtIntensity = 1.0
	params := DefaultParams()

	n.Advance(0.05, params, nil, testEnv(constSource{0.5}))
	if math.Abs(n.ThoughtIntensity-0.975) > 1e-9 {
		t.Errorf("ThoughtIntensity = %v, want 0.975", n.ThoughtIntensity)
	}

	// Decay floors at zero
	n.ThoughtIntensity = 0.01
	n.Advance(0.05, params, nil, testEnv(constSource{0.5}))
	if n.ThoughtIntensity != 0 {
		t.Errorf("ThoughtIntensity = %v, want floor at 0", n.ThoughtIntensity)
	}
}

func TestAttentionDensity(t *testing.T) {
	// At the origin the Gaussian peaks at exactly 1.
	n := newNode(0, geometry.Vector2D{}, 40, 0, 0, 1)
	if got := n.AttentionDensity(); got != 1.0 {
		t.Errorf("AttentionDensity at origin = %v, want 1", got)
	}

	// One sigma out: exp(-0.5)
	n.Pos = geometry.Vector2D{X: 200, Y: 0}
	want := math.Exp(-0.5)
	if got := n.AttentionDensity(); math.Abs(got-want) > 1e-12 {
		t.Errorf("AttentionDensity at sigma = %v, want %v", got, want)
	}
}
