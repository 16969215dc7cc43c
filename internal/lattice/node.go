package lattice

import (
	"math"

	"github.com/Jacobcdsmith/CONSIM/pkg/geometry"
)

// World half-extent per axis; nodes live inside [-WorldHalfExtent, WorldHalfExtent]².
const WorldHalfExtent = 500.0

// attentionSigma is the standard deviation of the Gaussian attention field
// centered on the origin.
const attentionSigma = 200.0

const tunnelingProbability = 0.05

// Pointer interaction modes.
const (
	PointerPush   = "push"
	PointerPull   = "pull"
	PointerVortex = "vortex"
	PointerWave   = "wave"
)

// PointerInfluence is an external pointer (mouse) acting on the field.
// Inactive influences are carried but have no effect.
type PointerInfluence struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Mode   string  `json:"mode"`
	Active bool    `json:"active"`
}

// Env carries the per-frame ambient inputs shared by every node update:
// the engine's random source (boundary tunneling) and the wall-clock
// reference the wave pointer mode oscillates against.
type Env struct {
	Rand        Source
	WallSeconds float64
}

// Node is a single oscillating particle on the lattice.
//
// Phase stays reduced into [0, 2π). Attention is normalized by the engine so
// the sum over the whole collection is 1. The complex value
// (ConsciousnessRe, ConsciousnessIm) = attention × frequency × e^(i·phase)
// is derived state, recomputed on every Advance.
type Node struct {
	ID         int
	Pos        geometry.Vector2D
	Vel        geometry.Vector2D
	Radius     float64
	BaseRadius float64

	Frequency     float64
	BaseFrequency float64
	Phase         float64
	Attention     float64

	ConsciousnessRe float64
	ConsciousnessIm float64

	UniverseID     int
	ResonanceCoeff float64
	Mass           float64

	// Capability tensors. Logic feeds Memory, Memory feeds Processing;
	// Creativity and Social are carried but not yet coupled.
	Logic      geometry.Vector2D
	Memory     geometry.Vector2D
	Processing geometry.Vector2D
	Creativity geometry.Vector2D
	Social     geometry.Vector2D

	ConsciousnessDepth     float64
	SelfAwareness          float64
	AdaptiveCapacity       float64
	CollectiveIntelligence float64

	ClusterID        int
	ThoughtIntensity float64
	RecursionLevel   int
}

func newNode(id int, pos geometry.Vector2D, frequency, phase float64, universeID int, resonanceCoeff float64) *Node {
	return &Node{
		ID:             id,
		Pos:            pos,
		Radius:         3.0,
		BaseRadius:     3.0,
		Frequency:      frequency,
		BaseFrequency:  frequency,
		Phase:          phase,
		UniverseID:     universeID,
		ResonanceCoeff: resonanceCoeff,
		Mass:           1.0,
		Logic:          geometry.Vector2D{X: 0.5, Y: 0.5},
		Memory:         geometry.Vector2D{X: 0.5, Y: 0.5},
		Processing:     geometry.Vector2D{X: 0.5, Y: 0.5},
		Creativity:     geometry.Vector2D{X: 0.5, Y: 0.5},
		Social:         geometry.Vector2D{X: 0.5, Y: 0.5},
		ClusterID:      -1,
	}
}

// AttentionDensity is the raw (pre-normalization) Gaussian attention weight
// at the node's current position, range (0, 1].
func (n *Node) AttentionDensity() float64 {
	dSq := n.Pos.LenSqr()
	return math.Exp(-dSq / (2 * attentionSigma * attentionSigma))
}

// Advance performs one local update: oscillation, pointer response, physics
// integration with boundary handling, and capability tensor evolution.
func (n *Node) Advance(dt float64, params Params, pointer *PointerInfluence, env Env) {
	dt *= params.TimeDilation

	cosTau := math.Cos(n.Phase)
	sinTau := math.Sin(n.Phase)
	n.ConsciousnessRe = n.Attention * n.Frequency * cosTau
	n.ConsciousnessIm = n.Attention * n.Frequency * sinTau

	n.Phase += n.Frequency * dt * 2 * math.Pi / 1000
	n.Phase = math.Mod(n.Phase, 2*math.Pi)
	if n.Phase < 0 {
		n.Phase += 2 * math.Pi
	}

	if pointer != nil && pointer.Active {
		n.applyPointer(pointer, dt, params, env.WallSeconds)
	}

	n.applyPhysics(dt, params, env.Rand)
	n.evolveTensors(dt, params)

	magnitude := math.Hypot(n.ConsciousnessRe, n.ConsciousnessIm)
	n.Radius = n.BaseRadius + magnitude*0.1
}

func (n *Node) applyPointer(pointer *PointerInfluence, dt float64, params Params, wallSeconds float64) {
	toPointer := geometry.Vector2D{X: pointer.X, Y: pointer.Y}.Sub(n.Pos)
	distance := toPointer.Len()
	maxDistance := 200 * params.FieldStrength
	if distance >= maxDistance || distance == 0 {
		// A pointer sitting exactly on the node has no defined direction.
		return
	}

	angle := toPointer.Angle()
	force := (maxDistance - distance) / maxDistance * params.FieldStrength
	scale := dt * 60

	switch pointer.Mode {
	case PointerPush:
		n.Vel = n.Vel.Sub(geometry.FromPolar(force*0.4*scale, angle))
	case PointerPull:
		n.Vel = n.Vel.Add(geometry.FromPolar(force*0.4*scale, angle))
	case PointerVortex:
		n.Vel = n.Vel.Add(geometry.FromPolar(force*0.5*scale, angle+math.Pi/2))
	case PointerWave:
		waveForce := math.Sin(distance*0.05-wallSeconds*10) * force
		n.Vel = n.Vel.Add(geometry.FromPolar(waveForce*0.5*scale, angle))
	}
}

func (n *Node) applyPhysics(dt float64, params Params, rng Source) {
	if params.Gravity > 0 {
		toCenter := n.Pos.Mul(-1)
		distCenter := toCenter.Len()
		if distCenter > 10 {
			gravityForce := params.Gravity * 0.001 * dt * 60
			n.Vel = n.Vel.Add(toCenter.Mul(gravityForce / distCenter))
		}
	}

	n.Pos = n.Pos.Add(n.Vel.Mul(dt * 60))

	friction := math.Pow(params.Friction, dt*60)
	n.Vel = n.Vel.Mul(friction)

	n.Pos.X, n.Vel.X = bounce(n.Pos.X, n.Vel.X, params.Elasticity, rng)
	n.Pos.Y, n.Vel.Y = bounce(n.Pos.Y, n.Vel.Y, params.Elasticity, rng)
}

// bounce handles one axis of the world boundary: a small chance of quantum
// tunneling to the opposite edge, otherwise a damped reflection.
func bounce(pos, vel, elasticity float64, rng Source) (float64, float64) {
	if pos >= -WorldHalfExtent && pos <= WorldHalfExtent {
		return pos, vel
	}
	if rng.Float64() < tunnelingProbability {
		if pos < -WorldHalfExtent {
			pos = WorldHalfExtent
		} else {
			pos = -WorldHalfExtent
		}
		return pos, vel * -0.5
	}
	vel *= -0.8 * elasticity
	pos = math.Max(-WorldHalfExtent, math.Min(WorldHalfExtent, pos))
	return pos, vel
}

func (n *Node) evolveTensors(dt float64, params Params) {
	evolutionRate := 0.02 * params.TimeDilation

	n.Memory = n.Memory.Add(n.Logic.Mul(evolutionRate * 0.1))
	n.Processing = n.Processing.Add(n.Memory.Mul(evolutionRate * 0.15))

	logicMag := n.Logic.Len()
	memoryMag := n.Memory.Len()
	processingMag := n.Processing.Len()

	n.ConsciousnessDepth = math.Min(1, (logicMag+memoryMag+processingMag)/3)
	n.SelfAwareness = math.Min(1, logicMag*0.8+n.ThoughtIntensity*0.2)

	n.ThoughtIntensity = math.Max(0, n.ThoughtIntensity-dt*0.5)
}
