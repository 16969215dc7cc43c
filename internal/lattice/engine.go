package lattice

import (
	"math"
	"time"

	"github.com/Jacobcdsmith/CONSIM/pkg/geometry"
)

// Visualization modes. Purely advisory for renderers; the engine only
// stores and echoes the tag.
const (
	ModeConsciousness = "consciousness"
	ModeAttention     = "attention"
	ModeFrequency     = "frequency"
	ModeTemporal      = "temporal"
	ModeMultiverse    = "multiverse"
)

// maxStepSeconds bounds a single integration step so a stalled caller
// cannot produce a huge, unstable frame.
const maxStepSeconds = 0.05

// ValidMode reports whether mode is one of the recognized visualization tags.
func ValidMode(mode string) bool {
	switch mode {
	case ModeConsciousness, ModeAttention, ModeFrequency, ModeTemporal, ModeMultiverse:
		return true
	}
	return false
}

// Engine owns the full simulation state: the node collection, the universe
// set with its resonance weights, the current cluster partition, physics
// parameters and the accumulated simulation clock.
//
// The engine is single-threaded. Callers serialize access externally; no
// method may run concurrently with another.
type Engine struct {
	nodes     []*Node
	universes []*Universe
	clusters  []*Cluster
	lambdas   []float64
	params    Params
	mode      string
	time      float64
	nextID    int

	rng Source
	now func() time.Time
}

// New builds an engine with nodeCount nodes scattered across the world and
// universeCount universes with Dirichlet-sampled resonance weights, then
// normalizes the attention field. rng drives every random draw the engine
// ever makes.
func New(nodeCount, universeCount int, rng Source) *Engine {
	if universeCount < 1 {
		universeCount = 1
	}
	if nodeCount < 0 {
		nodeCount = 0
	}
	e := &Engine{
		lambdas: sampleDirichlet(rng, universeCount),
		params:  DefaultParams(),
		mode:    ModeConsciousness,
		rng:     rng,
		now:     time.Now,
	}

	e.universes = make([]*Universe, universeCount)
	for i := range e.universes {
		e.universes[i] = &Universe{
			ID: i,
			Center: geometry.Vector2D{
				X: uniform(rng, -400, 400),
				Y: uniform(rng, -400, 400),
			},
			Radius:         uniform(rng, 150, 250),
			ResonanceCoeff: e.lambdas[i],
		}
	}

	e.nodes = make([]*Node, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		pos := geometry.Vector2D{
			X: uniform(rng, -WorldHalfExtent, WorldHalfExtent),
			Y: uniform(rng, -WorldHalfExtent, WorldHalfExtent),
		}
		universeID := intN(rng, universeCount)
		n := newNode(e.nextID, pos, uniform(rng, 35, 45), uniform(rng, 0, 2*math.Pi), universeID, e.lambdas[universeID])
		n.Logic = geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
		n.Memory = geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
		n.Processing = geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
		n.Creativity = geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
		n.Social = geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
		e.nextID++
		e.nodes = append(e.nodes, n)
	}

	e.normalizeAttention()
	return e
}

// Step advances the lattice by dt seconds (clamped to 0.05) and returns the
// frame's aggregate statistics. Pipeline order: pairwise repulsion from the
// pre-step position snapshot, force application, universe modulation,
// per-node advance, cluster rebuild, aggregation.
func (e *Engine) Step(dt float64, pointer *PointerInfluence) AggregateStats {
	if dt > maxStepSeconds {
		dt = maxStepSeconds
	}
	if dt < 0 {
		dt = 0
	}
	e.time += dt * e.params.TimeDilation

	forces := e.pairwiseRepulsion(dt)
	for i, n := range e.nodes {
		n.Vel = n.Vel.Add(forces[i])
	}

	for _, u := range e.universes {
		u.Modulate(e.nodes, e.time)
	}

	env := Env{
		Rand:        e.rng,
		WallSeconds: float64(e.now().UnixNano()) / 1e9,
	}
	for _, n := range e.nodes {
		n.Advance(dt, e.params, pointer, env)
	}

	e.clusters = detectClusters(e.nodes)
	return e.aggregate()
}

// pairwiseRepulsion accumulates short-range node-to-node repulsion against
// the positions all nodes held at the start of the frame, so the result is
// independent of iteration order.
func (e *Engine) pairwiseRepulsion(dt float64) []geometry.Vector2D {
	forces := make([]geometry.Vector2D, len(e.nodes))
	strength := 0.5 * dt * 60 * e.params.Elasticity

	for i, n := range e.nodes {
		var acc geometry.Vector2D
		for j, other := range e.nodes {
			if i == j {
				continue
			}
			distance := n.Pos.DistanceTo(other.Pos)
			minDistance := n.Radius + other.Radius + 10
			if distance < minDistance && distance > 0 {
				force := (minDistance - distance) / minDistance
				angle := n.Pos.AngleTo(other.Pos)
				acc = acc.Sub(geometry.FromPolar(force*strength, angle))
			}
		}
		forces[i] = acc
	}
	return forces
}

// AddNode creates a node at (x, y) with the usual random frequency, phase
// and universe assignment, then renormalizes the attention field.
func (e *Engine) AddNode(x, y float64) EntitySnapshot {
	universeID := intN(e.rng, len(e.universes))
	n := newNode(e.nextID, geometry.Vector2D{X: x, Y: y},
		uniform(e.rng, 35, 45), uniform(e.rng, 0, 2*math.Pi),
		universeID, e.lambdas[universeID])
	e.nextID++

	n.Attention = n.AttentionDensity()
	e.nodes = append(e.nodes, n)
	e.normalizeAttention()

	return snapshotNode(n)
}

// RemoveNode deletes the node with the given id, if present, and
// renormalizes the attention field. Reports whether a node was removed.
func (e *Engine) RemoveNode(id int) bool {
	for i, n := range e.nodes {
		if n.ID == id {
			e.nodes = append(e.nodes[:i], e.nodes[i+1:]...)
			e.normalizeAttention()
			return true
		}
	}
	return false
}

// Collapse zeroes the complex value of every node within radius 200 of
// (x, y), phase-shifts it by π and pushes it outward. A node exactly at the
// collapse point gets the reset but no directional push.
func (e *Engine) Collapse(x, y float64) {
	center := geometry.Vector2D{X: x, Y: y}
	for _, n := range e.nodes {
		away := n.Pos.Sub(center)
		distance := away.Len()
		if distance >= 200 {
			continue
		}

		n.ConsciousnessRe = 0
		n.ConsciousnessIm = 0
		n.Phase = math.Mod(n.Phase+math.Pi, 2*math.Pi)

		if distance > 0 {
			pushForce := (200 - distance) / 200 * 5
			n.Vel = n.Vel.Add(geometry.FromPolar(pushForce, away.Angle()))
		}
	}
}

// SetParams merges recognized parameter keys into the live configuration.
func (e *Engine) SetParams(updates map[string]float64) {
	e.params.Merge(updates)
}

// Params returns the current physics configuration.
func (e *Engine) Params() Params {
	return e.params
}

// SetMode switches the advisory visualization mode. Unrecognized tags are
// ignored; the return value reports whether the mode changed.
func (e *Engine) SetMode(mode string) bool {
	if !ValidMode(mode) {
		return false
	}
	e.mode = mode
	return true
}

// Mode returns the current advisory visualization mode.
func (e *Engine) Mode() string {
	return e.mode
}

// Time returns the accumulated simulation seconds.
func (e *Engine) Time() float64 {
	return e.time
}

// Stats recomputes the aggregate statistics for the current state without
// advancing it.
func (e *Engine) Stats() AggregateStats {
	return e.aggregate()
}

// NodeCount returns the current number of nodes.
func (e *Engine) NodeCount() int {
	return len(e.nodes)
}

// SetClock replaces the wall-clock source used by the wave pointer mode.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// normalizeAttention recomputes every node's Gaussian attention density and
// scales the field so it sums to 1. Runs at init and after every structural
// mutation, not per frame.
func (e *Engine) normalizeAttention() {
	total := 0.0
	for _, n := range e.nodes {
		n.Attention = n.AttentionDensity()
		total += n.Attention
	}
	if total <= 0 {
		return
	}
	for _, n := range e.nodes {
		n.Attention /= total
	}
}

// aggregate computes the resonance-weighted global consciousness value and
// the frame's summary statistics. Safe on an empty collection.
func (e *Engine) aggregate() AggregateStats {
	stats := AggregateStats{
		NodeCount:    len(e.nodes),
		ClusterCount: len(e.clusters),
		Time:         e.time,
	}
	if len(e.nodes) == 0 {
		return stats
	}

	var totalRe, totalIm, totalAttention, totalPhase float64
	for _, n := range e.nodes {
		weight := e.lambdas[n.UniverseID]
		totalRe += n.ConsciousnessRe * weight
		totalIm += n.ConsciousnessIm * weight
		totalAttention += n.Attention
		totalPhase += n.Phase
	}

	magnitude := math.Hypot(totalRe, totalIm)
	count := float64(len(e.nodes))
	stats.ConsciousnessMagnitude = magnitude
	stats.GlobalResonance = magnitude / count
	stats.AverageAttention = totalAttention / count
	stats.AveragePhaseDegrees = math.Mod(totalPhase/count*180/math.Pi, 360)
	return stats
}
