package lattice

// Wire-shaped state. Field names are a compatibility contract with the
// browser visualizer; renaming any json tag breaks existing consumers.

// EntitySnapshot is the serializable view of one node.
type EntitySnapshot struct {
	ID                 int     `json:"id"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Radius             float64 `json:"radius"`
	Frequency          float64 `json:"frequency"`
	Phase              float64 `json:"phase"`
	Attention          float64 `json:"attention"`
	ConsciousnessRe    float64 `json:"consciousness_re"`
	ConsciousnessIm    float64 `json:"consciousness_im"`
	GroupID            int     `json:"group_id"`
	ClusterID          int     `json:"cluster_id"`
	ConsciousnessDepth float64 `json:"consciousness_depth"`
	SelfAwareness      float64 `json:"self_awareness"`
	ThoughtIntensity   float64 `json:"thought_intensity"`
	RecursionLevel     int     `json:"recursion_level"`
}

// GroupSnapshot is the serializable view of one universe, with its derived
// membership count.
type GroupSnapshot struct {
	ID             int     `json:"id"`
	CenterX        float64 `json:"center_x"`
	CenterY        float64 `json:"center_y"`
	Radius         float64 `json:"radius"`
	ResonanceCoeff float64 `json:"resonance_coeff"`
	EntityCount    int     `json:"entity_count"`
}

// ClusterSnapshot is the serializable view of one cluster.
type ClusterSnapshot struct {
	ID              int     `json:"id"`
	NodeIDs         []int   `json:"node_ids"`
	CenterX         float64 `json:"center_x"`
	CenterY         float64 `json:"center_y"`
	RecursionDepth  int     `json:"recursion_depth"`
	ComplexityScore float64 `json:"complexity_score"`
}

// AggregateStats is the per-frame global summary.
type AggregateStats struct {
	ConsciousnessMagnitude float64 `json:"consciousness_magnitude"`
	GlobalResonance        float64 `json:"global_resonance"`
	AverageAttention       float64 `json:"average_attention"`
	AveragePhaseDegrees    float64 `json:"average_phase_degrees"`
	NodeCount              int     `json:"node_count"`
	ClusterCount           int     `json:"cluster_count"`
	Time                   float64 `json:"time"`
}

// LatticeSnapshot is the full serializable lattice state streamed to clients.
type LatticeSnapshot struct {
	Entities         []EntitySnapshot  `json:"entities"`
	Groups           []GroupSnapshot   `json:"groups"`
	Clusters         []ClusterSnapshot `json:"clusters"`
	GlobalStats      AggregateStats    `json:"global_stats"`
	Mode             string            `json:"mode"`
	Params           Params            `json:"params"`
	ResonanceWeights []float64         `json:"resonance_weights"`
	Time             float64           `json:"time"`
}

func snapshotNode(n *Node) EntitySnapshot {
	return EntitySnapshot{
		ID:                 n.ID,
		X:                  n.Pos.X,
		Y:                  n.Pos.Y,
		Radius:             n.Radius,
		Frequency:          n.Frequency,
		Phase:              n.Phase,
		Attention:          n.Attention,
		ConsciousnessRe:    n.ConsciousnessRe,
		ConsciousnessIm:    n.ConsciousnessIm,
		GroupID:            n.UniverseID,
		ClusterID:          n.ClusterID,
		ConsciousnessDepth: n.ConsciousnessDepth,
		SelfAwareness:      n.SelfAwareness,
		ThoughtIntensity:   n.ThoughtIntensity,
		RecursionLevel:     n.RecursionLevel,
	}
}

// Snapshot returns the full serializable state. Read-only, no side effects.
func (e *Engine) Snapshot() LatticeSnapshot {
	snap := LatticeSnapshot{
		Entities:         make([]EntitySnapshot, 0, len(e.nodes)),
		Groups:           make([]GroupSnapshot, 0, len(e.universes)),
		Clusters:         make([]ClusterSnapshot, 0, len(e.clusters)),
		GlobalStats:      e.aggregate(),
		Mode:             e.mode,
		Params:           e.params,
		ResonanceWeights: append([]float64(nil), e.lambdas...),
		Time:             e.time,
	}

	memberCounts := make([]int, len(e.universes))
	for _, n := range e.nodes {
		snap.Entities = append(snap.Entities, snapshotNode(n))
		if n.UniverseID >= 0 && n.UniverseID < len(memberCounts) {
			memberCounts[n.UniverseID]++
		}
	}

	for i, u := range e.universes {
		snap.Groups = append(snap.Groups, GroupSnapshot{
			ID:             u.ID,
			CenterX:        u.Center.X,
			CenterY:        u.Center.Y,
			Radius:         u.Radius,
			ResonanceCoeff: u.ResonanceCoeff,
			EntityCount:    memberCounts[i],
		})
	}

	for _, c := range e.clusters {
		snap.Clusters = append(snap.Clusters, ClusterSnapshot{
			ID:              c.ID,
			NodeIDs:         append([]int(nil), c.NodeIDs...),
			CenterX:         c.Center.X,
			CenterY:         c.Center.Y,
			RecursionDepth:  c.RecursionDepth,
			ComplexityScore: c.ComplexityScore,
		})
	}

	return snap
}
