package lattice

import (
	"math"

	"github.com/Jacobcdsmith/CONSIM/pkg/geometry"
)

// Cluster linkage thresholds: spatial proximity, phase alignment and
// frequency compatibility must all hold for two nodes to be connected.
const (
	clusterProximity     = 80.0
	clusterPhaseDiffMax  = 0.5
	clusterFreqRatioMin  = 0.7
	clusterMinMembership = 3
)

// Cluster is a connected component of phase/frequency-aligned nodes.
// Clusters carry no identity across frames; the whole set is rebuilt on
// every step. RecursionDepth and ComplexityScore are wire placeholders.
type Cluster struct {
	ID              int
	NodeIDs         []int
	Center          geometry.Vector2D
	RecursionDepth  int
	ComplexityScore float64
}

func clusterLinked(a, b *Node) bool {
	if a.Pos.DistanceTo(b.Pos) >= clusterProximity {
		return false
	}
	if math.Abs(math.Sin(a.Phase-b.Phase)) >= clusterPhaseDiffMax {
		return false
	}
	ratio := math.Min(a.Frequency, b.Frequency) / math.Max(math.Max(a.Frequency, b.Frequency), 0.001)
	return ratio > clusterFreqRatioMin
}

// detectClusters rebuilds the cluster partition from scratch: breadth-first
// traversal over the linkage relation, starting from each unvisited node in
// collection order. Components below the minimum size stay unclustered.
// Every node's ClusterID is reassigned (-1 when unclustered).
func detectClusters(nodes []*Node) []*Cluster {
	for _, n := range nodes {
		n.ClusterID = -1
	}

	clusters := []*Cluster{}
	visited := make([]bool, len(nodes))

	for i := range nodes {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []int{i}
		queue := []int{i}

		for len(queue) > 0 {
			current := nodes[queue[0]]
			queue = queue[1:]

			for j, candidate := range nodes {
				if visited[j] {
					continue
				}
				if clusterLinked(current, candidate) {
					visited[j] = true
					members = append(members, j)
					queue = append(queue, j)
				}
			}
		}

		if len(members) < clusterMinMembership {
			continue
		}

		cluster := &Cluster{
			ID:      len(clusters),
			NodeIDs: make([]int, 0, len(members)),
		}
		var centroid geometry.Vector2D
		for _, idx := range members {
			n := nodes[idx]
			n.ClusterID = cluster.ID
			cluster.NodeIDs = append(cluster.NodeIDs, n.ID)
			centroid = centroid.Add(n.Pos)
		}
		cluster.Center = centroid.Mul(1 / float64(len(members)))
		clusters = append(clusters, cluster)
	}

	return clusters
}
