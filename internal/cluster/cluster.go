// Package cluster partitions the neuron population into connected components
// of the proximity graph and computes per-cluster aggregates. Clusters are
// the unit the oracle reads transformations from and the unit diversity
// pressure acts on.
package cluster

import (
	"math"
	"sort"

	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/vec"
)

// Cluster is one connected component with its aggregate observables.
type Cluster struct {
	// Members are indices into the store's neuron slice.
	Members []int

	Centroid     vec.V3
	MeanVelocity vec.V3

	// AngularMomentum is the total L about the centroid, mass-weighted.
	AngularMomentum vec.V3

	// Coherence is the fraction of members whose velocity points within
	// 90° of the mean velocity. A coherent stream scores near 1, a hot
	// blob near 0.5.
	Coherence float64

	TotalMass       float64
	TotalLuminosity float64

	// Extent is the maximum member distance from the centroid.
	Extent float64
}

func (c *Cluster) Size() int { return len(c.Members) }

// Find partitions the population into connected components using the given
// linking radius. Components are returned largest first; singletons are
// included.
func Find(store *particle.Store, radius float64) []Cluster {
	neurons := store.Neurons
	n := len(neurons)
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	var clusters []Cluster

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		members := flood(neurons, start, radius, visited)
		clusters = append(clusters, aggregate(neurons, members))
	}

	sort.Slice(clusters, func(i, j int) bool {
		return len(clusters[i].Members) > len(clusters[j].Members)
	})
	return clusters
}

// Memberships flattens a cluster list to index slices, for callers that
// only need the partition.
func Memberships(clusters []Cluster) [][]int {
	out := make([][]int, len(clusters))
	for i := range clusters {
		out[i] = clusters[i].Members
	}
	return out
}

// flood walks one component depth first. The stack-based walk avoids
// recursion depth limits on large blobs.
func flood(neurons []particle.Neuron, start int, radius float64, visited []bool) []int {
	var members []int
	stack := []int{start}
	visited[start] = true

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members = append(members, i)

		for j := range neurons {
			if visited[j] {
				continue
			}
			if vec.Dist(neurons[i].Position, neurons[j].Position) < radius {
				visited[j] = true
				stack = append(stack, j)
			}
		}
	}

	sort.Ints(members)
	return members
}

func aggregate(neurons []particle.Neuron, members []int) Cluster {
	c := Cluster{Members: members}
	count := float64(len(members))

	for _, i := range members {
		c.Centroid = c.Centroid.Add(neurons[i].Position)
		c.MeanVelocity = c.MeanVelocity.Add(neurons[i].Velocity)
		c.TotalMass += neurons[i].Mass
		c.TotalLuminosity += neurons[i].Luminosity
	}
	c.Centroid = c.Centroid.Scale(1 / count)
	c.MeanVelocity = c.MeanVelocity.Scale(1 / count)

	aligned := 0
	for _, i := range members {
		r := neurons[i].Position.Sub(c.Centroid)
		p := neurons[i].Velocity.Scale(neurons[i].Mass)
		c.AngularMomentum = c.AngularMomentum.Add(r.Cross(p))

		if d := r.Norm(); d > c.Extent {
			c.Extent = d
		}
		if neurons[i].Velocity.Dot(c.MeanVelocity) > 0 {
			aligned++
		}
	}
	c.Coherence = float64(aligned) / count

	return c
}

// Largest returns the biggest cluster, or nil for an empty population.
func Largest(clusters []Cluster) *Cluster {
	if len(clusters) == 0 {
		return nil
	}
	return &clusters[0]
}

// SpinRate is the magnitude of the cluster's angular velocity about its
// dominant axis, estimated as |L| / (m·r²) with r the RMS member radius.
// Returns 0 for point-like clusters.
func (c *Cluster) SpinRate(neurons []particle.Neuron) float64 {
	if len(c.Members) < 2 || c.TotalMass == 0 {
		return 0
	}

	sumR2 := 0.0
	for _, i := range c.Members {
		r := neurons[i].Position.Sub(c.Centroid)
		sumR2 += neurons[i].Mass * r.Dot(r)
	}
	if sumR2 < 1e-12 {
		return 0
	}

	return c.AngularMomentum.Norm() / sumR2
}

// Entropy measures how evenly mass is spread across clusters, normalized
// to [0, 1]. One dominant blob scores near 0, an even partition near 1.
func Entropy(clusters []Cluster) float64 {
	if len(clusters) < 2 {
		return 0
	}

	total := 0.0
	for i := range clusters {
		total += clusters[i].TotalMass
	}
	if total == 0 {
		return 0
	}

	h := 0.0
	for i := range clusters {
		p := clusters[i].TotalMass / total
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h / math.Log(float64(len(clusters)))
}
