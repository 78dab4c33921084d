package analyzer

import (
	"image"
)

// Components partitions the true pixels of m into 4-connected clusters.
// Clusters are returned in raster-scan order of their first pixel.
func Components(m *Mask) []Cluster {
	visited := make([]bool, len(m.Bits))
	clusters := []Cluster{}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if m.Bits[i] && !visited[i] {
				clusters = append(clusters, floodFill(m, visited, x, y))
			}
		}
	}

	return clusters
}

// floodFill grows one cluster from (startX, startY). Pixels are marked
// visited when pushed, so each enters the stack once.
func floodFill(m *Mask, visited []bool, startX, startY int) Cluster {
	var points []image.Point

	visited[startY*m.Width+startX] = true
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		points = append(points, p)

		for _, n := range [4]image.Point{
			{X: p.X + 1, Y: p.Y},
			{X: p.X - 1, Y: p.Y},
			{X: p.X, Y: p.Y + 1},
			{X: p.X, Y: p.Y - 1},
		} {
			if !m.At(n.X, n.Y) {
				continue
			}
			i := n.Y*m.Width + n.X
			if visited[i] {
				continue
			}
			visited[i] = true
			stack = append(stack, n)
		}
	}

	return Cluster{Points: points}
}

// FindPrincipalCluster returns the largest cluster in m. Among equally large
// clusters the first in raster-scan order wins.
func FindPrincipalCluster(m *Mask) (Cluster, error) {
	return TieFirst.Principal(m)
}

// Principal returns the largest cluster in m, resolving size ties with t.
// A mask without true pixels yields ErrNoBoundary.
func (t TieBreak) Principal(m *Mask) (Cluster, error) {
	return t.Select(Components(m))
}

// Select picks the largest of already enumerated clusters.
func (t TieBreak) Select(clusters []Cluster) (Cluster, error) {
	if len(clusters) == 0 {
		return Cluster{}, ErrNoBoundary
	}

	best := 0
	for i := 1; i < len(clusters); i++ {
		size, bestSize := clusters[i].Size(), clusters[best].Size()
		if size > bestSize || (size == bestSize && t == TieLast) {
			best = i
		}
	}

	return clusters[best], nil
}
