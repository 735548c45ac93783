package main

import (
	"math"
)

const DAMPINGFACTOR = float64(0.85)

type VertexProperty struct {
	Rank   float64
	OutDeg uint32
}

// PageRank folds incoming rank shares and re-damps; a vertex keeps its
// neighbourhood active while its own rank is still moving by more than the
// tolerance.
type PageRank struct {
	NumVertices float64
	Tolerance   float64
}

func (*PageRank) GatherZero() float64 {
	return 0
}

func (*PageRank) GatherMap(src *VertexProperty, _ *VertexProperty, _ *struct{}) float64 {
	return src.Rank / float64(src.OutDeg)
}

func (*PageRank) GatherReduce(a, b float64) float64 {
	return a + b
}

func (pr *PageRank) Apply(v *VertexProperty, sum float64) bool {
	next := (1.0-DAMPINGFACTOR)/pr.NumVertices + DAMPINGFACTOR*sum
	changed := math.Abs(next-v.Rank) > pr.Tolerance
	v.Rank = next
	return changed
}
