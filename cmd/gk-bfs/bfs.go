package main

import (
	"math"

	"github.com/graphblaze/gasket/utils"
)

const UNREACHED = int32(math.MaxInt32)

type VertexProperty struct {
	Depth int32
	Seen  bool
}

// BFS propagates min(parent depth + 1) along in-edges. The seed has its
// depth preset and fans out on its first visit; every other vertex settles
// the first time a finite depth reaches it.
type BFS struct{}

func (*BFS) GatherZero() int32 {
	return UNREACHED
}

func (*BFS) GatherMap(src *VertexProperty, _ *VertexProperty, _ *struct{}) int32 {
	if src.Depth < 0 {
		return UNREACHED
	}
	return src.Depth + 1
}

func (*BFS) GatherReduce(a, b int32) int32 {
	return utils.Min(a, b)
}

func (*BFS) Apply(v *VertexProperty, depth int32) bool {
	if depth != UNREACHED && (v.Depth < 0 || depth < v.Depth) {
		v.Depth = depth
		v.Seen = true
		return true
	}
	if v.Depth >= 0 && !v.Seen {
		v.Seen = true
		return true
	}
	return false
}
