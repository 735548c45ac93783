package gas

import (
	"fmt"
)

// topology holds both traversal views of the (immutable) graph structure.
// The CSC view lists each destination's sources; the CSR view lists each
// source's destinations. permCSC[p] / permCSR[p] give the edge-list index of
// the edge at position p of the respective view, so either view can be
// unsorted back to the caller's order.
type topology struct {
	nVertices uint32
	nEdges    uint32

	srcOffsets []uint32 // len V+1
	srcs       []uint32 // len E, CSC adjacency (source ids)
	permCSC    []uint32 // len E

	dstOffsets []uint32 // len V+1
	dsts       []uint32 // len E, CSR adjacency (destination ids)
	permCSR    []uint32 // len E
}

// buildTopology counting-sorts the edge list into both views. Edges of a
// vertex keep edge-list order within their run (the sort is stable).
func buildTopology(nVertices uint32, edgeSrcs, edgeDsts []uint32) (*topology, error) {
	if len(edgeSrcs) != len(edgeDsts) {
		return nil, fmt.Errorf("%w: %d srcs vs %d dsts", ErrIngest, len(edgeSrcs), len(edgeDsts))
	}
	nEdges := uint32(len(edgeSrcs))
	for i := range edgeSrcs {
		if edgeSrcs[i] >= nVertices || edgeDsts[i] >= nVertices {
			return nil, fmt.Errorf("%w: edge %d (%d -> %d) outside [0, %d)", ErrIngest, i, edgeSrcs[i], edgeDsts[i], nVertices)
		}
	}

	top := &topology{
		nVertices:  nVertices,
		nEdges:     nEdges,
		srcOffsets: make([]uint32, nVertices+1),
		srcs:       make([]uint32, nEdges),
		permCSC:    make([]uint32, nEdges),
		dstOffsets: make([]uint32, nVertices+1),
		dsts:       make([]uint32, nEdges),
		permCSR:    make([]uint32, nEdges),
	}

	fillView(top.srcOffsets, top.srcs, top.permCSC, edgeDsts, edgeSrcs)
	fillView(top.dstOffsets, top.dsts, top.permCSR, edgeSrcs, edgeDsts)
	return top, nil
}

// fillView builds one view: offsets indexed by keys, adjacency holding vals.
func fillView(offsets, adjacency, perm []uint32, keys, vals []uint32) {
	for _, k := range keys {
		offsets[k+1]++
	}
	for v := 1; v < len(offsets); v++ {
		offsets[v] += offsets[v-1]
	}
	cursor := make([]uint32, len(offsets)-1)
	for i := range keys {
		pos := offsets[keys[i]] + cursor[keys[i]]
		cursor[keys[i]]++
		adjacency[pos] = vals[i]
		perm[pos] = uint32(i)
	}
}

// crossViewIndex composes the two per-view permutations into a single
// mapping: from a position in the `from` view to the same edge's position in
// the `to` view.
func crossViewIndex(fromPerm, toPerm []uint32) []uint32 {
	inv := make([]uint32, len(toPerm))
	for pos, orig := range toPerm {
		inv[orig] = uint32(pos)
	}
	out := make([]uint32, len(fromPerm))
	for pos, orig := range fromPerm {
		out[pos] = inv[orig]
	}
	return out
}
