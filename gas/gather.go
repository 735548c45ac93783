package gas

import (
	"github.com/graphblaze/gasket/device"
)

// Gather clears the per-vertex accumulator, then runs the edge-parallel
// gather kernel over every shard with active vertices. Shards may compute
// concurrently: destinations are partitioned by shard, so their writes into
// gatherTmp never collide.
func (e *Engine[V, E, G]) Gather() {
	if e.opts.NoGather || e.nActive == 0 {
		return
	}
	device.FillSlice(e.ctx, e.gatherTmp, e.prog.GatherZero())
	e.forEachActiveShard(e.gatherShard,
		e.hasEdgeData && e.opts.SortEdgesForGather,  // the slot holds the stored (CSC) slice
		e.hasEdgeData && !e.opts.SortEdgesForGather) // in-place access through the cross-view index
}

// gatherShard expands the shard's active vertices into one work item per
// in-edge, maps each edge, and reduces by destination into the global
// accumulator. An in-degree-0 vertex expands to one virtual item so that
// every active destination appears in the reduction and receives the
// identity.
func (e *Engine[V, E, G]) gatherShard(k int, slot *shardSlot[E, G]) {
	base := e.plan.vertexShardMap[k]
	n := int(e.nActivePerShard[k])
	act := e.active[e.activeStart[k]:e.activeStart[k+1]]
	so := slot.srcOffsets

	total := e.ctx.ExclusiveScanFunc(n, func(i int) uint32 {
		a := act[i] - base
		if deg := so[a+1] - so[a]; deg > 0 {
			return deg
		}
		return 1
	}, slot.edgeCountScan)

	keys := slot.gatherKeys[:total]
	vals := slot.gatherVals[:total]
	zero := e.prog.GatherZero()
	e.ctx.LoadBalancedSearch(total, n, slot.edgeCountScan, func(seg, rank, out uint32) {
		dst := act[seg]
		a := dst - base
		keys[out] = dst
		if so[a+1] == so[a] {
			vals[out] = zero
			return
		}
		pos := so[a] + rank
		src := slot.srcs[pos]
		var edge *E
		if e.hasEdgeData {
			if e.opts.SortEdgesForGather {
				edge = &slot.edgeData[pos] // stored sequentially in gather order
			} else {
				edge = &e.edgeData[slot.edgeIndex[pos]] // indirect into the CSR-ordered store
			}
		}
		vals[out] = e.prog.GatherMap(&e.vertexData[src], &e.vertexData[dst], edge)
	})

	device.ReduceByKey(e.ctx, int(total), keys, vals, zero, e.prog.GatherReduce, e.gatherTmp)
}
