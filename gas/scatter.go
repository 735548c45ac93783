package gas

import (
	"sync/atomic"

	"github.com/graphblaze/gasket/device"
)

// ScatterActivate flags the out-neighbourhoods of every vertex whose Apply
// asked for activation (phase A, per shard), then compacts the flag array
// into the next frontier (phase B, global).
//
// activeFlags is shared by all shards because out-edges cross shard
// boundaries. Every writer stores the same constant, so overlap between
// shard kernels is harmless; the stores are atomic to make that explicit to
// the memory model.
func (e *Engine[V, E, G]) ScatterActivate() {
	device.FillSlice(e.ctx, e.activeFlags, 0)
	if !e.opts.NoScatter && e.nActive > 0 {
		e.forEachActiveShard(e.scatterShard,
			e.hasEdgeData && !e.opts.SortEdgesForGather,               // the slot holds the stored (CSR) slice
			e.hasEdgeData && e.opts.SortEdgesForGather && e.hook != nil) // hook writes through the cross-view index
	}
	e.compactActiveFrontier()
}

// scatterShard expands the shard's activating vertices into their out-edges
// (vertices whose Apply declined contribute zero width) and sets the flag of
// every reached destination. Destination ids in the CSR adjacency are
// global, so the flag writes may land in any shard's range.
func (e *Engine[V, E, G]) scatterShard(k int, slot *shardSlot[E, G]) {
	base := e.plan.vertexShardMap[k]
	n := int(e.nActivePerShard[k])
	act := e.active[e.activeStart[k]:e.activeStart[k+1]]
	do := slot.dstOffsets

	total := e.ctx.ExclusiveScanFunc(n, func(i int) uint32 {
		if e.applyRet[act[i]] == 0 {
			return 0
		}
		a := act[i] - base
		return do[a+1] - do[a]
	}, slot.edgeCountScan)
	if total == 0 {
		return
	}

	if e.hook == nil {
		e.ctx.IntervalGather(total, n, slot.edgeCountScan,
			func(seg uint32) uint32 { return do[act[seg]-base] },
			slot.dsts,
			func(_, dst uint32) { atomic.StoreUint32(&e.activeFlags[dst], 1) })
		return
	}

	e.ctx.LoadBalancedSearch(total, n, slot.edgeCountScan, func(seg, rank, _ uint32) {
		src := act[seg]
		pos := do[src-base] + rank
		dst := slot.dsts[pos]
		atomic.StoreUint32(&e.activeFlags[dst], 1)
		var edge *E
		if e.hasEdgeData {
			if e.opts.SortEdgesForGather {
				edge = &e.edgeData[slot.edgeIndex[pos]] // indirect into the CSC-ordered store
			} else {
				edge = &slot.edgeData[pos]
			}
		}
		e.hook.Scatter(&e.vertexData[src], &e.vertexData[dst], edge)
	})
}

// compactActiveFrontier rebuilds the canonical frontier from activeFlags:
// a scan within each shard's vertex range sizes the shard's slice of the
// next list, then a two-phase compact over the whole array produces the
// ascending global indices, which are already shard-grouped because shard
// ranges are contiguous.
func (e *Engine[V, E, G]) compactActiveFrontier() {
	for k := 0; k < e.plan.numShards; k++ {
		v0, v1 := e.plan.vertexShardMap[k], e.plan.vertexShardMap[k+1]
		e.nActivePerShard[k] = e.ctx.ExclusiveScan(e.activeFlags[v0:v1], e.flagScanTmp[:v1-v0+1])
	}
	e.nActive = e.ctx.CompactIndices(e.activeFlags, e.activeNext)
	device.CopySlice(e.ctx, e.active[:e.nActive], e.activeNext[:e.nActive])
	e.rebuildActiveStart()

	if e.opts.DebugLevel >= 3 {
		e.checkFrontierInvariants()
	}
}
