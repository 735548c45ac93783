package gas

import (
	"github.com/graphblaze/gasket/device"
)

// shardSlot is one resident shard frame: its own copies of the shard's cold
// payload (rebased offsets, adjacency, edge state, cross-view edge index)
// plus kernel scratch, and a compute lane. The hot globals (vertex state,
// active list, applyRet, activeFlags, gatherTmp) are never copied here; the
// kernels alias them through the engine at shard offsets.
type shardSlot[E, G any] struct {
	compute *device.Stream

	shard     int // currently staged shard
	nVertices uint32
	nEdgesCSC uint32
	nEdgesCSR uint32
	staged    *device.Event

	srcOffsets []uint32 // local CSC offsets, nVertices+1
	srcs       []uint32 // global source ids
	dstOffsets []uint32 // local CSR offsets, nVertices+1
	dsts       []uint32 // global destination ids
	edgeData   []E      // stored-order slice of the shard's edge state
	edgeIndex  []uint32 // stored position of each edge of the other view

	edgeCountScan []uint32 // nVertices+1
	gatherKeys    []uint32 // up to nEdgesCSC+nVertices (virtual sink edges)
	gatherVals    []G
}

// slotPool streams shard payloads between the host-side arrays and a small
// fixed set of slots, using dedicated copy lanes so the pieces of one stage
// transfer concurrently and a stage can overlap another slot's compute.
type slotPool[E, G any] struct {
	slots     []*shardSlot[E, G]
	copyLanes []*device.Stream
}

const numCopyLanes = 4

func newSlotPool[E, G any](numSlots int, plan *shardPlan, hasEdgeData bool, sortEdgesForGather bool) *slotPool[E, G] {
	pool := &slotPool[E, G]{}
	edgeStateCap := plan.maxEdgesCSC
	if !sortEdgesForGather {
		edgeStateCap = plan.maxEdgesCSR
	}
	indexCap := plan.maxEdgesCSR
	if !sortEdgesForGather {
		indexCap = plan.maxEdgesCSC
	}
	for i := 0; i < numSlots; i++ {
		slot := &shardSlot[E, G]{
			compute:       device.NewStream(),
			shard:         -1,
			srcOffsets:    make([]uint32, plan.maxVertices+1),
			srcs:          make([]uint32, plan.maxEdgesCSC),
			dstOffsets:    make([]uint32, plan.maxVertices+1),
			dsts:          make([]uint32, plan.maxEdgesCSR),
			edgeCountScan: make([]uint32, plan.maxVertices+1),
			gatherKeys:    make([]uint32, plan.maxEdgesCSC+plan.maxVertices),
			gatherVals:    make([]G, plan.maxEdgesCSC+plan.maxVertices),
		}
		if hasEdgeData {
			slot.edgeData = make([]E, edgeStateCap)
			slot.edgeIndex = make([]uint32, indexCap)
		}
		pool.slots = append(pool.slots, slot)
	}
	for i := 0; i < numCopyLanes; i++ {
		pool.copyLanes = append(pool.copyLanes, device.NewStream())
	}
	return pool
}

func (p *slotPool[E, G]) free() {
	for _, s := range p.slots {
		s.compute.Sync()
		s.compute.Close()
	}
	for _, l := range p.copyLanes {
		l.Close()
	}
}

// stage launches the copies of shard k's cold payload onto the copy lanes
// and records an event the slot's compute must wait on. The caller must have
// drained the slot first (its previous occupant's compute and eviction).
func (e *Engine[V, E, G]) stage(k int, slot *shardSlot[E, G]) {
	plan := e.plan
	slot.shard = k
	slot.nVertices = plan.vertexShardMap[k+1] - plan.vertexShardMap[k]
	slot.nEdgesCSC = plan.edgeShardMapCSC[k+1] - plan.edgeShardMapCSC[k]
	slot.nEdgesCSR = plan.edgeShardMapCSR[k+1] - plan.edgeShardMapCSR[k]

	copies := []func(){
		func() { copy(slot.srcOffsets, plan.localSrcOffsets(k)) },
		func() { copy(slot.srcs, e.top.srcs[plan.edgeShardMapCSC[k]:plan.edgeShardMapCSC[k+1]]) },
		func() { copy(slot.dstOffsets, plan.localDstOffsets(k)) },
		func() { copy(slot.dsts, e.top.dsts[plan.edgeShardMapCSR[k]:plan.edgeShardMapCSR[k+1]]) },
	}
	if e.hasEdgeData {
		if e.opts.SortEdgesForGather {
			copies = append(copies,
				func() { copy(slot.edgeData, e.edgeData[plan.edgeShardMapCSC[k]:plan.edgeShardMapCSC[k+1]]) },
				func() { copy(slot.edgeIndex, e.edgeIndex[plan.edgeShardMapCSR[k]:plan.edgeShardMapCSR[k+1]]) })
		} else {
			copies = append(copies,
				func() { copy(slot.edgeData, e.edgeData[plan.edgeShardMapCSR[k]:plan.edgeShardMapCSR[k+1]]) },
				func() { copy(slot.edgeIndex, e.edgeIndex[plan.edgeShardMapCSC[k]:plan.edgeShardMapCSC[k+1]]) })
		}
	}

	ev := device.NewEvent(len(copies))
	slot.staged = ev
	for i, c := range copies {
		c := c
		e.pool.copyLanes[i%numCopyLanes].Launch(func() { c(); ev.Signal() })
	}
}

// evict launches the mutated edge-state write-back on the slot's compute
// lane; lane order guarantees it happens after the staged kernels.
func (e *Engine[V, E, G]) evict(slot *shardSlot[E, G]) {
	if !e.hasEdgeData {
		return
	}
	k := slot.shard
	slot.compute.Launch(func() {
		if e.opts.SortEdgesForGather {
			copy(e.edgeData[e.plan.edgeShardMapCSC[k]:e.plan.edgeShardMapCSC[k+1]], slot.edgeData[:slot.nEdgesCSC])
		} else {
			copy(e.edgeData[e.plan.edgeShardMapCSR[k]:e.plan.edgeShardMapCSR[k+1]], slot.edgeData[:slot.nEdgesCSR])
		}
	})
}
