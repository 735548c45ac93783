package gas

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/graphblaze/gasket/device"
	"github.com/graphblaze/gasket/utils"
)

type Options struct {
	EdgeBudget         uint32 // Max combined in+out edges per shard. 0 picks one shard for the whole graph.
	NumSlots           int    // Resident shard slots; at least 2 for copy/compute overlap. Default 2.
	NumWorkers         int    // Kernel parallelism. Default NumCPU.
	SortEdgesForGather bool   // Edge state stored in gather (CSC) order; scatter indirects. Default true (see DefaultOptions).
	NoGather           bool   // Program opts out of the gather phase.
	NoScatter          bool   // Program opts out of scatter; the frontier then empties after one iteration unless driven manually.
	DebugLevel         uint8  // >=3 verifies frontier invariants after every rebuild.
}

func DefaultOptions() Options {
	return Options{NumSlots: 2, SortEdgesForGather: true}
}

// Engine runs a vertex program over a sharded graph: shards stream through a
// small slot pool and each iteration gathers per shard, applies over the
// active frontier, then scatter-activates per shard and rebuilds the
// frontier, until it is empty.
type Engine[V, E, G any] struct {
	opts Options
	prog Program[V, E, G]
	hook ScatterProgram[V, E, G] // nil unless the program has the scatter hook

	ctx  *device.Context
	top  *topology
	plan *shardPlan
	pool *slotPool[E, G]

	// Caller-owned storage, written back by GetResults.
	hostVertexData []V
	hostEdgeData   []E

	// Engine-resident state.
	vertexData  []V
	edgeData    []E      // stored order (CSC if SortEdgesForGather, else CSR)
	edgeIndex   []uint32 // stored position of each edge of the other view
	hasEdgeData bool

	active          []uint32 // global ids, shard-grouped, ascending per shard
	activeNext      []uint32
	nActive         uint32
	nActivePerShard []uint32
	activeStart     []uint32 // prefix of nActivePerShard, len K+1
	applyRet        []uint8
	activeFlags     []uint32
	gatherTmp       []G
	flagScanTmp     []uint32

	iterations int
	watch      utils.Watch
}

func New[V, E, G any](prog Program[V, E, G], opts Options) *Engine[V, E, G] {
	if opts.NumSlots <= 0 {
		opts.NumSlots = 2
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	e := &Engine[V, E, G]{
		opts: opts,
		prog: prog,
		ctx:  device.NewContext(opts.NumWorkers),
	}
	e.hook, _ = prog.(ScatterProgram[V, E, G])
	return e
}

// SetGraph ingests the edge list, builds both traversal views, plans the
// shards, and moves vertex/edge state into engine-resident storage. The
// caller's slices are untouched until GetResults. vertexData may be nil (the
// engine zero-allocates); edgeData may be nil for stateless edges.
func (e *Engine[V, E, G]) SetGraph(nVertices uint32, vertexData []V, edgeSrcs, edgeDsts []uint32, edgeData []E) error {
	if vertexData != nil && uint32(len(vertexData)) != nVertices {
		return fmt.Errorf("%w: %d vertices with %d vertex states", ErrIngest, nVertices, len(vertexData))
	}
	if edgeData != nil && len(edgeData) != len(edgeSrcs) {
		return fmt.Errorf("%w: %d edges with %d edge states", ErrIngest, len(edgeSrcs), len(edgeData))
	}

	top, err := buildTopology(nVertices, edgeSrcs, edgeDsts)
	if err != nil {
		return err
	}
	e.top = top

	budget := e.opts.EdgeBudget
	if budget == 0 {
		budget = utils.Max(2*top.nEdges, 1) // whole graph in one shard
	}
	plan, err := planShards(top, budget)
	if err != nil {
		return err
	}
	e.plan = plan

	e.hostVertexData = vertexData
	e.vertexData = make([]V, nVertices)
	if vertexData != nil {
		copy(e.vertexData, vertexData)
	}

	e.hostEdgeData = edgeData
	e.hasEdgeData = edgeData != nil
	if e.hasEdgeData {
		// Sort edge state into the stored order, and keep the mapping from
		// the other view's positions into it.
		e.edgeData = make([]E, top.nEdges)
		if e.opts.SortEdgesForGather {
			for p, orig := range top.permCSC {
				e.edgeData[p] = edgeData[orig]
			}
			e.edgeIndex = crossViewIndex(top.permCSR, top.permCSC)
		} else {
			for p, orig := range top.permCSR {
				e.edgeData[p] = edgeData[orig]
			}
			e.edgeIndex = crossViewIndex(top.permCSC, top.permCSR)
		}
	}

	e.pool = newSlotPool[E, G](e.opts.NumSlots, plan, e.hasEdgeData, e.opts.SortEdgesForGather)

	e.active = make([]uint32, nVertices)
	e.activeNext = make([]uint32, nVertices)
	e.nActivePerShard = make([]uint32, plan.numShards)
	e.activeStart = make([]uint32, plan.numShards+1)
	e.applyRet = make([]uint8, nVertices)
	e.activeFlags = make([]uint32, nVertices)
	e.gatherTmp = make([]G, nVertices)
	e.flagScanTmp = make([]uint32, plan.maxVertices+1)
	device.FillSlice(e.ctx, e.gatherTmp, e.prog.GatherZero())

	e.ctx.LogProperties()
	return nil
}

// SetActive marks the vertex range [vStart, vEnd) as the frontier. The
// resulting list is trivially shard-grouped and ascending.
func (e *Engine[V, E, G]) SetActive(vStart, vEnd uint32) {
	if vEnd > e.top.nVertices || vStart > vEnd {
		log.Panic().Msg("SetActive range [" + utils.V(vStart) + ", " + utils.V(vEnd) + ") outside [0, " + utils.V(e.top.nVertices) + ")")
	}
	e.nActive = vEnd - vStart
	e.ctx.ParallelFor(int(e.nActive), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			e.active[i] = vStart + uint32(i)
		}
	})
	for k := 0; k < e.plan.numShards; k++ {
		s0 := utils.Max(vStart, e.plan.vertexShardMap[k])
		s1 := utils.Min(vEnd, e.plan.vertexShardMap[k+1])
		if s1 > s0 {
			e.nActivePerShard[k] = s1 - s0
		} else {
			e.nActivePerShard[k] = 0
		}
	}
	e.rebuildActiveStart()
}

func (e *Engine[V, E, G]) rebuildActiveStart() {
	for k := 0; k < e.plan.numShards; k++ {
		e.activeStart[k+1] = e.activeStart[k] + e.nActivePerShard[k]
	}
}

func (e *Engine[V, E, G]) CountActive() uint32 {
	return e.nActive
}

func (e *Engine[V, E, G]) NumShards() int {
	return e.plan.numShards
}

func (e *Engine[V, E, G]) Iterations() int {
	return e.iterations
}

// forEachActiveShard pipelines the shards with active vertices through the
// slot pool: drain the slot, stage asynchronously on the copy lanes, queue
// the kernel (which first awaits its staging) and the eviction on the slot's
// compute lane. Staging shard k+1 thereby overlaps computing shard k and
// evicting shard k-1; the trailing syncs are the phase barrier.
//
// evictEdges flushes the slot's edge-state copy back to the stored array
// after the kernel. Only the phase that reads the stored view sequentially
// may set it: the other phase mutates the stored array in place through the
// cross-view index, and a blind write-back of the stale slot copy would
// clobber those writes.
//
// serialize forces each shard's compute+evict to finish before the next
// shard starts. Required when the kernel reaches stored edge state through
// the cross-view index: those accesses land in other shards' stored slices,
// which a concurrent staging may be reading (or eviction rewriting).
func (e *Engine[V, E, G]) forEachActiveShard(kernel func(k int, slot *shardSlot[E, G]), evictEdges bool, serialize bool) {
	for k := 0; k < e.plan.numShards; k++ {
		if e.nActivePerShard[k] == 0 {
			continue
		}
		slot := e.pool.slots[k%len(e.pool.slots)]
		slot.compute.Sync()
		e.stage(k, slot)
		k := k
		slot.compute.Launch(func() {
			slot.staged.Wait()
			kernel(k, slot)
		})
		if evictEdges {
			e.evict(slot)
		}
		if serialize {
			slot.compute.Sync()
		}
	}
	for _, slot := range e.pool.slots {
		slot.compute.Sync()
	}
}

// NextIter closes the iteration and reports the size of the next frontier.
func (e *Engine[V, E, G]) NextIter() uint32 {
	e.iterations++
	return e.nActive
}

// Run drives the standard loop until the frontier is empty.
func (e *Engine[V, E, G]) Run() {
	e.watch.Start()
	for e.CountActive() > 0 {
		log.Debug().Msg("Iteration " + utils.V(e.iterations+1) + " nActive " + utils.V(e.nActive))
		e.Gather()
		e.Apply()
		e.ScatterActivate()
		e.NextIter()
	}
	log.Info().Msg("Iterations: " + utils.V(e.iterations) + " Termination: " + utils.V(e.watch.Elapsed().Milliseconds()) + " (ms)")
}

// GetResults copies the engine-resident vertex state back into the slice
// given to SetGraph (returned either way), and unsorts mutated edge state
// back into the caller's edge-list order.
func (e *Engine[V, E, G]) GetResults() []V {
	if e.hostVertexData != nil {
		copy(e.hostVertexData, e.vertexData)
	} else {
		e.hostVertexData = e.vertexData
	}
	if e.hasEdgeData && e.hostEdgeData != nil {
		perm := e.top.permCSC
		if !e.opts.SortEdgesForGather {
			perm = e.top.permCSR
		}
		for p, orig := range perm {
			e.hostEdgeData[orig] = e.edgeData[p]
		}
	}
	return e.hostVertexData
}

// Free tears down the slot pool's lanes. The engine is unusable afterwards.
func (e *Engine[V, E, G]) Free() {
	if e.pool != nil {
		e.pool.free()
		e.pool = nil
	}
}

// checkFrontierInvariants panics if the rebuilt frontier is not
// shard-grouped ascending or disagrees with the per-shard counts.
func (e *Engine[V, E, G]) checkFrontierInvariants() {
	total := uint32(0)
	for k := 0; k < e.plan.numShards; k++ {
		lo, hi := e.activeStart[k], e.activeStart[k+1]
		for i := lo; i < hi; i++ {
			v := e.active[i]
			if v < e.plan.vertexShardMap[k] || v >= e.plan.vertexShardMap[k+1] {
				log.Panic().Msg("active[" + utils.V(i) + "]=" + utils.V(v) + " outside shard " + utils.V(k))
			}
			if i > lo && e.active[i-1] >= v {
				log.Panic().Msg("active list not ascending within shard " + utils.V(k))
			}
		}
		total += e.nActivePerShard[k]
	}
	if total != e.nActive {
		log.Panic().Msg("nActive " + utils.V(e.nActive) + " != sum of per-shard counts " + utils.V(total))
	}
}
