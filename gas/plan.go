package gas

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/graphblaze/gasket/utils"
)

// shardPlan partitions [0, V) into contiguous vertex ranges whose combined
// in+out edge weight stays within the budget, and carries every derived
// table the per-shard kernels need.
type shardPlan struct {
	numShards int

	vertexShardMap  []uint32 // len K+1; shard k owns vertices [map[k], map[k+1])
	edgeShardMapCSC []uint32 // len K+1; prefix of in-edge counts
	edgeShardMapCSR []uint32 // len K+1; prefix of out-edge counts
	vertexToShard   []uint32 // len V

	// Rebased offset slices, packed: shard k's slice of length
	// |V_k|+1 starts at vertexShardMap[k]+k and starts at zero.
	srcOffsetsLocal []uint32 // len V+K
	dstOffsetsLocal []uint32 // len V+K

	maxVertices uint32
	maxEdgesCSC uint32
	maxEdgesCSR uint32
}

// planShards greedily grows each shard to the largest vertex range whose
// weight W[p]-W[prev] fits the budget; a vertex whose own weight exceeds the
// budget forms a singleton shard (never split).
func planShards(top *topology, edgeBudget uint32) (*shardPlan, error) {
	if edgeBudget == 0 {
		return nil, fmt.Errorf("%w: edge budget must be positive", ErrPlan)
	}
	nVertices := int(top.nVertices)
	plan := &shardPlan{}
	if nVertices == 0 {
		plan.vertexShardMap = []uint32{0}
		plan.edgeShardMapCSC = []uint32{0}
		plan.edgeShardMapCSR = []uint32{0}
		return plan, nil
	}

	// Combined weight prefix: W[v] = total in+out degree of vertices [0, v).
	weightScan := make([]uint64, nVertices+1)
	for v := 0; v < nVertices; v++ {
		w := uint64(top.srcOffsets[v+1]-top.srcOffsets[v]) + uint64(top.dstOffsets[v+1]-top.dstOffsets[v])
		weightScan[v+1] = weightScan[v] + w
	}

	boundaries := []uint32{0}
	for prev := 0; prev < nVertices; {
		p := utils.UpperBound(weightScan, weightScan[prev]+uint64(edgeBudget)) - 1
		if p <= prev {
			p = prev + 1 // single vertex heavier than the budget
		}
		if p > nVertices {
			p = nVertices
		}
		boundaries = append(boundaries, uint32(p))
		prev = p
	}

	plan.numShards = len(boundaries) - 1
	plan.vertexShardMap = boundaries
	plan.edgeShardMapCSC = make([]uint32, plan.numShards+1)
	plan.edgeShardMapCSR = make([]uint32, plan.numShards+1)
	for k, b := range boundaries {
		plan.edgeShardMapCSC[k] = top.srcOffsets[b]
		plan.edgeShardMapCSR[k] = top.dstOffsets[b]
	}

	plan.vertexToShard = make([]uint32, nVertices)
	plan.srcOffsetsLocal = make([]uint32, nVertices+plan.numShards)
	plan.dstOffsetsLocal = make([]uint32, nVertices+plan.numShards)
	for k := 0; k < plan.numShards; k++ {
		v0, v1 := plan.vertexShardMap[k], plan.vertexShardMap[k+1]
		plan.maxVertices = utils.Max(plan.maxVertices, v1-v0)
		plan.maxEdgesCSC = utils.Max(plan.maxEdgesCSC, plan.edgeShardMapCSC[k+1]-plan.edgeShardMapCSC[k])
		plan.maxEdgesCSR = utils.Max(plan.maxEdgesCSR, plan.edgeShardMapCSR[k+1]-plan.edgeShardMapCSR[k])

		base := v0 + uint32(k)
		for j := uint32(0); j <= v1-v0; j++ {
			plan.srcOffsetsLocal[base+j] = top.srcOffsets[v0+j] - plan.edgeShardMapCSC[k]
			plan.dstOffsetsLocal[base+j] = top.dstOffsets[v0+j] - plan.edgeShardMapCSR[k]
		}
		for v := v0; v < v1; v++ {
			plan.vertexToShard[v] = uint32(k)
		}
	}

	log.Debug().Msg(utils.V(plan.numShards) + " shards made (budget " + utils.V(edgeBudget) +
		", max vertices " + utils.V(plan.maxVertices) +
		", max edges csc/csr " + utils.V(plan.maxEdgesCSC) + "/" + utils.V(plan.maxEdgesCSR) + ")")
	return plan, nil
}

// localSrcOffsets gives shard k's rebased CSC offsets, length |V_k|+1.
func (p *shardPlan) localSrcOffsets(k int) []uint32 {
	base := p.vertexShardMap[k] + uint32(k)
	n := p.vertexShardMap[k+1] - p.vertexShardMap[k]
	return p.srcOffsetsLocal[base : base+n+1]
}

// localDstOffsets gives shard k's rebased CSR offsets, length |V_k|+1.
func (p *shardPlan) localDstOffsets(k int) []uint32 {
	base := p.vertexShardMap[k] + uint32(k)
	n := p.vertexShardMap[k+1] - p.vertexShardMap[k]
	return p.dstOffsetsLocal[base : base+n+1]
}
