package device

import "github.com/graphblaze/gasket/utils"

// LoadBalancedSearch distributes total output slots evenly across workers
// and resolves each slot t to its (segment, rank) coordinate against the
// monotone exclusive scan: seg is the largest index with scan[seg] <= t, and
// rank = t - scan[seg]. scan must have at least one entry per segment plus
// the total at the end (the ExclusiveScanFunc layout).
//
// Each worker binary-searches the segment covering its first slot, then
// walks; this is the merge-path pattern. Work per worker is proportional to
// its slot share, not to the skew of the segment sizes.
func (c *Context) LoadBalancedSearch(total uint32, nSegs int, scan []uint32, visit func(seg uint32, rank uint32, out uint32)) {
	if total == 0 || nSegs == 0 {
		return
	}
	c.ParallelFor(int(total), func(_, lo, hi int) {
		seg := utils.UpperBound(scan[:nSegs], uint32(lo)) - 1
		for t := uint32(lo); t < uint32(hi); {
			for seg+1 < nSegs && scan[seg+1] <= t {
				seg++
			}
			visit(uint32(seg), t-scan[seg], t)
			t++
		}
	})
}
