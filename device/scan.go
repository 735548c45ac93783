package device

// ExclusiveScanFunc writes the exclusive prefix sum of f(0..n) into
// out[0..n] (out[n] holds the total, which is also returned). The counts are
// produced by the closure rather than a materialized array, so callers can
// scan derived quantities (degree of the i'th active vertex, predicated
// out-degree, ...) without a staging pass.
func (c *Context) ExclusiveScanFunc(n int, f func(i int) uint32, out []uint32) uint32 {
	workers, _ := c.workerRanges(n)
	if workers == 1 {
		total := uint32(0)
		for i := 0; i < n; i++ {
			out[i] = total
			total += f(i)
		}
		out[n] = total
		return total
	}

	// Two passes: per-block totals, serial block scan, then per-block fill.
	blockSums := make([]uint32, workers)
	c.ParallelFor(n, func(w, lo, hi int) {
		sum := uint32(0)
		for i := lo; i < hi; i++ {
			sum += f(i)
		}
		blockSums[w] = sum
	})
	running := uint32(0)
	for w := 0; w < workers; w++ {
		blockSums[w], running = running, running+blockSums[w]
	}
	c.ParallelFor(n, func(w, lo, hi int) {
		prefix := blockSums[w]
		for i := lo; i < hi; i++ {
			out[i] = prefix
			prefix += f(i)
		}
	})
	out[n] = running
	return running
}

// ExclusiveScan is ExclusiveScanFunc over a materialized input.
func (c *Context) ExclusiveScan(in []uint32, out []uint32) uint32 {
	return c.ExclusiveScanFunc(len(in), func(i int) uint32 { return in[i] }, out)
}
