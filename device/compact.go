package device

// CompactIndices writes the indices of the set entries of flags into out,
// ascending, and returns how many were set. Two phases: each worker counts
// its span, a serial scan turns counts into write offsets, then each worker
// writes its span's indices. Order is preserved because spans are
// contiguous and ascending.
func (c *Context) CompactIndices(flags []uint32, out []uint32) uint32 {
	n := len(flags)
	workers, _ := c.workerRanges(n)
	offsets := make([]uint32, workers+1)
	c.ParallelFor(n, func(w, lo, hi int) {
		count := uint32(0)
		for i := lo; i < hi; i++ {
			if flags[i] != 0 {
				count++
			}
		}
		offsets[w+1] = count
	})
	for w := 0; w < workers; w++ {
		offsets[w+1] += offsets[w]
	}
	c.ParallelFor(n, func(w, lo, hi int) {
		pos := offsets[w]
		for i := lo; i < hi; i++ {
			if flags[i] != 0 {
				out[pos] = uint32(i)
				pos++
			}
		}
	})
	return offsets[workers]
}
