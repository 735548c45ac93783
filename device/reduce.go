package device

// ReduceByKey folds vals into out[key] with the given reduce operator,
// seeding each key's fold with zero. Runs of equal keys must be contiguous
// (the gather pipeline produces keys grouped by destination); distinct runs
// must carry distinct keys. A run is owned by the worker whose span contains
// its first element, so concurrent workers never touch the same out slot.
func ReduceByKey[G any](c *Context, n int, keys []uint32, vals []G, zero G, reduce func(G, G) G, out []G) {
	if n == 0 {
		return
	}
	c.ParallelFor(n, func(_, lo, hi int) {
		i := lo
		if i > 0 && keys[i] == keys[i-1] {
			// Mid-run: the owner is the worker to the left.
			for i < hi && keys[i] == keys[i-1] {
				i++
			}
		}
		for i < hi {
			key := keys[i]
			acc := reduce(zero, vals[i])
			i++
			for i < n && keys[i] == key {
				acc = reduce(acc, vals[i])
				i++
			}
			out[key] = acc
		}
	})
}
