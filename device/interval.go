package device

// IntervalGather concatenates the per-segment intervals of src described by
// (base(seg), count), the counts being the differences of the exclusive
// scan, and hands each gathered element to emit. It is the activation primitive:
// the engine points base at a vertex's first out-edge and emit at the
// activation-flag writer.
func (c *Context) IntervalGather(total uint32, nSegs int, scan []uint32, base func(seg uint32) uint32, src []uint32, emit func(seg uint32, value uint32)) {
	c.LoadBalancedSearch(total, nSegs, scan, func(seg, rank, _ uint32) {
		emit(seg, src[base(seg)+rank])
	})
}
