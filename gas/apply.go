package gas

// Apply runs the program's Apply over the whole frontier and records, per
// vertex, whether its out-neighbourhood activates next iteration. A pure
// data-parallel map: every active vertex is distinct, so vertex state and
// applyRet writes never collide.
func (e *Engine[V, E, G]) Apply() {
	if e.nActive == 0 {
		return
	}
	e.ctx.ParallelFor(int(e.nActive), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			v := e.active[i]
			if e.prog.Apply(&e.vertexData[v], e.gatherTmp[v]) {
				e.applyRet[v] = 1
			} else {
				e.applyRet[v] = 0
			}
		}
	})
}
