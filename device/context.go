// Package device is the execution substrate the engine drives: a
// data-parallel worker pool standing in for an accelerator, in-order task
// lanes standing in for its command streams, and the parallel-primitive
// library (scan, load-balanced search, segmented reduce, interval gather,
// compact) that the gather/apply/scatter kernels are composed from.
package device

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/graphblaze/gasket/utils"
)

// Context carries the worker count every primitive fans out over.
type Context struct {
	NumWorkers int
}

// Inputs with fewer items than this run inline on one worker instead of
// fanning out across goroutines.
const grainSize = 512

func NewContext(numWorkers int) *Context {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Context{NumWorkers: numWorkers}
}

// LogProperties prints a one-line banner of the simulated device.
func (c *Context) LogProperties() {
	log.Debug().Msg("Device: " + utils.V(c.NumWorkers) + " workers, GOMAXPROCS " + utils.V(runtime.GOMAXPROCS(0)))
	utils.MemoryStats()
}

// ParallelFor splits [0, n) into contiguous chunks, one per worker, and runs
// f(worker, lo, hi) for each. Small inputs run inline on worker 0.
func (c *Context) ParallelFor(n int, f func(worker int, lo int, hi int)) {
	workers := c.NumWorkers
	if n < grainSize || workers <= 1 {
		if n > 0 {
			f(0, 0, n)
		}
		return
	}
	if workers > n {
		workers = n
	}
	chunk := utils.DivRoundUp(n, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := utils.Min(lo+chunk, n)
		wg.Add(1)
		go func(w, lo, hi int) {
			f(w, lo, hi)
			wg.Done()
		}(w, lo, hi)
	}
	wg.Wait()
}

// workerRanges gives the chunk bounds ParallelFor would use, for primitives
// that need a planning pass over the same partition.
func (c *Context) workerRanges(n int) (workers int, chunk int) {
	workers = c.NumWorkers
	if n < grainSize || workers <= 1 {
		return 1, n
	}
	if workers > n {
		workers = n
	}
	return workers, utils.DivRoundUp(n, workers)
}
