package device

import (
	"math/rand"
	"sync"
	"testing"
)

func TestExclusiveScan(t *testing.T) {
	for _, workers := range []int{1, 4, 13} {
		ctx := NewContext(workers)
		for _, n := range []int{0, 1, 7, 513, 10000} {
			in := make([]uint32, n)
			for i := range in {
				in[i] = uint32(rand.Intn(5))
			}
			out := make([]uint32, n+1)
			total := ctx.ExclusiveScan(in, out)

			running := uint32(0)
			for i := 0; i < n; i++ {
				if out[i] != running {
					t.Fatal("workers", workers, "n", n, "prefix mismatch at", i, out[i], running)
				}
				running += in[i]
			}
			if total != running || out[n] != running {
				t.Fatal("workers", workers, "n", n, "total mismatch", total, running)
			}
		}
	}
}

func TestLoadBalancedSearch(t *testing.T) {
	ctx := NewContext(8)
	counts := make([]uint32, 2000)
	for i := range counts {
		counts[i] = uint32(rand.Intn(4)) // plenty of zero-length segments
	}
	scan := make([]uint32, len(counts)+1)
	total := ctx.ExclusiveScan(counts, scan)

	seen := make([]int32, total)
	ctx.LoadBalancedSearch(total, len(counts), scan, func(seg, rank, out uint32) {
		if scan[seg]+rank != out {
			t.Error("slot does not round-trip", seg, rank, out)
		}
		if rank >= counts[seg] {
			t.Error("rank exceeds segment size", seg, rank, counts[seg])
		}
		seen[out]++
	})
	for i, s := range seen {
		if s != 1 {
			t.Fatal("output slot visited", s, "times at", i)
		}
	}
}

func TestReduceByKey(t *testing.T) {
	ctx := NewContext(8)
	// Contiguous runs over ascending keys, with gaps and skewed run lengths.
	var keys []uint32
	var vals []int64
	want := make(map[uint32]int64)
	key := uint32(0)
	for len(keys) < 5000 {
		key += uint32(1 + rand.Intn(3))
		runLen := 1 + rand.Intn(40)
		for i := 0; i < runLen; i++ {
			v := int64(rand.Intn(100))
			keys = append(keys, key)
			vals = append(vals, v)
			want[key] += v
		}
	}
	out := make([]int64, key+1)
	ReduceByKey(ctx, len(keys), keys, vals, int64(0), func(a, b int64) int64 { return a + b }, out)
	for k, w := range want {
		if out[k] != w {
			t.Fatal("key", k, "got", out[k], "want", w)
		}
	}
}

func TestIntervalGather(t *testing.T) {
	ctx := NewContext(4)
	src := []uint32{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	bases := []uint32{7, 0, 4}
	counts := []uint32{3, 0, 2}
	scan := make([]uint32, len(counts)+1)
	total := ctx.ExclusiveScan(counts, scan)

	var mu sync.Mutex
	got := map[uint32]int{}
	ctx.IntervalGather(total, len(counts), scan, func(seg uint32) uint32 { return bases[seg] }, src, func(seg, value uint32) {
		mu.Lock()
		got[value]++
		mu.Unlock()
	})
	want := []uint32{17, 18, 19, 14, 15}
	if int(total) != len(want) {
		t.Fatal("total mismatch", total, len(want))
	}
	for _, w := range want {
		if got[w] != 1 {
			t.Fatal("gathered", got[w], "copies of", w)
		}
	}
}

func TestCompactIndices(t *testing.T) {
	for _, workers := range []int{1, 6} {
		ctx := NewContext(workers)
		flags := make([]uint32, 4096)
		var want []uint32
		for i := range flags {
			if rand.Intn(3) == 0 {
				flags[i] = 1
				want = append(want, uint32(i))
			}
		}
		out := make([]uint32, len(flags))
		n := ctx.CompactIndices(flags, out)
		if int(n) != len(want) {
			t.Fatal("count mismatch", n, len(want))
		}
		for i := range want {
			if out[i] != want[i] {
				t.Fatal("compact mismatch at", i, out[i], want[i])
			}
		}
	}
}

func TestStreamOrdering(t *testing.T) {
	s := NewStream()
	defer s.Close()
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		s.Launch(func() { order = append(order, i) })
	}
	s.Sync()
	for i := range order {
		if order[i] != i {
			t.Fatal("stream ran out of order at", i, order[i])
		}
	}
}

func TestEventAcrossStreams(t *testing.T) {
	copyLane, compute := NewStream(), NewStream()
	defer copyLane.Close()
	defer compute.Close()

	staged := false
	ev := NewEvent(1)
	copyLane.Launch(func() { staged = true; ev.Signal() })
	ok := false
	compute.Launch(func() { ev.Wait(); ok = staged })
	compute.Sync()
	if !ok {
		t.Fatal("compute observed unstaged slot")
	}
}
