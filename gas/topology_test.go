package gas

import (
	"errors"
	"math/rand"
	"testing"
)

func randomEdgeList(nVertices uint32, nEdges int, r *rand.Rand) (srcs, dsts []uint32) {
	srcs = make([]uint32, nEdges)
	dsts = make([]uint32, nEdges)
	for i := 0; i < nEdges; i++ {
		srcs[i] = uint32(r.Intn(int(nVertices)))
		dsts[i] = uint32(r.Intn(int(nVertices)))
	}
	return srcs, dsts
}

// Every input edge must be findable in both views, and the views must agree
// on totals.
func TestDualViewConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	srcs, dsts := randomEdgeList(50, 400, r)
	top, err := buildTopology(50, srcs, dsts)
	if err != nil {
		t.Fatal(err)
	}
	if top.srcOffsets[50] != 400 || top.dstOffsets[50] != 400 {
		t.Fatal("offset totals", top.srcOffsets[50], top.dstOffsets[50])
	}
	for i := range srcs {
		u, v := srcs[i], dsts[i]
		found := false
		for p := top.srcOffsets[v]; p < top.srcOffsets[v+1]; p++ {
			if top.srcs[p] == u && top.permCSC[p] == uint32(i) {
				found = true
			}
		}
		if !found {
			t.Fatal("edge", i, "missing from CSC view")
		}
		found = false
		for p := top.dstOffsets[u]; p < top.dstOffsets[u+1]; p++ {
			if top.dsts[p] == v && top.permCSR[p] == uint32(i) {
				found = true
			}
		}
		if !found {
			t.Fatal("edge", i, "missing from CSR view")
		}
	}
}

func TestEdgeIndexPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	srcs, dsts := randomEdgeList(30, 200, r)
	top, err := buildTopology(30, srcs, dsts)
	if err != nil {
		t.Fatal(err)
	}
	for _, index := range [][]uint32{
		crossViewIndex(top.permCSR, top.permCSC),
		crossViewIndex(top.permCSC, top.permCSR),
	} {
		seen := make([]bool, len(index))
		for _, p := range index {
			if seen[p] {
				t.Fatal("cross-view index not a bijection: duplicate", p)
			}
			seen[p] = true
		}
	}
	// The composition must identify the same edge across views.
	toCSR := crossViewIndex(top.permCSC, top.permCSR)
	for cscPos, csrPos := range toCSR {
		if top.permCSC[cscPos] != top.permCSR[csrPos] {
			t.Fatal("cross-view index maps to a different edge at", cscPos)
		}
	}
}

func TestIngestErrors(t *testing.T) {
	if _, err := buildTopology(3, []uint32{0, 1}, []uint32{1}); !errors.Is(err, ErrIngest) {
		t.Fatal("mismatched sizes accepted:", err)
	}
	if _, err := buildTopology(3, []uint32{0, 3}, []uint32{1, 0}); !errors.Is(err, ErrIngest) {
		t.Fatal("out-of-range vertex accepted:", err)
	}
	if _, err := buildTopology(0, nil, nil); err != nil {
		t.Fatal("empty graph rejected:", err)
	}
}
