package main

import (
	"flag"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/graphblaze/gasket/gas"
	"github.com/graphblaze/gasket/utils"
)

// PrintTopN: Prints the top N vertices and their scores.
func PrintTopN(verts []VertexProperty, size int) {
	order := make([]int, len(verts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return verts[order[i]].Rank > verts[order[j]].Rank })
	if len(order) < size {
		size = len(order)
	}
	log.Info().Msg("Top N:")
	log.Info().Msg("pos,      id,           score")
	for i := 0; i < size; i++ {
		log.Info().Msg(utils.V(i) + "," + utils.F("%8d", order[i]) + "," + utils.F("%16.6f", verts[order[i]].Rank))
	}
}

// CheckTotalMass warns if the rank mass drifted from 1 (sinks leak mass in
// this formulation, so only sink-free graphs should sum cleanly).
func CheckTotalMass(verts []VertexProperty) {
	sum := 0.0
	sinks := 0
	for i := range verts {
		sum += verts[i].Rank
		if verts[i].OutDeg == 0 {
			sinks++
		}
	}
	log.Info().Msg("Total rank mass: " + utils.F("%.6f", sum) + " sinks: " + utils.V(sinks))
	if sinks == 0 && !utils.FloatEquals(sum, 1.0, 0.01) {
		log.Warn().Msg("rank mass drifted on a sink-free graph")
	}
}

func main() {
	graphPtr := flag.String("g", "", "Graph edge-list file.")
	tolPtr := flag.Float64("tol", 1e-9, "Per-vertex convergence tolerance.")
	budgetPtr := flag.Uint("b", 0, "Edge budget per shard. 0 for a single shard.")
	slotsPtr := flag.Int("p", 2, "Resident shard slots.")
	workersPtr := flag.Int("t", 0, "Kernel worker threads. 0 for NumCPU.")
	debugPtr := flag.Int("debug", 0, "Log verbosity; >=3 checks frontier invariants.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)
	if *graphPtr == "" {
		flag.Usage()
		log.Fatal().Msg("Need a graph file.")
	}

	nVertices, srcs, dsts := utils.LoadEdgeList(*graphPtr)
	log.Info().Msg("Loaded " + utils.V(nVertices) + " vertices, " + utils.V(len(srcs)) + " edges")

	verts := make([]VertexProperty, nVertices)
	for i := range verts {
		verts[i].Rank = 1.0 / float64(nVertices)
	}
	for _, s := range srcs {
		verts[s].OutDeg++
	}

	opts := gas.DefaultOptions()
	opts.EdgeBudget = uint32(*budgetPtr)
	opts.NumSlots = *slotsPtr
	opts.NumWorkers = *workersPtr
	opts.DebugLevel = uint8(*debugPtr)

	engine := gas.New[VertexProperty, struct{}, float64](&PageRank{NumVertices: float64(nVertices), Tolerance: *tolPtr}, opts)
	defer engine.Free()
	if err := engine.SetGraph(nVertices, verts, srcs, dsts, nil); err != nil {
		log.Fatal().Err(err).Msg("SetGraph failed.")
	}
	engine.SetActive(0, nVertices)
	engine.Run()

	results := engine.GetResults()
	CheckTotalMass(results)
	PrintTopN(results, 10)
}
