package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/graphblaze/gasket/gas"
	"github.com/graphblaze/gasket/utils"
)

func main() {
	graphPtr := flag.String("g", "", "Graph edge-list file.")
	srcPtr := flag.Uint("src", 0, "Source vertex.")
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
	source := uint32(*srcPtr)
	if source >= nVertices {
		log.Fatal().Msg("Source vertex " + utils.V(source) + " outside the graph.")
	}

	verts := make([]VertexProperty, nVertices)
	for i := range verts {
		verts[i].Depth = -1
	}
	verts[source].Depth = 0

	opts := gas.DefaultOptions()
	opts.EdgeBudget = uint32(*budgetPtr)
	opts.NumSlots = *slotsPtr
	opts.NumWorkers = *workersPtr
	opts.DebugLevel = uint8(*debugPtr)

	engine := gas.New[VertexProperty, struct{}, int32](new(BFS), opts)
	defer engine.Free()
	if err := engine.SetGraph(nVertices, verts, srcs, dsts, nil); err != nil {
		log.Fatal().Err(err).Msg("SetGraph failed.")
	}
	engine.SetActive(source, source+1)
	engine.Run()

	results := engine.GetResults()
	reached := 0
	maxDepth := int32(0)
	for i := range results {
		if results[i].Depth >= 0 {
			reached++
			maxDepth = utils.Max(maxDepth, results[i].Depth)
		}
	}
	log.Info().Msg("Reached " + utils.V(reached) + "/" + utils.V(nVertices) + " vertices, eccentricity " + utils.V(maxDepth))
}
