package utils

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

// Enforces a 64bit machine due to assumptions about size of ints.
func checkCompiler() {
	myInt := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myInt64 := int64(math.MaxInt64)
	if uint64(myInt) != uint64(myInt64) {
		panic("Must be on 64 bit system.")
	}
}

func OpenFile(path string) (file *os.File) {
	file, err := os.Open(path)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to open file: " + path)
	}
	return file
}

// LoadEdgeList reads a whitespace-separated "src dst [...]" file. Lines
// starting with '#' or '%' are comments. Vertex ids must already be dense;
// the vertex count returned is 1 + the largest id seen.
func LoadEdgeList(path string) (nVertices uint32, srcs, dsts []uint32) {
	file := OpenFile(path)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			log.Panic().Err(err).Msg("Bad src field: " + fields[0])
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			log.Panic().Err(err).Msg("Bad dst field: " + fields[1])
		}
		srcs = append(srcs, uint32(src))
		dsts = append(dsts, uint32(dst))
		nVertices = Max(nVertices, Max(uint32(src), uint32(dst))+1)
	}
	if err := scanner.Err(); err != nil {
		log.Panic().Err(err).Msg("Failed reading: " + path)
	}
	return nVertices, srcs, dsts
}
