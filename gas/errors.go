package gas

import "errors"

// Error kinds. Callers match with errors.Is; messages carry the detail.
var (
	// ErrIngest: the edge list or data arrays handed to SetGraph are
	// inconsistent (mismatched sizes, vertex id out of range).
	ErrIngest = errors.New("ingest error")

	// ErrPlan: the shard planner was given an unusable configuration.
	ErrPlan = errors.New("plan error")

	// ErrDevice: a failure of the execution substrate. The in-memory
	// substrate has no failing path, so no engine call currently returns
	// it; it names the kind for callers and for substrates that can fail.
	// The engine is not re-entrant after a device error.
	ErrDevice = errors.New("device error")
)
