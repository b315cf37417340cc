package jobs

// Status is one stage of an enrichment job's lifecycle.
type Status string

const (
	StatusExtracting Status = "extracting"
	StatusFetching   Status = "fetching"
	StatusParsing    Status = "parsing"
	StatusChunking   Status = "chunking"
	StatusEmbedding  Status = "embedding"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

var next = map[Status]Status{
	StatusExtracting: StatusFetching,
	StatusFetching:   StatusParsing,
	StatusParsing:    StatusChunking,
	StatusChunking:   StatusEmbedding,
	StatusEmbedding:  StatusReady,
}

func (s Status) Valid() bool {
	if s == StatusReady || s == StatusError {
		return true
	}
	_, ok := next[s]
	return ok
}

// Terminal states absorb every further event.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// CanTransition reports whether a job in state s may move to state to.
// Staying in the same non-terminal state is allowed (intra-stage progress
// updates), error is reachable from any non-terminal state, and otherwise
// only the single forward step in the pipeline is legal.
func (s Status) CanTransition(to Status) bool {
	if !to.Valid() || s.Terminal() {
		return false
	}
	if to == s || to == StatusError {
		return true
	}
	return next[s] == to
}
