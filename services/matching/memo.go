package matching

import "sync"

// memoKey identifies one availability evaluation within a matching run.
type memoKey struct {
	candidateID string
	instant     int64
	allDay      bool
	date        string
	exclude     string
}

// matchRun holds the memoized availability verdicts for one matching call.
// It lives for a single request (a series flow shares one run across its
// visits) and is discarded when the call returns; nothing is retained
// across requests.
type matchRun struct {
	mu   sync.Mutex
	memo map[memoKey]AvailabilityResult
}

func newMatchRun() *matchRun {
	return &matchRun{memo: make(map[memoKey]AvailabilityResult)}
}

func (r *matchRun) lookup(key memoKey) (AvailabilityResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.memo[key]
	return res, ok
}

func (r *matchRun) store(key memoKey, res AvailabilityResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo[key] = res
}
