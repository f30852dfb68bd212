package qampsim

import "sync"

// parallelThreshold is the reduced-space size below which a pass runs inline;
// goroutine fan-out costs more than it saves on small registers.
const parallelThreshold = 1 << 12

// parFor splits [0, items) into contiguous chunks, one per worker, and joins
// before returning. Each enumeration value maps to a unique amplitude pair, so
// workers never write the same slot and need no locks on the dense container.
func (e *Engine) parFor(items uint64, body func(worker int, start, end uint64)) {
	workers := e.workers
	if items < parallelThreshold || workers <= 1 {
		body(0, 0, items)
		return
	}
	if uint64(workers) > items {
		workers = int(items)
	}

	chunk := items / uint64(workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := uint64(w) * chunk
		end := start + chunk
		if w == workers-1 {
			end = items
		}
		go func(w int, start, end uint64) {
			defer wg.Done()
			body(w, start, end)
		}(w, start, end)
	}
	wg.Wait()
}
