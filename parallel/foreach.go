// Package parallel contains a bounded parallel ForEach loop.
package parallel

import "runtime"
import "sync"

import "github.com/klauspost/cpuid/v2"

// Workers reports the number of goroutines worth running for CPU bound loops.
// It prefers the physical core count detected by cpuid. Can't return 0.
func Workers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach calls body for every i in [0, length) with at most limit calls
// running at once, and returns when all of them have.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	var sem = make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)
	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			body(i)
		}(i)
	}
	wg.Wait()
}
