package utils

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool shards an indexed scan across goroutines. Jobs are feature
// indices; each result carries its index back so the fan-in can restore
// input order regardless of which worker finished first.
type WorkerPool struct {
	NumWorkers int
	JobQueue   chan int
	Results    chan IndexedResult
	wg         sync.WaitGroup
	started    bool
	mu         sync.Mutex
}

// IndexedResult is one worker's output for one job.
type IndexedResult struct {
	Index int
	Value interface{}
}

// NewWorkerPool creates a new worker pool with specified number of workers
func NewWorkerPool(numWorkers int, jobBufferSize int, resultBufferSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		NumWorkers: numWorkers,
		JobQueue:   make(chan int, jobBufferSize),
		Results:    make(chan IndexedResult, resultBufferSize),
		started:    false,
	}
}

// StartWorkers starts the worker goroutines with the given work function
func (wp *WorkerPool) StartWorkers(workFunc func(int) interface{}) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return
	}

	wp.started = true
	wp.wg.Add(wp.NumWorkers)

	for i := 0; i < wp.NumWorkers; i++ {
		go wp.worker(workFunc)
	}
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker(workFunc func(int) interface{}) {
	defer wp.wg.Done()

	for job := range wp.JobQueue {
		wp.Results <- IndexedResult{Index: job, Value: workFunc(job)}
	}
}

// SubmitJob adds a job to the job queue
func (wp *WorkerPool) SubmitJob(job int) {
	wp.JobQueue <- job
}

// ProgressTracker tracks progress of concurrent operations
type ProgressTracker struct {
	Total     int64
	Processed int64
	StartTime time.Time
	Name      string
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int64, name string) *ProgressTracker {
	return &ProgressTracker{
		Total:     total,
		Processed: 0,
		StartTime: time.Now(),
		Name:      name,
	}
}

// Increment increments the processed count atomically
func (pt *ProgressTracker) Increment() {
	processed := atomic.AddInt64(&pt.Processed, 1)

	// Print progress every 100 items or at completion
	if processed%100 == 0 || processed == pt.Total {
		elapsed := time.Since(pt.StartTime)
		rate := float64(processed) / elapsed.Seconds()
		percentage := float64(processed) / float64(pt.Total) * 100

		fmt.Printf("%s: %d/%d (%.1f%%) - %.1f items/sec\n",
			pt.Name, processed, pt.Total, percentage, rate)
	}
}

// GetProgress returns the current progress
func (pt *ProgressTracker) GetProgress() (int64, int64, float64) {
	processed := atomic.LoadInt64(&pt.Processed)
	percentage := float64(processed) / float64(pt.Total) * 100
	return processed, pt.Total, percentage
}

// ParallelProcessor provides utilities for parallel processing
type ParallelProcessor struct {
	NumWorkers int
}

// NewParallelProcessor creates a new parallel processor
func NewParallelProcessor(numWorkers int) *ParallelProcessor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &ParallelProcessor{
		NumWorkers: numWorkers,
	}
}

// ProcessIndexed runs workFunc for every index in [0, count) in parallel
// and returns the results ordered by index, so a sharded scan produces
// the same output order as a serial one.
func (pp *ParallelProcessor) ProcessIndexed(count int,
	workFunc func(int) interface{},
	progressName string) []interface{} {

	if count == 0 {
		return []interface{}{}
	}

	// Create progress tracker
	tracker := NewProgressTracker(int64(count), progressName)

	// Create worker pool
	wp := NewWorkerPool(pp.NumWorkers, count, count)

	// Start workers with progress tracking
	wp.StartWorkers(func(job int) interface{} {
		result := workFunc(job)
		tracker.Increment()
		return result
	})

	// Submit all jobs
	for i := 0; i < count; i++ {
		wp.SubmitJob(i)
	}

	// Close job queue to signal no more jobs
	close(wp.JobQueue)

	// Collect all results back into input order
	results := make([]interface{}, count)
	for i := 0; i < count; i++ {
		res := <-wp.Results
		results[res.Index] = res.Value
	}

	// Wait for all workers to finish
	wp.wg.Wait()

	// Close results channel
	close(wp.Results)

	return results
}
