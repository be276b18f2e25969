package gui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// FetchJob represents a single study set fetch job
type FetchJob struct {
	ID          int
	URL         string
	Set         *quizlet.StudySet
	SetDir      string
	Status      JobStatus
	Error       error
	StartedAt   time.Time
	CompletedAt time.Time
}

// JobStatus represents the current state of a job
type JobStatus int

const (
	StatusQueued JobStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

func (s JobStatus) String() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// FetchQueue manages the queue of set URLs to be fetched
type FetchQueue struct {
	jobs       chan *FetchJob
	results    map[int]*FetchJob
	processing map[int]*FetchJob
	completed  []*FetchJob

	nextID int
	mu     sync.RWMutex

	// Callbacks for UI updates
	onStatusUpdate func(job *FetchJob)
	onJobComplete  func(job *FetchJob)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewFetchQueue creates a new fetch queue
func NewFetchQueue(ctx context.Context) *FetchQueue {
	queueCtx, cancel := context.WithCancel(ctx)

	q := &FetchQueue{
		jobs:       make(chan *FetchJob, 100),
		results:    make(map[int]*FetchJob),
		processing: make(map[int]*FetchJob),
		completed:  make([]*FetchJob, 0),
		nextID:     1,
		ctx:        queueCtx,
		cancel:     cancel,
	}

	// No worker goroutine - the GUI pulls jobs so it controls concurrency

	return q
}

// SetCallbacks sets the callback functions for UI updates
func (q *FetchQueue) SetCallbacks(onStatusUpdate func(*FetchJob), onJobComplete func(*FetchJob)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onStatusUpdate = onStatusUpdate
	q.onJobComplete = onJobComplete
}

// AddURL adds a set URL to the fetch queue
func (q *FetchQueue) AddURL(setURL string) *FetchJob {
	q.mu.Lock()
	job := &FetchJob{
		ID:     q.nextID,
		URL:    setURL,
		Status: StatusQueued,
	}
	q.nextID++
	q.results[job.ID] = job
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		q.updateJobStatus(job, StatusQueued)
		return job
	case <-q.ctx.Done():
		job.Status = StatusFailed
		job.Error = fmt.Errorf("queue is shutting down")
		return job
	}
}

// GetJob returns a job by ID
func (q *FetchQueue) GetJob(id int) *FetchJob {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.results[id]
}

// GetQueueStatus returns the current queue statistics
func (q *FetchQueue) GetQueueStatus() (queued, processing, completed, failed int) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, job := range q.results {
		switch job.Status {
		case StatusQueued:
			queued++
		case StatusProcessing:
			processing++
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}

	return
}

// GetCompletedJobs returns all completed jobs
func (q *FetchQueue) GetCompletedJobs() []*FetchJob {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]*FetchJob{}, q.completed...)
}

// Stop gracefully shuts down the queue
func (q *FetchQueue) Stop() {
	q.cancel()
	close(q.jobs)
}

// CompleteJob marks a job as completed with the fetched set
func (q *FetchQueue) CompleteJob(jobID int, set *quizlet.StudySet, setDir string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, exists := q.results[jobID]; exists {
		job.Status = StatusCompleted
		job.Set = set
		job.SetDir = setDir
		job.CompletedAt = time.Now()

		delete(q.processing, jobID)
		q.completed = append(q.completed, job)

		if q.onJobComplete != nil {
			q.onJobComplete(job)
		}
	}
}

// FailJob marks a job as failed with an error
func (q *FetchQueue) FailJob(jobID int, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, exists := q.results[jobID]; exists {
		job.Status = StatusFailed
		job.Error = err
		job.CompletedAt = time.Now()

		delete(q.processing, jobID)

		if q.onJobComplete != nil {
			q.onJobComplete(job)
		}
	}
}

// updateJobStatus updates the status of a job and calls the callback
func (q *FetchQueue) updateJobStatus(job *FetchJob, status JobStatus) {
	job.Status = status
	if q.onStatusUpdate != nil {
		q.onStatusUpdate(job)
	}
}

// ProcessNextJob should be called by the GUI to pull the next queued job
func (q *FetchQueue) ProcessNextJob() *FetchJob {
	select {
	case job := <-q.jobs:
		q.mu.Lock()
		q.processing[job.ID] = job
		job.Status = StatusProcessing
		job.StartedAt = time.Now()
		q.mu.Unlock()

		if q.onStatusUpdate != nil {
			q.onStatusUpdate(job)
		}

		return job

	default:
		return nil
	}
}
