package gui

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/snonux/quizanki/internal/quizlet"
)

func TestFetchQueueAddAndProcess(t *testing.T) {
	q := NewFetchQueue(context.Background())
	defer q.Stop()

	job := q.AddURL("https://quizlet.com/123456/biology/")
	if job.Status != StatusQueued {
		t.Errorf("Expected status %v, got %v", StatusQueued, job.Status)
	}
	if job.ID != 1 {
		t.Errorf("Expected job ID 1, got %d", job.ID)
	}

	pulled := q.ProcessNextJob()
	if pulled == nil {
		t.Fatal("Expected a job, got nil")
	}
	if pulled.ID != job.ID {
		t.Errorf("Expected job ID %d, got %d", job.ID, pulled.ID)
	}
	if pulled.Status != StatusProcessing {
		t.Errorf("Expected status %v, got %v", StatusProcessing, pulled.Status)
	}

	// Queue is empty now
	if next := q.ProcessNextJob(); next != nil {
		t.Errorf("Expected nil, got job %d", next.ID)
	}
}

func TestFetchQueueCompleteJob(t *testing.T) {
	q := NewFetchQueue(context.Background())
	defer q.Stop()

	var completed *FetchJob
	q.SetCallbacks(nil, func(job *FetchJob) {
		completed = job
	})

	job := q.AddURL("https://quizlet.com/123456/biology/")
	q.ProcessNextJob()

	set := &quizlet.StudySet{ID: 123456, Title: "Biology"}
	q.CompleteJob(job.ID, set, "/tmp/123456_biology")

	if completed == nil {
		t.Fatal("Expected completion callback, got none")
	}
	if completed.Status != StatusCompleted {
		t.Errorf("Expected status %v, got %v", StatusCompleted, completed.Status)
	}
	if completed.Set != set {
		t.Error("Expected completed job to carry the fetched set")
	}
	if completed.SetDir != "/tmp/123456_biology" {
		t.Errorf("Expected set dir /tmp/123456_biology, got %s", completed.SetDir)
	}

	jobs := q.GetCompletedJobs()
	if len(jobs) != 1 {
		t.Errorf("Expected 1 completed job, got %d", len(jobs))
	}
}

func TestFetchQueueFailJob(t *testing.T) {
	q := NewFetchQueue(context.Background())
	defer q.Stop()

	job := q.AddURL("https://quizlet.com/999/broken/")
	q.ProcessNextJob()

	wantErr := errors.New("fetch failed")
	q.FailJob(job.ID, wantErr)

	got := q.GetJob(job.ID)
	if got.Status != StatusFailed {
		t.Errorf("Expected status %v, got %v", StatusFailed, got.Status)
	}
	if !errors.Is(got.Error, wantErr) {
		t.Errorf("Expected error %v, got %v", wantErr, got.Error)
	}

	// Failed jobs do not show up as completed
	if jobs := q.GetCompletedJobs(); len(jobs) != 0 {
		t.Errorf("Expected 0 completed jobs, got %d", len(jobs))
	}
}

func TestFetchQueueStatus(t *testing.T) {
	q := NewFetchQueue(context.Background())
	defer q.Stop()

	q.AddURL("https://quizlet.com/1/first/")
	q.AddURL("https://quizlet.com/2/second/")
	q.AddURL("https://quizlet.com/3/third/")

	q.ProcessNextJob()

	queued, processing, completed, failed := q.GetQueueStatus()
	if queued != 2 {
		t.Errorf("Expected 2 queued, got %d", queued)
	}
	if processing != 1 {
		t.Errorf("Expected 1 processing, got %d", processing)
	}
	if completed != 0 || failed != 0 {
		t.Errorf("Expected 0 completed and 0 failed, got %d and %d", completed, failed)
	}
}

func TestJobStatusString(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   string
	}{
		{StatusQueued, "Queued"},
		{StatusProcessing, "Processing"},
		{StatusCompleted, "Completed"},
		{StatusFailed, "Failed"},
		{JobStatus(42), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
