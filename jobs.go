package main

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"customer-nav/internal/excel"
	"customer-nav/internal/models"
)

// === Job System ===

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

type JobResult struct {
	Sheet    string `json:"sheet"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

type Job struct {
	ID        string
	Status    JobStatus
	Logs      []string
	Progress  int // 0-100
	Result    *JobResult
	Error     string
	Mutex     sync.RWMutex
	CreatedAt time.Time
}

func NewJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		Logs:      []string{},
		CreatedAt: time.Now(),
	}
}

func (j *Job) Log(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	ts := time.Now().Format("15:04:05")
	j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
}

func (j *Job) SetProgress(current, total int) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	if total > 0 {
		j.Progress = int(float64(current) / float64(total) * 100)
	}
}

// JobView is the JSON snapshot of a job.
type JobView struct {
	ID       string     `json:"id"`
	Status   JobStatus  `json:"status"`
	Progress int        `json:"progress"`
	Logs     []string   `json:"logs"`
	Error    string     `json:"error,omitempty"`
	Result   *JobResult `json:"result,omitempty"`
}

func (j *Job) View() JobView {
	j.Mutex.RLock()
	defer j.Mutex.RUnlock()
	logs := make([]string, len(j.Logs))
	copy(logs, j.Logs)
	return JobView{
		ID:       j.ID,
		Status:   j.Status,
		Progress: j.Progress,
		Logs:     logs,
		Error:    j.Error,
		Result:   j.Result,
	}
}

func (j *Job) fail(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	j.Status = StatusError
	j.Error = msg
	j.Logs = append(j.Logs, "[ERROR] "+msg)
}

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) Add(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

func (s *JobStore) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

// CustomerReplacer is the write side of the customer store.
type CustomerReplacer interface {
	ReplaceAll(ctx context.Context, customers []models.Customer) error
}

// processImport reads a customer workbook and swaps it into the store.
// Sessions opened afterwards see the new listing; open sessions keep theirs.
func processImport(job *Job, data []byte, filename, sheet string, dst CustomerReplacer) {
	defer func() {
		if r := recover(); r != nil {
			job.fail(fmt.Sprintf("Panic: %v", r))
		}
	}()

	job.Log(fmt.Sprintf("Processing file: %s", filename))

	f, err := excel.OpenReader(bytes.NewReader(data))
	if err != nil {
		job.fail(fmt.Sprintf("Could not open workbook: %v", err))
		return
	}
	defer f.Close()

	job.Log(fmt.Sprintf("Reading sheet %s...", sheet))
	skipped := 0
	customers, err := excel.ReadCustomers(f, sheet, func(row int, reason string) {
		skipped++
		job.Log(fmt.Sprintf("Row %d skipped: %s", row, reason))
	})
	if err != nil {
		job.fail(fmt.Sprintf("Read error: %v", err))
		return
	}
	if len(customers) == 0 {
		job.fail("No valid customer rows found.")
		return
	}
	job.SetProgress(1, 2)
	job.Log(fmt.Sprintf("%d customers read.", len(customers)))

	if err := dst.ReplaceAll(context.Background(), customers); err != nil {
		job.fail(fmt.Sprintf("Store error: %v", err))
		return
	}

	job.Mutex.Lock()
	job.Status = StatusDone
	job.Result = &JobResult{Sheet: sheet, Imported: len(customers), Skipped: skipped}
	job.Progress = 100
	job.Mutex.Unlock()
	job.Log("Import finished.")
}
