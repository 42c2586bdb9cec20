package export

import (
	"fmt"
	"sync"
	"time"

	"github.com/pillepelle-123/bookpress/printpipe"
)

// JobState is the lifecycle state of an export job.
type JobState string

// Job lifecycle. Pending jobs move to processing exactly once; processing
// ends in completed, failed, or cancelled. Cancelled is a distinct
// terminal state, not a failure: the user asked for it, and no partial
// output is kept.
const (
	StatePending    JobState = "pending"
	StateProcessing JobState = "processing"
	StateCompleted  JobState = "completed"
	StateFailed     JobState = "failed"
	StateCancelled  JobState = "cancelled"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Options describes one export request.
type Options struct {
	Quality printpipe.Quality
	Range   RangeSpec
	CMYK    bool
	Profile *printpipe.Profile
	Title   string
}

// Job is one export request and its progress through the lifecycle.
type Job struct {
	ID       string
	BookID   string
	Role     Role
	Options  Options
	State    JobState
	Progress int    // 0..100, per finished page
	Error    string // failure reason, set with StateFailed

	// Output holds the finished PDF. It is set only in StateCompleted;
	// failed and cancelled jobs never expose partial bytes.
	Output []byte

	Downloads int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists jobs across the lifecycle. Implementations must be safe
// for concurrent use.
type Store interface {
	Create(job *Job) error
	Update(job *Job) error
	Get(id string) (*Job, error)
}

// MemoryStore is an in-process Store for single-node deployments and
// tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

// Create stores a new job.
func (s *MemoryStore) Create(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("export: job %s already exists", job.ID)
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

// Update overwrites a stored job.
func (s *MemoryStore) Update(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.ID)
	}
	cp := *job
	cp.UpdatedAt = time.Now()
	s.jobs[job.ID] = &cp
	return nil
}

// Get returns a copy of the stored job.
func (s *MemoryStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	cp := *job
	return &cp, nil
}

// RecordDownload bumps the download counter of a completed job.
func (s *MemoryStore) RecordDownload(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	if job.State != StateCompleted {
		return 0, fmt.Errorf("export: job %s is %s, nothing to download", id, job.State)
	}
	job.Downloads++
	return job.Downloads, nil
}
