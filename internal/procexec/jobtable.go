package procexec

import "sync"

// JobTable tracks a shell's backgrounded jobs by a small integer id, the
// way original_source's EnvShell keeps a job list for `jobs`/`fg`/`bg`/
// `kill %N` to reference after Launch has already returned control.
type JobTable struct {
	mu   sync.Mutex
	next int
	jobs map[int]*Job
}

// NewJobTable returns an empty job table.
func NewJobTable() *JobTable {
	return &JobTable{jobs: map[int]*Job{}}
}

// Add registers j and returns its new job id.
func (t *JobTable) Add(j *Job) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.jobs[t.next] = j
	return t.next
}

// Get returns the job registered under id, if any.
func (t *JobTable) Get(id int) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[id]
	return j, ok
}

// Remove drops j from the table, if present, regardless of its id.
func (t *JobTable) Remove(j *Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.jobs {
		if v == j {
			delete(t.jobs, id)
			return
		}
	}
}

// List returns a snapshot of (id, job) pairs in no particular order
// (callers sort by ID), completed jobs included so callers can reap them.
func (t *JobTable) List() []JobEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JobEntry, 0, len(t.jobs))
	for id, j := range t.jobs {
		out = append(out, JobEntry{ID: id, Job: j})
	}
	return out
}

// Reap drops every completed job from the table.
func (t *JobTable) Reap() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, j := range t.jobs {
		if j.IsCompleted() {
			delete(t.jobs, id)
		}
	}
}

// JobEntry pairs a job with its table id.
type JobEntry struct {
	ID  int
	Job *Job
}
