package validator

import "sync"

// TaskRegistry maps a remote task id to the Query that produced it. It is
// the source of truth for outstanding work: the launcher registers an entry
// when it creates a task, and the poller pops the entry when it observes
// that task's terminal result. Registration happens from the launcher
// goroutine and lookups/deletions happen from the poller goroutine, so
// access is guarded by a mutex even though no single entry is ever touched
// by both sides at once.
type TaskRegistry struct {
	mu    sync.Mutex
	tasks map[string]*Query
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]*Query)}
}

// Put registers taskID as belonging to query.
func (r *TaskRegistry) Put(taskID string, query *Query) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[taskID] = query
}

// Pop removes and returns the Query registered for taskID, if any.
func (r *TaskRegistry) Pop(taskID string) (*Query, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.tasks[taskID]
	if ok {
		delete(r.tasks, taskID)
	}
	return q, ok
}

// Outstanding returns a snapshot of every task id currently registered. Used
// by the orchestrator to issue best-effort cancellations on interrupt.
func (r *TaskRegistry) Outstanding() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of currently registered tasks.
func (r *TaskRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
