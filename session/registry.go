package session

import "sync"

// Registry maps project IDs to the resume token of their live conversation.
// At most one token is live per project; tokens are overwritten on every
// successful query that returns one and never deleted within the process
// lifetime. State is in-memory only and lost on restart.
//
// Registry also hands out a per-project lock so the read-token → run →
// write-token sequence is atomic: concurrent queries against the same
// project are serialized rather than racing on the binding.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]string
	locks  map[string]*sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[string]string),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Token returns the project's current resume token, if any.
func (r *Registry) Token(projectID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[projectID]
	return t, ok
}

// SetToken records the project's resume token, overwriting any prior value.
func (r *Registry) SetToken(projectID, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[projectID] = token
}

// Lock acquires the project's query lock and returns the unlock func.
func (r *Registry) Lock(projectID string) func() {
	r.mu.Lock()
	l, ok := r.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[projectID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}
