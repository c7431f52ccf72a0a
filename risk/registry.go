package risk

import "sync"

// Registry maps bot IDs to their risk managers. It replaces ambient global
// state with an injected handle: the orchestration layer constructs one
// Registry and passes it to whoever needs multi-bot fan-out. Only the map is
// guarded; the managers themselves remain single-owner.
type Registry struct {
	mu       sync.RWMutex
	managers map[int64]*Manager
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[int64]*Manager)}
}

// Register installs the manager for a bot ID, replacing any previous one.
func (r *Registry) Register(botID int64, m *Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[botID] = m
}

// Get returns the manager for a bot ID.
func (r *Registry) Get(botID int64) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[botID]
	return m, ok
}

// Remove drops the manager for a bot ID.
func (r *Registry) Remove(botID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, botID)
}

// Len returns the number of registered managers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.managers)
}
