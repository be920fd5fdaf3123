package leads

import "sync"

// Registry hands out one Store per tenant key, creating it on first use.
type Registry struct {
	mu      sync.Mutex
	dataDir string
	stores  map[string]*Store
}

func NewRegistry(dataDir string) *Registry {
	return &Registry{
		dataDir: dataDir,
		stores:  make(map[string]*Store),
	}
}

// StoreFor returns the tenant's store, opening it if needed.
func (r *Registry) StoreFor(tenantKey string) (*Store, error) {
	key := sanitizeTenant(tenantKey)

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[key]; ok {
		return store, nil
	}

	store, err := NewStore(r.dataDir, tenantKey)
	if err != nil {
		return nil, err
	}
	r.stores[key] = store
	return store, nil
}
