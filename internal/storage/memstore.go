package storage

// MemStore is an in-memory Store for tests.
type MemStore struct {
	slots map[string][]byte

	// WriteErr, when set, is returned by every Write call. Lets tests
	// exercise write-failure propagation.
	WriteErr error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[string][]byte)}
}

// Read returns the current contents of a slot.
func (s *MemStore) Read(key string) ([]byte, error) {
	data, ok := s.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// Write replaces the contents of a slot.
func (s *MemStore) Write(key string, data []byte) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.slots[key] = data
	return nil
}
