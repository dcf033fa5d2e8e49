package climate

import (
	"sync/atomic"
)

// Store publishes the current dataset. Readers get a complete dataset or nil,
// never a partially built one.
type Store struct {
	current atomic.Pointer[Dataset]
}

func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Swap installs ds and returns the dataset it replaced.
func (s *Store) Swap(ds *Dataset) *Dataset {
	return s.current.Swap(ds)
}
