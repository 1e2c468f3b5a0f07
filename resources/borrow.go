package resources

import "sync"

// borrowState tracks which open passes hold a resource. Multiple passes may
// borrow a resource for reading concurrently; exclusive (write or capture)
// borrows require that no other borrow of any kind is held, since the
// underlying device disallows undefined concurrent read/write hazards.
type borrowState struct {
	mu      sync.Mutex
	readers int
	writer  bool
}

func (b *borrowState) AcquireRead() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writer {
		return false
	}
	b.readers++
	return true
}

func (b *borrowState) AcquireWrite() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writer || b.readers > 0 {
		return false
	}
	b.writer = true
	return true
}

func (b *borrowState) ReleaseRead() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readers > 0 {
		b.readers--
	}
}

func (b *borrowState) ReleaseWrite() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writer = false
}
