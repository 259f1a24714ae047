package storage

// Store is an in-memory key-value state with an undo journal. Every write is
// journaled so that a caller can take a snapshot before a multi-step operation
// and roll the whole thing back on failure, including fund movements made by
// nested components sharing the same store.
type Store struct {
	data    map[string][]byte
	journal []journalEntry
}

type journalEntry struct {
	key     string
	prev    []byte
	existed bool
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key, or nil when absent.
func (s *Store) Get(key []byte) []byte {
	v, ok := s.data[string(key)]
	if !ok {
		return nil
	}
	return append([]byte(nil), v...)
}

// Has reports whether key is present.
func (s *Store) Has(key []byte) bool {
	_, ok := s.data[string(key)]
	return ok
}

// Set stores a copy of value under key.
func (s *Store) Set(key, value []byte) {
	k := string(key)
	s.record(k)
	s.data[k] = append([]byte(nil), value...)
}

// Delete removes key.
func (s *Store) Delete(key []byte) {
	k := string(key)
	if _, ok := s.data[k]; !ok {
		return
	}
	s.record(k)
	delete(s.data, k)
}

func (s *Store) record(key string) {
	prev, existed := s.data[key]
	entry := journalEntry{key: key, existed: existed}
	if existed {
		entry.prev = append([]byte(nil), prev...)
	}
	s.journal = append(s.journal, entry)
}

// Snapshot marks the current journal position. Snapshots nest: reverting to an
// earlier mark also discards every later one.
func (s *Store) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot undoes every write made after the given mark.
func (s *Store) RevertToSnapshot(mark int) {
	if mark < 0 || mark > len(s.journal) {
		return
	}
	for i := len(s.journal) - 1; i >= mark; i-- {
		entry := s.journal[i]
		if entry.existed {
			s.data[entry.key] = entry.prev
		} else {
			delete(s.data, entry.key)
		}
	}
	s.journal = s.journal[:mark]
}
