package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/google/uuid"
)

var (
	// ErrTableNotFound is returned for ids the store does not hold.
	ErrTableNotFound = errors.New("table not found")

	// ErrStoreFull is returned when the store is at its table limit.
	ErrStoreFull = errors.New("table store full")
)

// TableInfo describes a stored table without exposing it.
type TableInfo struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Source  string    `json:"source"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Rows    int       `json:"rows"`
	Columns int       `json:"columns"`
	Headers []string  `json:"headers"`
}

// entry is one stored table. mu guards tbl and updated; the other fields
// never change after creation.
type entry struct {
	id      string
	name    string
	source  string
	created time.Time

	mu      sync.RWMutex
	updated time.Time
	tbl     *table.Table
}

// info snapshots the entry. The caller must hold e.mu.
func (e *entry) info() TableInfo {
	return TableInfo{
		ID:      e.id,
		Name:    e.name,
		Source:  e.source,
		Created: e.created,
		Updated: e.updated,
		Rows:    e.tbl.NumRows(),
		Columns: e.tbl.NumColumns(),
		Headers: e.tbl.Headers(),
	}
}

// Store holds named tables in memory under generated ids.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	maxTables int
	now       func() time.Time
}

// NewStore creates a store holding at most maxTables tables; 0 means no limit.
func NewStore(maxTables int) *Store {
	return &Store{
		entries:   make(map[string]*entry),
		maxTables: maxTables,
		now:       time.Now,
	}
}

// Put stores t under a new id. An empty name defaults to the id.
func (s *Store) Put(name, source string, t *table.Table) (TableInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxTables > 0 && len(s.entries) >= s.maxTables {
		return TableInfo{}, fmt.Errorf("%w: limit is %d", ErrStoreFull, s.maxTables)
	}

	id := uuid.NewString()
	if name == "" {
		name = id
	}
	now := s.now()
	e := &entry{
		id:      id,
		name:    name,
		source:  source,
		created: now,
		updated: now,
		tbl:     t,
	}
	s.entries[id] = e

	return e.info(), nil
}

func (s *Store) get(id string) (*entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q is not a table id", ErrTableNotFound, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	return e, nil
}

// Info returns a description of one table.
func (s *Store) Info(id string) (TableInfo, error) {
	e, err := s.get(id)
	if err != nil {
		return TableInfo{}, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info(), nil
}

// List returns every table, sorted by name then id.
func (s *Store) List() []TableInfo {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	result := make([]TableInfo, len(entries))
	for i, e := range entries {
		e.mu.RLock()
		result[i] = e.info()
		e.mu.RUnlock()
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Delete removes a table.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	delete(s.entries, id)
	return nil
}

// Count returns the number of stored tables.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every table.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}
