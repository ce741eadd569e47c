package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/phonebook/internal/model"
)

// In-memory person collection backing the dev server. Ids are assigned
// here; listing preserves insertion order so the client sees a stable
// sequence across refetches.

type Store struct {
	mu      sync.Mutex
	persons map[string]model.Person
	order   []string
}

func New() *Store {
	return &Store{persons: make(map[string]model.Person)}
}

func (s *Store) List() []model.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Person, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.persons[id])
	}
	return out
}

// Create assigns a fresh id and stores the draft as a person.
func (s *Store) Create(d model.Draft) model.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Person{ID: uuid.NewString(), Name: d.Name, Number: d.Number}
	s.persons[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// Replace overwrites the person stored under id. The stored id wins over
// whatever the body carries. Returns false if the id is unknown.
func (s *Store) Replace(id string, p model.Person) (model.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[id]; !ok {
		return model.Person{}, false
	}
	p.ID = id
	s.persons[id] = p
	return p, true
}

// Delete removes the person under id, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[id]; !ok {
		return false
	}
	delete(s.persons, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
