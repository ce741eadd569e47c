package memstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/phonebook/internal/model"
)

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := New()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p := s.Create(model.Draft{Name: fmt.Sprintf("p%d", i), Number: fmt.Sprintf("%d", i)})
		require.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := New()
	a := s.Create(model.Draft{Name: "a", Number: "1"})
	b := s.Create(model.Draft{Name: "b", Number: "2"})
	c := s.Create(model.Draft{Name: "c", Number: "3"})

	assert.Equal(t, []model.Person{a, b, c}, s.List())

	require.True(t, s.Delete(b.ID))
	assert.Equal(t, []model.Person{a, c}, s.List())
}

func TestReplace(t *testing.T) {
	s := New()
	a := s.Create(model.Draft{Name: "a", Number: "1"})

	updated, ok := s.Replace(a.ID, model.Person{ID: "other", Name: "a", Number: "9"})
	require.True(t, ok)
	assert.Equal(t, a.ID, updated.ID, "stored id wins over the body's id")
	assert.Equal(t, "9", updated.Number)

	_, ok = s.Replace("missing", model.Person{Name: "x", Number: "0"})
	assert.False(t, ok)
}

func TestDeleteUnknownID(t *testing.T) {
	s := New()
	assert.False(t, s.Delete("missing"))
}
