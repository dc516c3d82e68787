package composite

import (
	"cmp"
	"testing"

	"github.com/KevoDB/iterfacade/pkg/common/iterator"
)

type pair struct {
	key, value string
}

func byKey(a, b pair) int {
	return cmp.Compare(a.key, b.key)
}

func TestHierarchicalIterator_SeekToFirst(t *testing.T) {
	newer := iterator.FromSlice([]pair{{"a", "v1a"}, {"c", "v1c"}, {"e", "v1e"}})
	older := iterator.FromSlice([]pair{{"b", "v2b"}, {"c", "v2c"}, {"d", "v2d"}})

	h := NewHierarchicalIterator(byKey, newer, older)

	h.SeekToFirst()
	if !h.Valid() {
		t.Fatal("Expected iterator to be valid after SeekToFirst")
	}
	if h.Value().key != "a" {
		t.Errorf("Expected first key 'a', got '%s'", h.Value().key)
	}

	expected := []pair{{"a", "v1a"}, {"b", "v2b"}, {"c", "v1c"}, {"d", "v2d"}, {"e", "v1e"}}
	got := iterator.Collect[pair](h)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d values, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Position %d: expected %v, got %v", i, expected[i], got[i])
		}
	}

	if h.Next() {
		t.Error("Expected Next() to return false after the last key")
	}
	if h.Valid() {
		t.Error("Expected iterator to be invalid at the end")
	}
}

func TestHierarchicalIterator_NewestWins(t *testing.T) {
	newest := iterator.FromSlice([]pair{{"k", "new"}})
	middle := iterator.FromSlice([]pair{{"k", "mid"}})
	oldest := iterator.FromSlice([]pair{{"j", "old"}, {"k", "old"}})

	got := iterator.Collect[pair](NewHierarchicalIterator(byKey, newest, middle, oldest))
	if len(got) != 2 || got[0] != (pair{"j", "old"}) || got[1] != (pair{"k", "new"}) {
		t.Errorf("Expected [{j old} {k new}], got %v", got)
	}
}

func TestHierarchicalIterator_CompositeInterface(t *testing.T) {
	a := iterator.FromSlice([]pair{{"a", "1"}})
	b := iterator.FromSlice([]pair{{"b", "2"}})

	var ci CompositeIterator[pair] = NewHierarchicalIterator(byKey, a, b)
	if ci.NumSources() != 2 {
		t.Errorf("Expected 2 sources, got %d", ci.NumSources())
	}
	if len(ci.GetSourceIterators()) != 2 {
		t.Errorf("Expected 2 source iterators, got %d", len(ci.GetSourceIterators()))
	}
}

func TestChain(t *testing.T) {
	c := Chain[int](
		iterator.FromSlice([]int{1, 2}),
		iterator.FromSlice[int](nil),
		iterator.FromSlice([]int{3}),
	)

	if c.Valid() {
		t.Error("Expected a new chain to be unpositioned")
	}

	got := iterator.Collect[int](c)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
	if c.Next() {
		t.Error("Expected Next() to return false after the last source")
	}

	var ci CompositeIterator[int] = c
	if ci.NumSources() != 3 {
		t.Errorf("Expected 3 sources, got %d", ci.NumSources())
	}
}

func TestChain_Empty(t *testing.T) {
	c := Chain[int]()
	c.SeekToFirst()
	if c.Valid() {
		t.Error("Expected an empty chain to be invalid")
	}
	if c.Value() != 0 {
		t.Errorf("Expected zero value, got %d", c.Value())
	}
}
