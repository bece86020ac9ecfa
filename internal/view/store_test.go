package view

import (
	"reflect"
	"testing"

	"github.com/logmux/logmux/pkg/logline"
)

func storeContents(s *Store) []string {
	var out []string
	s.Each(func(i int, rec logline.Record) bool {
		out = append(out, rec.Raw)
		return true
	})
	return out
}

func TestStorePushAndEvict(t *testing.T) {
	s := NewStore(3)
	lines := []string{"A", "B", "C", "D", "E"}
	wantEvicted := []bool{false, false, false, true, true}
	for i, l := range lines {
		if got := s.Push(logline.New(l, 0)); got != wantEvicted[i] {
			t.Errorf("Push(%q) evicted = %v, want %v", l, got, wantEvicted[i])
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got, want := storeContents(s), []string{"C", "D", "E"}; !reflect.DeepEqual(got, want) {
		t.Errorf("contents = %v, want %v", got, want)
	}
}

func TestStoreGetBounds(t *testing.T) {
	s := NewStore(2)
	s.Push(logline.New("one", 0))
	if rec, ok := s.Get(0); !ok || rec.Raw != "one" {
		t.Errorf("Get(0) = %q, %v", rec.Raw, ok)
	}
	if _, ok := s.Get(1); ok {
		t.Error("Get(1) on len-1 store should fail")
	}
	if _, ok := s.Get(-1); ok {
		t.Error("Get(-1) should fail")
	}
}

func TestStoreGetAfterWrap(t *testing.T) {
	s := NewStore(3)
	for _, l := range []string{"A", "B", "C", "D"} {
		s.Push(logline.New(l, 0))
	}
	if rec, _ := s.Get(0); rec.Raw != "B" {
		t.Errorf("Get(0) = %q, want B", rec.Raw)
	}
	if rec, _ := s.Get(2); rec.Raw != "D" {
		t.Errorf("Get(2) = %q, want D", rec.Raw)
	}
}

func TestStoreEachStopsEarly(t *testing.T) {
	s := NewStore(4)
	for _, l := range []string{"A", "B", "C"} {
		s.Push(logline.New(l, 0))
	}
	var seen int
	s.Each(func(i int, rec logline.Record) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Errorf("Each visited %d records after stop, want 1", seen)
	}
}

func TestStoreMinimumCapacity(t *testing.T) {
	s := NewStore(0)
	if s.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1", s.Cap())
	}
}
