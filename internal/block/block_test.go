package block

import (
	"errors"
	"testing"
)

func TestNewInitialCapacity(t *testing.T) {
	tests := []struct {
		limit   int
		wantCap int
	}{
		{0, 0},
		{1, 1},
		{10, 10},
		{16, 16},
		{1024, 16},
		{-5, 0},
	}
	for _, tt := range tests {
		b := New[int](tt.limit)
		if b.Cap() != tt.wantCap {
			t.Errorf("New(%d).Cap() = %d, want %d", tt.limit, b.Cap(), tt.wantCap)
		}
		if b.Len() != 0 {
			t.Errorf("New(%d).Len() = %d, want 0", tt.limit, b.Len())
		}
	}
}

func TestPushGrowthDoublesUpToMax(t *testing.T) {
	b := New[int](40)
	var caps []int
	for i := range 40 {
		if err := b.Push(i); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
		if len(caps) == 0 || caps[len(caps)-1] != b.Cap() {
			caps = append(caps, b.Cap())
		}
	}
	want := []int{16, 32, 40}
	if len(caps) != len(want) {
		t.Fatalf("capacities = %v, want %v", caps, want)
	}
	for i := range want {
		if caps[i] != want[i] {
			t.Errorf("capacities = %v, want %v", caps, want)
			break
		}
	}
	if err := b.Push(41); !errors.Is(err, ErrFull) {
		t.Errorf("Push past max = %v, want ErrFull", err)
	}
	if b.Len() != 40 {
		t.Errorf("Len() after failed push = %d, want 40", b.Len())
	}
}

func TestZeroMax(t *testing.T) {
	b := New[string](0)
	if err := b.Push("x"); !errors.Is(err, ErrFull) {
		t.Errorf("Push on zero-max block = %v, want ErrFull", err)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	b := New[string](8)
	for _, s := range []string{"a", "b", "c"} {
		if err := b.Push(s); err != nil {
			t.Fatal(err)
		}
	}
	top, err := b.Peek()
	if err != nil || top != "c" {
		t.Errorf("Peek() = %q, %v, want \"c\", nil", top, err)
	}
	for _, want := range []string{"c", "b", "a"} {
		got, err := b.Pop()
		if err != nil {
			t.Fatalf("Pop(): %v", err)
		}
		if got != want {
			t.Errorf("Pop() = %q, want %q", got, want)
		}
	}
	if _, err := b.Pop(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Pop() on empty = %v, want ErrEmpty", err)
	}
	if _, err := b.Peek(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Peek() on empty = %v, want ErrEmpty", err)
	}
}

func TestAtSet(t *testing.T) {
	b := New[uint32](4)
	_ = b.Push(1)
	_ = b.Push(2)
	b.Set(0, 7)
	if b.At(0) != 7 || b.At(1) != 2 {
		t.Errorf("At = [%d %d], want [7 2]", b.At(0), b.At(1))
	}
	if got := b.Slice(); len(got) != 2 {
		t.Errorf("len(Slice()) = %d, want 2", len(got))
	}
}
