package ecs

import "testing"

func TestEntityStoreLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &EntityStore{}
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, s.Create())
			}
			for i, e := range ents {
				if !s.Alive(e) {
					t.Fatalf("entity %d should be alive", i)
				}
			}
			if c.destroyIndex >= 0 {
				if !s.Destroy(ents[c.destroyIndex]) {
					t.Fatalf("Destroy should return true for a live entity")
				}
				if s.Alive(ents[c.destroyIndex]) {
					t.Fatalf("entity should be dead after Destroy")
				}
				if s.Destroy(ents[c.destroyIndex]) {
					t.Fatalf("double Destroy should return false")
				}
			}
		})
	}
}

func TestEntityStoreStaleHandleAfterReuse(t *testing.T) {
	s := &EntityStore{}
	first := s.Create()
	s.Destroy(first)

	second := s.Create()
	if !s.Alive(second) {
		t.Fatalf("reissued slot should be alive")
	}
	if s.Alive(first) {
		t.Fatalf("stale handle must not pass the tombstone check")
	}
	if first == second {
		t.Fatalf("generations should distinguish reused slots")
	}
}

func TestIDGenMonotonicNeverReused(t *testing.T) {
	g := &IDGen{}
	seen := map[int64]bool{}
	last := int64(0)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if id <= last {
			t.Fatalf("ids must increase: %d after %d", id, last)
		}
		if seen[id] {
			t.Fatalf("id %d reused", id)
		}
		seen[id] = true
		last = id
	}

	g.Reset()
	if id := g.Next(); id != 1 {
		t.Fatalf("round reset should rewind the generator, got %d", id)
	}
}
