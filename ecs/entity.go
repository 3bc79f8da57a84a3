package ecs

import "strconv"

// Entity is a handle to a live game object: a 32-bit id packed with a
// 32-bit generation. The generation lets stale handles be detected after
// the id slot has been reused (tombstone check).
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Valid reports whether the handle was ever issued. It does not imply the
// entity is still alive; ask the store for that.
func (e Entity) Valid() bool {
	return e > 0
}

// EntityStore issues entity handles and tracks which ones are still alive.
type EntityStore struct {
	nextID entityID
	gens   []generation
	free   []entityID
}

// Create allocates a new entity handle.
func (s *EntityStore) Create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gens = append(s.gens, 0)
	}
	return makeEntity(id, s.gens[id-1])
}

// Destroy retires a handle. Returns false if it was already dead.
func (s *EntityStore) Destroy(e Entity) bool {
	if !s.Alive(e) {
		return false
	}
	s.gens[e.id()-1]++
	s.free = append(s.free, e.id())
	return true
}

// Alive reports whether the handle still refers to a live entity.
func (s *EntityStore) Alive(e Entity) bool {
	if s == nil || e == 0 {
		return false
	}
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.gens[id-1] == e.generation()
}
